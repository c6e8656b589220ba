package voicemeeter

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessRunning scans the process table for a Voicemeeter executable. It
// returns the matched process name so callers can log which edition was seen.
// Per-process name lookups that fail (the process exited mid-scan, or access
// was denied) are skipped rather than treated as errors.
func ProcessRunning(ctx context.Context) (bool, string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, "", err
	}

	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if isVoicemeeterProcess(name) {
			return true, name, nil
		}
	}
	return false, "", nil
}

// isVoicemeeterProcess matches the vendor executables: voicemeeter.exe,
// voicemeeterpro.exe (banana) and voicemeeter8.exe / voicemeeter8x64.exe
// (potato) all share the prefix.
func isVoicemeeterProcess(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), "voicemeeter")
}
