//go:build !windows

package voicemeeter

import mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"

// NewGateway is only functional on Windows, where the Remote API DLL lives.
// On other platforms callers should use FakeGateway (--simulate mode).
func NewGateway() (Gateway, error) {
	return nil, mcperrors.DeviceNotInstalled("the Voicemeeter Remote API is only available on Windows; use simulate mode on this platform")
}
