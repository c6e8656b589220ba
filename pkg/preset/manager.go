package preset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/voicemeeter"
)

// MaxFileSize caps preset files accepted for loading.
const MaxFileSize = 10 << 20 // 10 MiB

// MaxBackupsPerPreset bounds how many timestamped backups each preset keeps.
const MaxBackupsPerPreset = 10

// backupTimeFormat names backup files name_YYYYMMDD_HHMMSS.ext.
const backupTimeFormat = "20060102_150405"

// FileInfo describes one preset or backup file on disk.
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Extension string    `json:"extension"`
	Size      int64     `json:"size"`
	Modified  time.Time `json:"modified"`
}

// Manager owns the preset and backup directories.
type Manager struct {
	presetDir string
	backupDir string
	logger    logging.Logger
}

// NewManager creates the preset and backup directories if needed.
func NewManager(presetDir, backupDir string, logger logging.Logger) (*Manager, error) {
	if logger == nil {
		logger = logging.New(nil, logging.NewTextFormatter())
	}
	if presetDir == "" {
		presetDir = "presets"
	}
	if backupDir == "" {
		backupDir = filepath.Join(presetDir, "backups")
	}

	if err := os.MkdirAll(presetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create preset directory: %w", err)
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	logger.Info("Preset manager ready",
		logging.String("preset_dir", presetDir),
		logging.String("backup_dir", backupDir))

	return &Manager{
		presetDir: presetDir,
		backupDir: backupDir,
		logger:    logger.WithFields(logging.String("component", "preset")),
	}, nil
}

// Dir returns the preset directory.
func (m *Manager) Dir() string {
	return m.presetDir
}

// CheckLoadable validates a preset path before parsing: the file must exist,
// carry the .xml extension, and stay under MaxFileSize.
func CheckLoadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return mcperrors.ValidationErrorf("preset file not found: %s", path)
	}
	if info.IsDir() {
		return mcperrors.InvalidParameter("preset_path", path, "a file, not a directory")
	}
	if !strings.EqualFold(filepath.Ext(path), ".xml") {
		return mcperrors.InvalidParameter("preset_path", path, "a .xml preset file")
	}
	if info.Size() > MaxFileSize {
		return mcperrors.ValidationErrorf("preset file is %s, the limit is %s",
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(MaxFileSize)))
	}
	return nil
}

// Load reads an XML preset after the loadability checks.
func (m *Manager) Load(path string) (*Preset, error) {
	if err := CheckLoadable(path); err != nil {
		return nil, err
	}
	p, err := LoadXMLFile(path)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Loaded preset",
		logging.String("name", p.Metadata.Name),
		logging.String("path", path))
	return p, nil
}

// List enumerates preset files, newest first. extension filters by suffix
// when non-empty (".xml" or ".json").
func (m *Manager) List(extension string) ([]FileInfo, error) {
	return listDir(m.presetDir, extension)
}

// ListBackups enumerates backup files, newest first.
func (m *Manager) ListBackups() ([]FileInfo, error) {
	return listDir(m.backupDir, "")
}

func listDir(dir, extension string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if extension != "" && !strings.EqualFold(ext, extension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:      strings.TrimSuffix(entry.Name(), ext),
			Path:      filepath.Join(dir, entry.Name()),
			Extension: ext,
			Size:      info.Size(),
			Modified:  info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})
	return files, nil
}

// CreateBackup copies a preset file into the backup directory under a
// timestamped name, then prunes old backups of the same preset.
func (m *Manager) CreateBackup(presetPath string) (string, error) {
	ext := filepath.Ext(presetPath)
	stem := strings.TrimSuffix(filepath.Base(presetPath), ext)
	backupName := fmt.Sprintf("%s_%s%s", stem, time.Now().Format(backupTimeFormat), ext)
	backupPath := filepath.Join(m.backupDir, backupName)

	if err := copyFile(presetPath, backupPath); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	m.logger.Info("Created backup", logging.String("backup", backupPath))

	if _, err := m.CleanupOldBackups(MaxBackupsPerPreset); err != nil {
		m.logger.Warn("Backup cleanup failed", logging.ErrorField(err))
	}
	return backupPath, nil
}

// RestoreFromBackup copies a backup file over the target path.
func (m *Manager) RestoreFromBackup(backupPath, targetPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return mcperrors.ValidationErrorf("backup file not found: %s", backupPath)
	}
	if err := copyFile(backupPath, targetPath); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	m.logger.Info("Restored preset from backup",
		logging.String("backup", backupPath),
		logging.String("target", targetPath))
	return nil
}

// CleanupOldBackups keeps the newest maxPerPreset backups of each preset and
// deletes the rest. It returns the deleted paths.
func (m *Manager) CleanupOldBackups(maxPerPreset int) ([]string, error) {
	backups, err := m.ListBackups()
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]FileInfo)
	for _, backup := range backups {
		// Backup stems look like name_YYYYMMDD_HHMMSS; anything else is
		// left alone.
		parts := strings.Split(backup.Name, "_")
		if len(parts) < 3 {
			continue
		}
		original := strings.Join(parts[:len(parts)-2], "_")
		groups[original] = append(groups[original], backup)
	}

	var deleted []string
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Modified.After(group[j].Modified)
		})
		for _, backup := range group[min(maxPerPreset, len(group)):] {
			if err := os.Remove(backup.Path); err != nil {
				m.logger.Warn("Could not delete old backup",
					logging.String("backup", backup.Path),
					logging.ErrorField(err))
				continue
			}
			deleted = append(deleted, backup.Path)
		}
	}
	return deleted, nil
}

// Template topology per edition: the bus counts are intentionally smaller
// than the mixer's so templates stay portable across hardware setups.
var templateTopology = map[voicemeeter.Variant]struct{ strips, buses int }{
	voicemeeter.VariantBasic:  {3, 2},
	voicemeeter.VariantBanana: {5, 3},
	voicemeeter.VariantPotato: {8, 5},
}

// Template builds a starter preset for the given edition.
func Template(name string, variant voicemeeter.Variant) (*Preset, error) {
	topology, ok := templateTopology[variant]
	if !ok {
		topology = templateTopology[voicemeeter.VariantPotato]
		variant = voicemeeter.VariantPotato
	}

	p := &Preset{
		Metadata: Metadata{
			Name:            name,
			Description:     fmt.Sprintf("Template for Voicemeeter %s", titleCase(variant.String())),
			Version:         "1.0",
			Created:         time.Now().Format(time.RFC3339),
			VoicemeeterType: variant.String(),
		},
	}

	for i := 0; i < topology.strips; i++ {
		params := []Parameter{
			{Name: fmt.Sprintf("Strip[%d].label", i), Value: StringValue(fmt.Sprintf("Strip %d", i+1))},
			{Name: fmt.Sprintf("Strip[%d].mute", i), Value: FloatValue(0)},
			{Name: fmt.Sprintf("Strip[%d].gain", i), Value: FloatValue(0)},
			{Name: fmt.Sprintf("Strip[%d].A1", i), Value: FloatValue(1)},
			{Name: fmt.Sprintf("Strip[%d].A2", i), Value: FloatValue(0)},
		}
		// The first two strips are usually hardware inputs; give them the
		// voice-processing defaults.
		if i < 2 {
			params = append(params,
				Parameter{Name: fmt.Sprintf("Strip[%d].B1", i), Value: FloatValue(0)},
				Parameter{Name: fmt.Sprintf("Strip[%d].comp", i), Value: FloatValue(0)},
				Parameter{Name: fmt.Sprintf("Strip[%d].gate", i), Value: FloatValue(0)},
			)
		}
		p.Strips = append(p.Strips, Strip{ID: i, Parameters: params})
	}

	for i := 0; i < topology.buses; i++ {
		p.Buses = append(p.Buses, Bus{ID: i, Parameters: []Parameter{
			{Name: fmt.Sprintf("Bus[%d].mute", i), Value: FloatValue(0)},
			{Name: fmt.Sprintf("Bus[%d].gain", i), Value: FloatValue(0)},
			{Name: fmt.Sprintf("Bus[%d].eq.on", i), Value: FloatValue(0)},
		}})
	}

	p.Scenarios = []Scenario{
		{Name: "default", Description: "Default configuration"},
	}

	if err := p.Seal(); err != nil {
		return nil, err
	}
	return p, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
