package preset

import (
	"encoding/json"
	"os"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
)

// DecodeJSON parses and validates a JSON preset document.
func DecodeJSON(data []byte) (*Preset, error) {
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, mcperrors.ValidationErrorf("invalid JSON preset: %v", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeJSON validates and renders the preset as indented JSON.
func EncodeJSON(p *Preset) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// LoadJSONFile reads and validates a JSON preset from disk.
func LoadJSONFile(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mcperrors.ValidationErrorf("cannot read preset file %s: %v", path, err)
	}
	return DecodeJSON(data)
}

// SaveJSONFile writes the preset to disk as JSON.
func SaveJSONFile(p *Preset, path string) error {
	data, err := EncodeJSON(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
