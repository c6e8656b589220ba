package preset

import (
	// Checksums identify preset content for comparison; they are not a
	// security boundary.
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
)

// Metadata describes a preset.
type Metadata struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Version         string   `json:"version"`
	Created         string   `json:"created"`
	Author          string   `json:"author,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	VoicemeeterType string   `json:"voicemeeter_type,omitempty"`
	Checksum        string   `json:"checksum,omitempty"`
}

// Value is a preset parameter value: either a float or a string, matching the
// two setter paths of the Remote API.
type Value struct {
	Float    float64
	Str      string
	IsString bool
}

// FloatValue builds a numeric value.
func FloatValue(f float64) Value {
	return Value{Float: f}
}

// StringValue builds a string value.
func StringValue(s string) Value {
	return Value{Str: s, IsString: true}
}

// ParseValue interprets raw text the way preset files do: numeric if it parses
// as a float, string otherwise.
func ParseValue(text string) Value {
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return FloatValue(f)
	}
	return StringValue(text)
}

// String renders the value as preset-file text.
func (v Value) String() string {
	if v.IsString {
		return v.Str
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// Equal reports whether two values are the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.IsString != other.IsString {
		return false
	}
	if v.IsString {
		return v.Str == other.Str
	}
	return v.Float == other.Float
}

// MarshalJSON renders numbers as JSON numbers and strings as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsString {
		return json.Marshal(v.Str)
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = FloatValue(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}
	return fmt.Errorf("parameter value must be a number or a string, got %s", string(data))
}

// Parameter is one named setting inside a preset section.
type Parameter struct {
	Name        string `json:"name"`
	Value       Value  `json:"value"`
	Description string `json:"description,omitempty"`
}

// Strip is the saved configuration of one input strip.
type Strip struct {
	ID         int         `json:"id"`
	Label      string      `json:"label,omitempty"`
	Parameters []Parameter `json:"parameters"`
}

// Bus is the saved configuration of one output bus.
type Bus struct {
	ID         int         `json:"id"`
	Label      string      `json:"label,omitempty"`
	Parameters []Parameter `json:"parameters"`
}

// Scenario is a named group of parameters applied together.
type Scenario struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// Preset is a complete saved mixer configuration.
type Preset struct {
	Metadata  Metadata   `json:"metadata"`
	Strips    []Strip    `json:"strips"`
	Buses     []Bus      `json:"buses"`
	Scenarios []Scenario `json:"scenarios"`
}

// ComputeChecksum hashes the preset's canonical JSON form, with the checksum
// field itself cleared so the result is stable across recomputation.
func (p *Preset) ComputeChecksum() (string, error) {
	clone := *p
	clone.Metadata.Checksum = ""

	// Round-trip through a generic map so keys serialize sorted regardless
	// of struct field order.
	raw, err := json.Marshal(&clone)
	if err != nil {
		return "", err
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}

	sum := md5.Sum(canonical) //nolint:gosec
	return hex.EncodeToString(sum[:]), nil
}

// Seal recomputes and stores the checksum.
func (p *Preset) Seal() error {
	checksum, err := p.ComputeChecksum()
	if err != nil {
		return err
	}
	p.Metadata.Checksum = checksum
	return nil
}

var versionPattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

var knownTypes = []string{"basic", "banana", "potato"}

// Validate checks the structural rules a well-formed preset must satisfy.
func (p *Preset) Validate() error {
	if p.Metadata.Name == "" {
		return mcperrors.MissingParameter("metadata.name")
	}
	if p.Metadata.Version == "" {
		return mcperrors.MissingParameter("metadata.version")
	}
	if !versionPattern.MatchString(p.Metadata.Version) {
		return mcperrors.InvalidFormat("metadata.version", p.Metadata.Version, "N.N or N.N.N")
	}
	if p.Metadata.Created == "" {
		return mcperrors.MissingParameter("metadata.created")
	}
	if t := p.Metadata.VoicemeeterType; t != "" {
		valid := false
		for _, known := range knownTypes {
			if t == known {
				valid = true
				break
			}
		}
		if !valid {
			return mcperrors.InvalidEnum("metadata.voicemeeter_type", t, knownTypes)
		}
	}

	for _, strip := range p.Strips {
		if strip.ID < 0 {
			return mcperrors.InvalidParameter("strips.id", strip.ID, "a non-negative integer")
		}
		if err := validateParameters("strips", strip.Parameters); err != nil {
			return err
		}
	}
	for _, bus := range p.Buses {
		if bus.ID < 0 {
			return mcperrors.InvalidParameter("buses.id", bus.ID, "a non-negative integer")
		}
		if err := validateParameters("buses", bus.Parameters); err != nil {
			return err
		}
	}
	for _, scenario := range p.Scenarios {
		if scenario.Name == "" {
			return mcperrors.MissingParameter("scenarios.name")
		}
		if err := validateParameters("scenarios", scenario.Parameters); err != nil {
			return err
		}
	}
	return nil
}

func validateParameters(section string, params []Parameter) error {
	for _, param := range params {
		if param.Name == "" {
			return mcperrors.MissingParameter(section + ".parameters.name")
		}
	}
	return nil
}
