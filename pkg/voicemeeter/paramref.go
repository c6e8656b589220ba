package voicemeeter

import (
	"regexp"
	"strconv"
	"strings"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
)

const (
	// MaxParamRefLen bounds the accepted length of a parameter reference.
	MaxParamRefLen = 100

	// MaxStringValueLen bounds string parameter values written through the
	// Remote API, comfortably inside its 512-byte read buffer.
	MaxStringValueLen = 256
)

// paramRefPattern accepts the Strip[i].Name / Bus[i].Name addressing grammar.
// The trailing segment allows dotted sub-parameters such as Strip[0].EQ.on.
var paramRefPattern = regexp.MustCompile(`^(Strip|Bus)\[(\d+)\]\.([a-zA-Z][a-zA-Z0-9_.]*)$`)

// ParamRef is a validated Voicemeeter parameter reference.
type ParamRef struct {
	// Target is "Strip" or "Bus".
	Target string

	// Index is the strip or bus number. Validated syntactically only; the
	// running edition decides whether the index exists.
	Index int

	// Name is the parameter path after the index, e.g. "mute" or "EQ.on".
	Name string

	raw string
}

// String returns the reference in the vendor's addressing form.
func (r ParamRef) String() string {
	return r.raw
}

// IsStrip reports whether the reference addresses an input strip.
func (r ParamRef) IsStrip() bool {
	return r.Target == "Strip"
}

// ParseParamRef validates a parameter reference against the addressing
// grammar. It rejects over-long and malformed references before anything
// reaches the Remote API.
func ParseParamRef(ref string) (ParamRef, error) {
	if ref == "" {
		return ParamRef{}, mcperrors.MissingParameter("parameter")
	}
	if len(ref) > MaxParamRefLen {
		return ParamRef{}, mcperrors.StringTooLong("parameter", ref, MaxParamRefLen)
	}

	m := paramRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return ParamRef{}, mcperrors.InvalidFormat("parameter", ref, "Strip[i].Name or Bus[i].Name")
	}

	index, err := strconv.Atoi(m[2])
	if err != nil {
		// Unreachable with the digit-only capture, kept for safety.
		return ParamRef{}, mcperrors.InvalidFormat("parameter", ref, "Strip[i].Name or Bus[i].Name")
	}

	return ParamRef{
		Target: m[1],
		Index:  index,
		Name:   m[3],
		raw:    ref,
	}, nil
}

// ValidateStringValue checks a string parameter value before it is written.
func ValidateStringValue(value string) error {
	if len(value) > MaxStringValueLen {
		return mcperrors.StringTooLong("value", value, MaxStringValueLen)
	}
	if strings.ContainsRune(value, 0) {
		return mcperrors.ValidationError("string parameter values must not contain NUL bytes")
	}
	return nil
}
