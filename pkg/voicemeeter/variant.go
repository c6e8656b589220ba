package voicemeeter

import (
	"fmt"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
)

// Variant identifies which Voicemeeter edition is running. The numeric values
// match the Remote API's type and RunVoicemeeter codes.
type Variant int32

const (
	VariantBasic  Variant = 1
	VariantBanana Variant = 2
	VariantPotato Variant = 3
)

func (v Variant) String() string {
	switch v {
	case VariantBasic:
		return "basic"
	case VariantBanana:
		return "banana"
	case VariantPotato:
		return "potato"
	default:
		return fmt.Sprintf("unknown(%d)", int32(v))
	}
}

// Valid reports whether v is a known edition.
func (v Variant) Valid() bool {
	return v >= VariantBasic && v <= VariantPotato
}

// Strips returns the number of input strips for the edition.
func (v Variant) Strips() int {
	switch v {
	case VariantBanana:
		return 5
	case VariantPotato:
		return 8
	default:
		return 3
	}
}

// Buses returns the number of output buses for the edition.
func (v Variant) Buses() int {
	switch v {
	case VariantBanana:
		return 5
	case VariantPotato:
		return 8
	default:
		return 3
	}
}

// applicationNames maps the launchable application names to their
// RunVoicemeeter kind codes.
var applicationNames = []string{"voicemeeter", "banana", "potato"}

// KindForName resolves a launchable application name to its RunVoicemeeter
// kind code.
func KindForName(name string) (int32, error) {
	switch name {
	case "voicemeeter":
		return KindBasic, nil
	case "banana":
		return KindBanana, nil
	case "potato":
		return KindPotato, nil
	default:
		return 0, mcperrors.InvalidEnum("application", name, applicationNames)
	}
}

// DecodeVersion unpacks the Remote API's four-byte version integer into the
// dotted form shown to users, e.g. 0x02010008 -> "2.1.0.8".
func DecodeVersion(packed int32) string {
	v := uint32(packed)
	return fmt.Sprintf("%d.%d.%d.%d",
		(v>>24)&0xFF,
		(v>>16)&0xFF,
		(v>>8)&0xFF,
		v&0xFF,
	)
}
