package preset

import (
	"context"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/voicemeeter"
)

// ParamWriter is the slice of the session Apply needs. *voicemeeter.Session
// satisfies it.
type ParamWriter interface {
	SetFloat(ctx context.Context, ref string, value float32) error
	SetString(ctx context.Context, ref string, value string) error
}

// ApplyFailure records one parameter that could not be applied.
type ApplyFailure struct {
	Parameter string `json:"parameter"`
	Reason    string `json:"reason"`
}

// ApplyResult summarizes a preset application.
type ApplyResult struct {
	Preset   string         `json:"preset"`
	Applied  int            `json:"applied"`
	Failed   int            `json:"failed"`
	Failures []ApplyFailure `json:"failures,omitempty"`
}

// Apply writes every preset parameter with a valid Strip/Bus reference to the
// mixer. Individual failures are recorded and application continues, except
// when the session itself drops, which aborts the run. Float values go
// through the float setter, string values through the string setter.
func Apply(ctx context.Context, writer ParamWriter, p *Preset) (*ApplyResult, error) {
	result := &ApplyResult{Preset: p.Metadata.Name}

	apply := func(param Parameter) error {
		if _, err := voicemeeter.ParseParamRef(param.Name); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, ApplyFailure{
				Parameter: param.Name,
				Reason:    err.Error(),
			})
			return nil
		}

		var err error
		if param.Value.IsString {
			err = writer.SetString(ctx, param.Name, param.Value.Str)
		} else {
			err = writer.SetFloat(ctx, param.Name, float32(param.Value.Float))
		}
		if err != nil {
			if mcpErr, ok := mcperrors.AsMCPError(err); ok && mcpErr.Category() == mcperrors.CategoryTransport {
				return err
			}
			result.Failed++
			result.Failures = append(result.Failures, ApplyFailure{
				Parameter: param.Name,
				Reason:    err.Error(),
			})
			return nil
		}
		result.Applied++
		return nil
	}

	for _, strip := range p.Strips {
		for _, param := range strip.Parameters {
			if err := apply(param); err != nil {
				return result, err
			}
		}
	}
	for _, bus := range p.Buses {
		for _, param := range bus.Parameters {
			if err := apply(param); err != nil {
				return result, err
			}
		}
	}
	for _, scenario := range p.Scenarios {
		for _, param := range scenario.Parameters {
			if err := apply(param); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}
