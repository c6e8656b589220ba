package voicemeetermcp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/preset"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/server"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/voicemeeter"
)

// defaultLevelChannels is what voicemeeter_get_levels reads when the caller
// does not name channels.
var defaultLevelChannels = []int32{0, 1}

type runInput struct {
	Type string `json:"type"`
}

type getParameterInput struct {
	Parameter string `json:"parameter"`
	Type      string `json:"type,omitempty"`
}

type setParameterInput struct {
	Parameter string          `json:"parameter"`
	Value     json.RawMessage `json:"value"`
	Type      string          `json:"type,omitempty"`
}

type getLevelsInput struct {
	LevelType *int32  `json:"level_type,omitempty"`
	Channels  []int32 `json:"channels"`

	// channelsSet distinguishes an absent channels field (defaults apply)
	// from an explicit empty list (empty snapshot).
	channelsSet bool
}

func (in *getLevelsInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		LevelType *int32           `json:"level_type"`
		Channels  *json.RawMessage `json:"channels"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	in.LevelType = raw.LevelType
	if raw.Channels != nil {
		in.channelsSet = true
		if err := json.Unmarshal(*raw.Channels, &in.Channels); err != nil {
			return err
		}
	}
	return nil
}

type loadPresetInput struct {
	PresetPath string `json:"preset_path"`
}

// registerTools wires the mixer tools onto a registry-backed provider.
func registerTools(provider *server.BaseToolsProvider, session *voicemeeter.Session, presets *preset.Manager, logger logging.Logger) {
	log := logger.WithFields(logging.String("component", "tools"))

	provider.RegisterToolWithHandler(protocol.Tool{
		Name:        "voicemeeter_connect",
		Description: "Connect to Voicemeeter Remote API",
		InputSchema: json.RawMessage(`{"type":"object","properties":{},"required":[]}`),
		Categories:  []string{"session"},
	}, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
		result, err := session.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return toolResult(map[string]interface{}{
			"connected":         true,
			"type":              result.Variant.String(),
			"version":           result.Version,
			"app_running":       result.AppRunning,
			"already_connected": result.AlreadyConnected,
		})
	})

	provider.RegisterToolWithHandler(protocol.Tool{
		Name:        "voicemeeter_disconnect",
		Description: "Disconnect from Voicemeeter Remote API",
		InputSchema: json.RawMessage(`{"type":"object","properties":{},"required":[]}`),
		Categories:  []string{"session"},
	}, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
		if err := session.Disconnect(ctx); err != nil {
			return nil, err
		}
		return toolResult(map[string]interface{}{"disconnected": true})
	})

	provider.RegisterToolWithHandler(protocol.Tool{
		Name:        "voicemeeter_run",
		Description: "Launch Voicemeeter application",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"type": {
					"type": "string",
					"enum": ["voicemeeter", "banana", "potato"],
					"description": "Type of Voicemeeter to launch"
				}
			},
			"required": ["type"]
		}`),
		Categories: []string{"session"},
	}, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
		var in runInput
		if err := parseInput(input, &in); err != nil {
			return nil, err
		}
		if in.Type == "" {
			return nil, mcperrors.MissingParameter("type")
		}
		launched, err := session.Run(ctx, in.Type)
		if err != nil {
			return nil, err
		}
		return toolResult(map[string]interface{}{
			"type":            in.Type,
			"launched":        launched,
			"already_running": !launched,
		})
	})

	provider.RegisterToolWithHandler(protocol.Tool{
		Name:        "voicemeeter_get_parameter",
		Description: "Get a Voicemeeter parameter value",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"parameter": {
					"type": "string",
					"description": "Parameter name (e.g., 'Strip[0].mute', 'Bus[1].gain')"
				},
				"type": {
					"type": "string",
					"enum": ["float", "string"],
					"default": "float",
					"description": "Parameter type"
				}
			},
			"required": ["parameter"]
		}`),
		Categories: []string{"parameters"},
	}, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
		var in getParameterInput
		if err := parseInput(input, &in); err != nil {
			return nil, err
		}
		valueType, err := normalizeValueType(in.Type)
		if err != nil {
			return nil, err
		}

		var value interface{}
		if valueType == "string" {
			value, err = session.GetString(ctx, in.Parameter)
		} else {
			value, err = session.GetFloat(ctx, in.Parameter)
		}
		if err != nil {
			return nil, err
		}
		return toolResult(map[string]interface{}{
			"parameter": in.Parameter,
			"value":     value,
			"type":      valueType,
		})
	})

	provider.RegisterToolWithHandler(protocol.Tool{
		Name:        "voicemeeter_set_parameter",
		Description: "Set a Voicemeeter parameter value",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"parameter": {
					"type": "string",
					"description": "Parameter name (e.g., 'Strip[0].mute', 'Bus[1].gain')"
				},
				"value": {
					"type": ["number", "string"],
					"description": "Parameter value"
				},
				"type": {
					"type": "string",
					"enum": ["float", "string"],
					"default": "float",
					"description": "Parameter type"
				}
			},
			"required": ["parameter", "value"]
		}`),
		Categories: []string{"parameters"},
	}, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
		var in setParameterInput
		if err := parseInput(input, &in); err != nil {
			return nil, err
		}
		if len(in.Value) == 0 {
			return nil, mcperrors.MissingParameter("value")
		}
		valueType, err := normalizeValueType(in.Type)
		if err != nil {
			return nil, err
		}

		if valueType == "string" {
			var value string
			if err := json.Unmarshal(in.Value, &value); err != nil {
				return nil, mcperrors.InvalidParameter("value", string(in.Value), "a string")
			}
			if err := session.SetString(ctx, in.Parameter, value); err != nil {
				return nil, err
			}
			return toolResult(map[string]interface{}{
				"parameter": in.Parameter,
				"value":     value,
				"type":      valueType,
			})
		}

		value, err := floatFromJSON(in.Value)
		if err != nil {
			return nil, err
		}
		if err := session.SetFloat(ctx, in.Parameter, value); err != nil {
			return nil, err
		}
		return toolResult(map[string]interface{}{
			"parameter": in.Parameter,
			"value":     value,
			"type":      valueType,
		})
	})

	provider.RegisterToolWithHandler(protocol.Tool{
		Name:        "voicemeeter_get_levels",
		Description: "Get audio levels for specified channels",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"level_type": {
					"type": "integer",
					"description": "Level type (0=input, 1=output pre-fader, 2=output post-fader, 3=output post-mute)",
					"default": 0
				},
				"channels": {
					"type": "array",
					"items": {"type": "integer"},
					"description": "Channel indices to get levels for",
					"default": [0, 1]
				}
			},
			"required": []
		}`),
		Categories: []string{"levels"},
	}, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
		var in getLevelsInput
		if err := parseInput(input, &in); err != nil {
			return nil, err
		}

		levelType := voicemeeter.LevelInputPreFader
		if in.LevelType != nil {
			levelType = *in.LevelType
		}
		channels := defaultLevelChannels
		if in.channelsSet {
			channels = in.Channels
		}

		values, err := session.Levels(ctx, levelType, channels)
		if err != nil {
			return nil, err
		}
		return toolResult(map[string]interface{}{
			"level_type": levelType,
			"channels":   channels,
			"levels":     values,
		})
	})

	provider.RegisterToolWithHandler(protocol.Tool{
		Name:        "voicemeeter_load_preset",
		Description: "Load a Voicemeeter preset from XML file",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"preset_path": {
					"type": "string",
					"description": "Path to the XML preset file"
				}
			},
			"required": ["preset_path"]
		}`),
		Categories: []string{"presets"},
	}, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
		var in loadPresetInput
		if err := parseInput(input, &in); err != nil {
			return nil, err
		}
		if in.PresetPath == "" {
			return nil, mcperrors.MissingParameter("preset_path")
		}
		if !session.Connected() {
			return nil, mcperrors.NotConnected("load_preset")
		}

		p, err := presets.Load(in.PresetPath)
		if err != nil {
			return nil, err
		}

		result, err := preset.Apply(ctx, session, p)
		if err != nil {
			return nil, err
		}
		log.Info("Applied preset",
			logging.String("preset", result.Preset),
			logging.Int("applied", result.Applied),
			logging.Int("failed", result.Failed))
		return toolResult(result)
	})
}

// parseInput decodes tool input, treating absent input as an empty object.
func parseInput(input json.RawMessage, out interface{}) error {
	if len(input) == 0 {
		return nil
	}
	if err := json.Unmarshal(input, out); err != nil {
		return mcperrors.ValidationErrorf("invalid tool input: %v", err)
	}
	return nil
}

func normalizeValueType(t string) (string, error) {
	switch t {
	case "", "float":
		return "float", nil
	case "string":
		return "string", nil
	default:
		return "", mcperrors.InvalidEnum("type", t, []string{"float", "string"})
	}
}

// floatFromJSON accepts a JSON number, or a numeric string for callers that
// quote their values.
func floatFromJSON(raw json.RawMessage) (float32, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return float32(f), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 32); err == nil {
			return float32(f), nil
		}
	}
	return 0, mcperrors.InvalidParameter("value", string(raw), "a number")
}

func toolResult(v interface{}) (*protocol.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, mcperrors.CreateInternalError("marshal_tool_result", err)
	}
	return &protocol.CallToolResult{Result: raw}, nil
}
