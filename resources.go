package voicemeetermcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/preset"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/voicemeeter"
)

const (
	uriStatus      = "voicemeeter://status"
	uriVersion     = "voicemeeter://version"
	uriLevels      = "voicemeeter://levels"
	uriPresets     = "voicemeeter://presets"
	uriStripPrefix = "voicemeeter://strip/"
	uriBusPrefix   = "voicemeeter://bus/"
)

// remoteAPIVersion is the Remote API interface revision this adapter targets.
const remoteAPIVersion = "1.0.0"

// stripFloatParams are the per-strip settings the strip resource reports.
var stripFloatParams = []string{
	"mute", "mono", "solo", "gain", "comp", "gate", "limit",
	"A1", "A2", "A3", "A4", "A5", "B1", "B2", "B3",
}

// stripStringParams are read through the string getter.
var stripStringParams = []string{"label", "device.name"}

// busFloatParams are the per-bus settings the bus resource reports.
var busFloatParams = []string{
	"mute", "mono", "gain", "eq.on", "eq.ab", "sel",
	"returnreverb", "returndelay", "returnfx1", "returnfx2",
}

// mixerResources serves the voicemeeter:// resource tree. The listing is
// connection-gated: mixer-backed entries only appear while a session is
// active, sized to the connected edition's topology. Reads are pull-only;
// nothing is cached between calls.
type mixerResources struct {
	session *voicemeeter.Session
	library *preset.Library
	logger  logging.Logger
}

func newMixerResources(session *voicemeeter.Session, library *preset.Library, logger logging.Logger) *mixerResources {
	return &mixerResources{
		session: session,
		library: library,
		logger:  logger.WithFields(logging.String("component", "resources")),
	}
}

func (r *mixerResources) ListResources(ctx context.Context, uri string, recursive bool, pagination *protocol.PaginationParams) ([]protocol.Resource, []protocol.ResourceTemplate, int, string, bool, error) {
	resources := []protocol.Resource{
		{
			URI:         uriStatus,
			Name:        "Voicemeeter Status",
			Description: "Current status and connection information",
			Type:        "application/json",
		},
		{
			URI:         uriVersion,
			Name:        "Voicemeeter Version",
			Description: "Voicemeeter version information",
			Type:        "application/json",
		},
		{
			URI:         uriPresets,
			Name:        "Preset Library",
			Description: "Preset files known to the preset library",
			Type:        "application/json",
		},
	}

	if r.session.Connected() {
		variant := r.session.Variant()
		if variant.Valid() {
			resources = append(resources, protocol.Resource{
				URI:         uriLevels,
				Name:        "Audio Levels",
				Description: "Current audio levels for all channels",
				Type:        "application/json",
			})
			for i := 0; i < variant.Strips(); i++ {
				resources = append(resources, protocol.Resource{
					URI:         fmt.Sprintf("%s%d", uriStripPrefix, i),
					Name:        fmt.Sprintf("Strip %d", i),
					Description: fmt.Sprintf("Input strip %d parameters", i),
					Type:        "application/json",
				})
			}
			for i := 0; i < variant.Buses(); i++ {
				resources = append(resources, protocol.Resource{
					URI:         fmt.Sprintf("%s%d", uriBusPrefix, i),
					Name:        fmt.Sprintf("Bus %d", i),
					Description: fmt.Sprintf("Output bus %d parameters", i),
					Type:        "application/json",
				})
			}
		}
	}

	if uri != "" {
		filtered := resources[:0]
		for _, res := range resources {
			if res.URI == uri || (recursive && strings.HasPrefix(res.URI, uri)) {
				filtered = append(filtered, res)
			}
		}
		resources = filtered
	}

	total := len(resources)
	start, limit := decodeResourceCursor(pagination)
	if start >= total {
		return nil, nil, total, "", false, nil
	}
	end := start + limit
	if end > total {
		end = total
	}

	hasMore := end < total
	nextCursor := ""
	if hasMore {
		nextCursor = strconv.Itoa(end)
	}

	return resources[start:end], nil, total, nextCursor, hasMore, nil
}

// decodeResourceCursor parses the numeric offset cursor and applies the
// default limit, matching the server's registry providers.
func decodeResourceCursor(pagination *protocol.PaginationParams) (start, limit int) {
	limit = 50
	if pagination == nil {
		return 0, limit
	}
	if pagination.Limit > 0 {
		limit = pagination.Limit
	}
	if pagination.Cursor != "" {
		if n, err := strconv.Atoi(pagination.Cursor); err == nil && n > 0 {
			start = n
		}
	}
	return start, limit
}

func (r *mixerResources) ReadResource(ctx context.Context, uri string, templateParams map[string]interface{}, rangeOpt *protocol.ResourceRange) (*protocol.ResourceContents, error) {
	switch {
	case uri == uriStatus:
		return r.readStatus(ctx)
	case uri == uriVersion:
		return r.readVersion(ctx)
	case uri == uriLevels:
		return r.readLevels(ctx)
	case uri == uriPresets:
		return r.readPresets()
	case strings.HasPrefix(uri, uriStripPrefix):
		return r.readStrip(ctx, uri)
	case strings.HasPrefix(uri, uriBusPrefix):
		return r.readBus(ctx, uri)
	default:
		return nil, mcperrors.ResourceNotFoundByURI(uri)
	}
}

func (r *mixerResources) readStatus(ctx context.Context) (*protocol.ResourceContents, error) {
	state := r.session.State()

	processRunning, _, err := r.session.ProcessRunning(ctx)
	if err != nil {
		r.logger.Warn("Process scan failed for status read", logging.ErrorField(err))
	}

	status := map[string]interface{}{
		"connected":       state.Connected,
		"state":           stateName(state),
		"process_running": processRunning,
	}
	if state.Type != "" {
		status["type"] = state.Type
	}
	if state.Connected {
		if dirty, err := r.session.IsDirty(ctx); err == nil {
			status["parameters_dirty"] = dirty
		}
	}

	return resourceContents(uriStatus, status)
}

func stateName(state voicemeeter.SessionState) string {
	switch {
	case !state.Connected:
		return "disconnected"
	case !state.AppRunning:
		return "connected_app_not_running"
	default:
		return "connected"
	}
}

func (r *mixerResources) readVersion(ctx context.Context) (*protocol.ResourceContents, error) {
	version, err := r.session.Version(ctx)
	if err != nil {
		return nil, err
	}
	return resourceContents(uriVersion, map[string]interface{}{
		"version":     version,
		"api_version": remoteAPIVersion,
	})
}

// readLevels snapshots input and output levels across the connected
// edition's channels. Channels the mixer refuses to report are skipped, so a
// partially available meter bank still yields a useful snapshot.
func (r *mixerResources) readLevels(ctx context.Context) (*protocol.ResourceContents, error) {
	if !r.session.Connected() {
		return nil, mcperrors.NotConnected("read_levels")
	}

	variant := r.session.Variant()
	levels := make(map[string]float32)
	for i := 0; i < variant.Strips(); i++ {
		value, err := r.session.Level(ctx, voicemeeter.LevelInputPreFader, int32(i))
		if err != nil {
			if isSessionLoss(err) {
				return nil, err
			}
			continue
		}
		levels[fmt.Sprintf("input_%d", i)] = value
	}
	for i := 0; i < variant.Buses(); i++ {
		value, err := r.session.Level(ctx, voicemeeter.LevelOutputPostMute, int32(i))
		if err != nil {
			if isSessionLoss(err) {
				return nil, err
			}
			continue
		}
		levels[fmt.Sprintf("output_%d", i)] = value
	}

	return resourceContents(uriLevels, levels)
}

func (r *mixerResources) readPresets() (*protocol.ResourceContents, error) {
	catalog := r.library.Catalog()
	return resourceContents(uriPresets, map[string]interface{}{
		"presets": catalog,
		"count":   len(catalog),
	})
}

func (r *mixerResources) readStrip(ctx context.Context, uri string) (*protocol.ResourceContents, error) {
	index, err := r.channelIndex(uri, uriStripPrefix, r.session.Variant().Strips())
	if err != nil {
		return nil, err
	}

	data := make(map[string]interface{})
	for _, param := range stripFloatParams {
		ref := fmt.Sprintf("Strip[%d].%s", index, param)
		value, err := r.session.GetFloat(ctx, ref)
		if err != nil {
			if isSessionLoss(err) {
				return nil, err
			}
			continue
		}
		data[param] = value
	}
	for _, param := range stripStringParams {
		ref := fmt.Sprintf("Strip[%d].%s", index, param)
		value, err := r.session.GetString(ctx, ref)
		if err != nil {
			if isSessionLoss(err) {
				return nil, err
			}
			continue
		}
		data[param] = value
	}

	return resourceContents(uri, data)
}

func (r *mixerResources) readBus(ctx context.Context, uri string) (*protocol.ResourceContents, error) {
	index, err := r.channelIndex(uri, uriBusPrefix, r.session.Variant().Buses())
	if err != nil {
		return nil, err
	}

	data := make(map[string]interface{})
	for _, param := range busFloatParams {
		ref := fmt.Sprintf("Bus[%d].%s", index, param)
		value, err := r.session.GetFloat(ctx, ref)
		if err != nil {
			if isSessionLoss(err) {
				return nil, err
			}
			continue
		}
		data[param] = value
	}

	return resourceContents(uri, data)
}

// channelIndex parses and bounds-checks the index segment of a strip or bus
// URI. The session must be connected for these reads to make sense.
func (r *mixerResources) channelIndex(uri, prefix string, limit int) (int, error) {
	if !r.session.Connected() {
		return 0, mcperrors.NotConnected("read_resource")
	}

	raw := strings.TrimPrefix(uri, prefix)
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, mcperrors.InvalidFormat("uri", uri, prefix+"{index}")
	}
	if index >= limit {
		return 0, mcperrors.InvalidParameter("uri", uri,
			fmt.Sprintf("an index below %d for the connected edition", limit))
	}
	return index, nil
}

// isSessionLoss reports whether an error means the session itself dropped,
// as opposed to one channel or parameter being unavailable.
func isSessionLoss(err error) bool {
	mcpErr, ok := mcperrors.AsMCPError(err)
	return ok && mcpErr.Category() == mcperrors.CategoryTransport
}

func resourceContents(uri string, v interface{}) (*protocol.ResourceContents, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, mcperrors.CreateInternalError("marshal_resource", err)
	}
	return &protocol.ResourceContents{
		URI:     uri,
		Type:    "application/json",
		Content: raw,
	}, nil
}
