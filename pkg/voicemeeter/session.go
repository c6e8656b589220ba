package voicemeeter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/observability"
)

// Level measurement points accepted by GetLevel.
const (
	LevelInputPreFader   int32 = 0
	LevelOutputPreFader  int32 = 1
	LevelOutputPostFader int32 = 2
	LevelOutputPostMute  int32 = 3
)

// SessionState is a snapshot of the session for status reporting.
type SessionState struct {
	Connected  bool    `json:"connected"`
	AppRunning bool    `json:"app_running"`
	Variant    Variant `json:"-"`
	Type       string  `json:"type,omitempty"`
	Version    string  `json:"version,omitempty"`
}

// ConnectResult reports what Connect found.
type ConnectResult struct {
	Variant          Variant
	Version          string
	AppRunning       bool
	AlreadyConnected bool
}

// Session owns the client link to the mixer. It serializes all Remote API
// calls behind one mutex since the vendor library is not reentrant, maps
// vendor statuses onto the MCP error taxonomy, and drops to disconnected when
// the server side goes away mid-session.
type Session struct {
	gw           Gateway
	logger       logging.Logger
	metrics      observability.MetricsProvider
	processProbe func(ctx context.Context) (bool, string, error)

	mu         sync.Mutex
	connected  bool
	appRunning bool
	variant    Variant
	version    string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMetrics records per-call durations and outcomes.
func WithMetrics(m observability.MetricsProvider) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithProcessProbe overrides how Run detects an already-running mixer.
func WithProcessProbe(probe func(ctx context.Context) (bool, string, error)) SessionOption {
	return func(s *Session) {
		s.processProbe = probe
	}
}

// NewSession wraps a Gateway. The session starts disconnected; nothing talks
// to the mixer until Connect.
func NewSession(gw Gateway, logger logging.Logger, opts ...SessionOption) *Session {
	if logger == nil {
		logger = logging.New(nil, logging.NewTextFormatter())
	}
	s := &Session{
		gw:           gw,
		logger:       logger.WithFields(logging.String("component", "session")),
		processProbe: ProcessRunning,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect logs in to the Remote API and probes the running edition.
// Connecting twice is a no-op that reports the existing session.
func (s *Session) Connect(ctx context.Context) (ConnectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return ConnectResult{
			Variant:          s.variant,
			Version:          s.version,
			AppRunning:       s.appRunning,
			AlreadyConnected: true,
		}, nil
	}

	if _, err := s.call(ctx, "login", func() error {
		st, loginErr := s.gw.Login()
		if loginErr != nil {
			return loginErr
		}
		s.appRunning = st == StatusOK
		return nil
	}); err != nil {
		return ConnectResult{}, err
	}

	s.connected = true
	s.variant = 0
	s.version = ""

	if s.appRunning {
		if vt, err := s.gw.GetVoicemeeterType(); err == nil {
			s.variant = Variant(vt)
		} else {
			s.logger.Warn("Could not read Voicemeeter type", logging.ErrorField(err))
		}
		if ver, err := s.gw.GetVoicemeeterVersion(); err == nil {
			s.version = DecodeVersion(ver)
		} else {
			s.logger.Warn("Could not read Voicemeeter version", logging.ErrorField(err))
		}
	}

	s.logger.Info("Connected to Voicemeeter",
		logging.Bool("app_running", s.appRunning),
		logging.String("type", s.variant.String()),
		logging.String("version", s.version))

	if s.metrics != nil {
		s.metrics.RecordConnectionState(ctx, "connected")
	}

	return ConnectResult{
		Variant:    s.variant,
		Version:    s.version,
		AppRunning: s.appRunning,
	}, nil
}

// Disconnect closes the client link. Disconnecting without a session is a
// no-op.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	// The link is considered closed even if logout reports a failure; the
	// vendor gives no way to recover a half-closed client slot.
	s.connected = false
	s.appRunning = false

	if s.metrics != nil {
		s.metrics.RecordConnectionState(ctx, "disconnected")
	}

	_, err := s.call(ctx, "logout", s.gw.Logout)
	if err != nil {
		s.logger.Warn("Logout reported an error", logging.ErrorField(err))
		return err
	}

	s.logger.Info("Disconnected from Voicemeeter")
	return nil
}

// Connected reports whether a session is active.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Variant reports the edition probed at connect time. Zero when disconnected
// or when the application was not running at connect time.
func (s *Session) Variant() Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.variant
}

// State snapshots the session for the status resource.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		Connected:  s.connected,
		AppRunning: s.appRunning,
		Variant:    s.variant,
		Version:    s.version,
	}
	if s.variant.Valid() {
		state.Type = s.variant.String()
	}
	return state
}

// ProcessRunning reports whether a Voicemeeter process is visible, using the
// session's configured probe.
func (s *Session) ProcessRunning(ctx context.Context) (bool, string, error) {
	return s.processProbe(ctx)
}

// Run launches a Voicemeeter application. It does not require an active
// session, and it is a no-op when a Voicemeeter process is already running.
func (s *Session) Run(ctx context.Context, application string) (bool, error) {
	kind, err := KindForName(application)
	if err != nil {
		return false, err
	}

	running, procName, err := s.processProbe(ctx)
	if err != nil {
		s.logger.Warn("Process scan failed, launching anyway", logging.ErrorField(err))
	}
	if running {
		s.logger.Info("Voicemeeter already running, skipping launch",
			logging.String("process", procName))
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.call(ctx, "run", func() error {
		return s.gw.RunVoicemeeter(kind)
	}); err != nil {
		return false, err
	}
	s.appRunning = true

	s.logger.Info("Launched Voicemeeter", logging.String("application", application))
	return true, nil
}

// GetFloat reads a float parameter.
func (s *Session) GetFloat(ctx context.Context, ref string) (float32, error) {
	parsed, err := ParseParamRef(ref)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return 0, mcperrors.NotConnected("get_parameter")
	}

	var value float32
	_, err = s.call(ctx, "get_parameter_float", func() error {
		var callErr error
		value, callErr = s.gw.GetParameterFloat(parsed.String())
		return callErr
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// SetFloat writes a float parameter.
func (s *Session) SetFloat(ctx context.Context, ref string, value float32) error {
	parsed, err := ParseParamRef(ref)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return mcperrors.NotConnected("set_parameter")
	}

	_, err = s.call(ctx, "set_parameter_float", func() error {
		return s.gw.SetParameterFloat(parsed.String(), value)
	})
	return err
}

// GetString reads a string parameter.
func (s *Session) GetString(ctx context.Context, ref string) (string, error) {
	parsed, err := ParseParamRef(ref)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return "", mcperrors.NotConnected("get_parameter")
	}

	var value string
	_, err = s.call(ctx, "get_parameter_string", func() error {
		var callErr error
		value, callErr = s.gw.GetParameterString(parsed.String())
		return callErr
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetString writes a string parameter. Values are length-capped before they
// reach the Remote API.
func (s *Session) SetString(ctx context.Context, ref string, value string) error {
	parsed, err := ParseParamRef(ref)
	if err != nil {
		return err
	}
	if err := ValidateStringValue(value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return mcperrors.NotConnected("set_parameter")
	}

	_, err = s.call(ctx, "set_parameter_string", func() error {
		return s.gw.SetParameterString(parsed.String(), value)
	})
	return err
}

// GetValue reads a parameter trying float first, then string. The Remote API
// has no type introspection, so a float miss that looks like a type mismatch
// falls through to the string getter.
func (s *Session) GetValue(ctx context.Context, ref string) (floatValue float32, stringValue string, isString bool, err error) {
	parsed, err := ParseParamRef(ref)
	if err != nil {
		return 0, "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return 0, "", false, mcperrors.NotConnected("get_parameter")
	}

	_, floatErr := s.call(ctx, "get_parameter_float", func() error {
		var callErr error
		floatValue, callErr = s.gw.GetParameterFloat(parsed.String())
		return callErr
	})
	if floatErr == nil {
		return floatValue, "", false, nil
	}
	if !s.connected {
		// The float attempt discovered a dead server; don't retry as string.
		return 0, "", false, floatErr
	}

	_, stringErr := s.call(ctx, "get_parameter_string", func() error {
		var callErr error
		stringValue, callErr = s.gw.GetParameterString(parsed.String())
		return callErr
	})
	if stringErr == nil {
		return 0, stringValue, true, nil
	}
	return 0, "", false, floatErr
}

// Levels reads one level per requested channel. Any channel failure fails the
// whole read, naming the channel that failed.
func (s *Session) Levels(ctx context.Context, levelType int32, channels []int32) ([]float32, error) {
	if levelType < LevelInputPreFader || levelType > LevelOutputPostMute {
		return nil, mcperrors.InvalidParameter("level_type", levelType, "an integer between 0 and 3")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, mcperrors.NotConnected("get_levels")
	}

	values := make([]float32, 0, len(channels))
	for _, channel := range channels {
		if channel < 0 {
			return nil, mcperrors.InvalidParameter("channels", channel, "a non-negative channel index")
		}
		var value float32
		ch := channel
		_, err := s.call(ctx, "get_level", func() error {
			var callErr error
			value, callErr = s.gw.GetLevel(levelType, ch)
			return callErr
		})
		if err != nil {
			if mcpErr, ok := mcperrors.AsMCPError(err); ok && mcpErr.Category() == mcperrors.CategoryTransport {
				// The session just dropped; the channel is not at fault.
				return nil, err
			}
			return nil, mcperrors.WrapErrorf(err, mcperrors.CodeDeviceError, mcperrors.CategoryProvider,
				mcperrors.SeverityError, "level read failed for channel %d", channel)
		}
		values = append(values, value)
	}
	return values, nil
}

// Level reads a single channel. Used by resource reads that tolerate partial
// failure.
func (s *Session) Level(ctx context.Context, levelType, channel int32) (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return 0, mcperrors.NotConnected("get_levels")
	}

	var value float32
	_, err := s.call(ctx, "get_level", func() error {
		var callErr error
		value, callErr = s.gw.GetLevel(levelType, channel)
		return callErr
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// IsDirty polls the Remote API's parameter-changed flag.
func (s *Session) IsDirty(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return false, mcperrors.NotConnected("is_dirty")
	}

	var dirty bool
	_, err := s.call(ctx, "is_dirty", func() error {
		var callErr error
		dirty, callErr = s.gw.IsParametersDirty()
		return callErr
	})
	return dirty, err
}

// Version reports the running application version in dotted form.
func (s *Session) Version(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return "", mcperrors.NotConnected("get_version")
	}
	if s.version != "" {
		return s.version, nil
	}

	var packed int32
	_, err := s.call(ctx, "get_version", func() error {
		var callErr error
		packed, callErr = s.gw.GetVoicemeeterVersion()
		return callErr
	})
	if err != nil {
		return "", err
	}
	s.version = DecodeVersion(packed)
	return s.version, nil
}

// call runs one vendor operation, translating failures onto the MCP error
// taxonomy and recording metrics. A StatusNoServer result flips the session
// to disconnected: the mixer went away and only a fresh Connect can recover.
// Callers must hold s.mu.
func (s *Session) call(ctx context.Context, op string, fn func() error) (int32, error) {
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordDeviceCall(ctx, op, outcome, duration)
	}
	s.logger.Debug("Remote API call",
		logging.String("call", op),
		logging.String("status", outcome),
		logging.Duration("duration", duration))

	if err == nil {
		return StatusOK, nil
	}

	var st *StatusError
	if errors.As(err, &st) {
		if st.Status == StatusNoServer {
			s.connected = false
			s.appRunning = false
			s.logger.Warn("Voicemeeter server is gone, dropping session",
				logging.String("call", op))
			return st.Status, mcperrors.ConnectionLost("remote-api", "voicemeeter",
				fmt.Errorf("%s: server side of the client link is gone", op))
		}
		return st.Status, mcperrors.DeviceFailure(op, int64(st.Status))
	}

	if _, ok := mcperrors.AsMCPError(err); ok {
		return 0, err
	}
	return 0, mcperrors.DeviceFailureWithCause(op, err)
}
