package voicemeetermcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/observability"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/preset"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/server"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/transport"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/voicemeeter"
)

// Version is the server version reported during the MCP handshake.
const Version = "1.0.0"

// Config assembles a Voicemeeter MCP server. The zero value is usable: real
// gateway, presets under ./presets, info-level text logs on stderr, no
// metrics listener.
type Config struct {
	// Name overrides the advertised server name.
	Name string

	// PresetDir and BackupDir hold preset files and their backups.
	PresetDir string
	BackupDir string

	// Simulate swaps the vendor DLL for an in-memory mixer. SimulateVariant
	// picks its edition ("basic", "banana" or "potato"; default banana).
	Simulate        bool
	SimulateVariant string

	// LogLevel is debug, info, warn or error. LogFormat is text or json.
	// Logs always go to stderr: stdout carries the protocol.
	LogLevel  string
	LogFormat string

	// MetricsPort enables a Prometheus /metrics listener when non-zero.
	MetricsPort int

	// TracingEndpoint, when set, exports OTLP traces over gRPC to this
	// collector address.
	TracingEndpoint string

	// LogOutput overrides the log destination. Tests use this.
	LogOutput io.Writer
}

// App is a fully wired Voicemeeter MCP server: session, preset library,
// tool and resource providers, and the stdio protocol server.
type App struct {
	cfg     Config
	logger  logging.Logger
	session *voicemeeter.Session
	presets *preset.Manager
	library *preset.Library
	metrics observability.MetricsProvider
	server  *server.Server
}

// New builds the server from configuration. Nothing touches the mixer yet;
// the session stays disconnected until a client calls voicemeeter_connect.
func New(cfg Config) (*App, error) {
	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}

	gateway, err := buildGateway(cfg, logger)
	if err != nil {
		return nil, err
	}

	var metrics observability.MetricsProvider
	if cfg.MetricsPort > 0 {
		metrics, err = observability.NewMetricsProvider(observability.MetricsConfig{
			ServiceName:    serverName(cfg),
			ServiceVersion: Version,
			MetricsPort:    cfg.MetricsPort,
		})
		if err != nil {
			return nil, fmt.Errorf("metrics provider: %w", err)
		}
	}

	sessionOpts := []voicemeeter.SessionOption{}
	if metrics != nil {
		sessionOpts = append(sessionOpts, voicemeeter.WithMetrics(metrics))
	}
	session := voicemeeter.NewSession(gateway, logger, sessionOpts...)

	presets, err := preset.NewManager(cfg.PresetDir, cfg.BackupDir, logger)
	if err != nil {
		return nil, err
	}
	library := preset.NewLibrary(presets.Dir(), logger)

	toolsProvider := server.NewBaseToolsProvider()
	registerTools(toolsProvider, session, presets, logger)
	resourcesProvider := newMixerResources(session, library, logger)

	var t transport.Transport = transport.NewStdioTransport()
	t = transport.NewObservabilityMiddleware(transport.ObservabilityConfig{
		EnableMetrics: true,
		EnableLogging: strings.EqualFold(cfg.LogLevel, "debug"),
		LogLevel:      cfg.LogLevel,
		MetricsPrefix: "voicemeeter_mcp",
	}).Wrap(t)

	if cfg.TracingEndpoint != "" {
		// Metrics stay off here: the session and transport layers already
		// feed the Prometheus provider.
		tracing, err := observability.NewEnhancedObservabilityMiddleware(observability.ObservabilityConfig{
			EnableTracing: true,
			TracingConfig: observability.TracingConfig{
				ServiceName:    serverName(cfg),
				ServiceVersion: Version,
				ExporterType:   observability.ExporterTypeOTLPGRPC,
				Endpoint:       cfg.TracingEndpoint,
				Insecure:       true,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("tracing middleware: %w", err)
		}
		t = tracing.Wrap(t)
	}

	srv := server.New(t,
		server.WithName(serverName(cfg)),
		server.WithVersion(Version),
		server.WithDescription("MCP server for Voicemeeter audio control"),
		server.WithToolsProvider(toolsProvider),
		server.WithResourcesProvider(resourcesProvider),
		server.WithCapability(protocol.CapabilityLogging, true),
		server.WithStructuredLogger(logger),
	)

	return &App{
		cfg:     cfg,
		logger:  logger,
		session: session,
		presets: presets,
		library: library,
		metrics: metrics,
		server:  srv,
	}, nil
}

// Session exposes the mixer session, mainly for the probe CLI command.
func (a *App) Session() *voicemeeter.Session {
	return a.session
}

// Presets exposes the preset manager for the preset CLI commands.
func (a *App) Presets() *preset.Manager {
	return a.presets
}

// Run serves the protocol on stdio until the context ends, keeping the
// preset catalog current in the background. On shutdown the transport drains
// and any open mixer session logs out.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting Voicemeeter MCP server",
		logging.String("name", serverName(a.cfg)),
		logging.Bool("simulate", a.cfg.Simulate))

	if a.metrics != nil {
		if err := a.metrics.Start(ctx); err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.library.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			// The catalog going stale should not take the server down.
			a.logger.Warn("Preset watcher stopped", logging.ErrorField(err))
		}
		return nil
	})
	g.Go(func() error {
		return a.server.Start(ctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	shutdownCtx := context.Background()
	if stopErr := a.server.Stop(); stopErr != nil {
		a.logger.Warn("Server stop reported an error", logging.ErrorField(stopErr))
	}
	if a.session.Connected() {
		if discErr := a.session.Disconnect(shutdownCtx); discErr != nil {
			a.logger.Warn("Session logout failed during shutdown", logging.ErrorField(discErr))
		}
	}
	if a.metrics != nil {
		if mErr := a.metrics.Shutdown(shutdownCtx); mErr != nil {
			a.logger.Warn("Metrics shutdown failed", logging.ErrorField(mErr))
		}
	}

	a.logger.Info("Voicemeeter MCP server stopped")
	return err
}

func serverName(cfg Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return "voicemeeter-mcp"
}

func buildLogger(cfg Config) (logging.Logger, error) {
	var formatter logging.Formatter
	switch strings.ToLower(cfg.LogFormat) {
	case "", "text":
		formatter = logging.NewTextFormatter()
	case "json":
		formatter = logging.NewJSONFormatter()
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", cfg.LogFormat)
	}

	output := cfg.LogOutput
	if output == nil {
		output = os.Stderr
	}
	logger := logging.New(output, formatter)

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		logger.SetLevel(logging.DebugLevel)
	case "", "info":
		logger.SetLevel(logging.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(logging.WarnLevel)
	case "error":
		logger.SetLevel(logging.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	return logger, nil
}

func buildGateway(cfg Config, logger logging.Logger) (voicemeeter.Gateway, error) {
	if !cfg.Simulate {
		return voicemeeter.NewGateway()
	}

	variant := voicemeeter.VariantBanana
	switch strings.ToLower(cfg.SimulateVariant) {
	case "", "banana":
	case "basic":
		variant = voicemeeter.VariantBasic
	case "potato":
		variant = voicemeeter.VariantPotato
	default:
		return nil, fmt.Errorf("unknown simulate variant %q", cfg.SimulateVariant)
	}

	logger.Info("Running against a simulated mixer", logging.String("variant", variant.String()))
	return voicemeeter.NewFakeGateway(variant), nil
}
