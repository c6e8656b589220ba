package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	voicemeetermcp "github.com/ajitpratap0/voicemeeter-mcp-go"
)

// Viper keys for the root command's configuration.
const (
	keyLogLevel        = "log-level"
	keyLogFormat       = "log-format"
	keyPresetDir       = "preset-dir"
	keyBackupDir       = "backup-dir"
	keySimulate        = "simulate"
	keySimulateVariant = "simulate-variant"
	keyMetricsPort     = "metrics-port"
	keyTracingEndpoint = "tracing-endpoint"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voicemeeter-mcp",
		Short: "MCP server for the Voicemeeter virtual audio mixer",
		Long: `voicemeeter-mcp serves the Model Context Protocol on stdio and exposes
the Voicemeeter Remote API as MCP tools and resources.

stdout carries the protocol; all logs go to stderr. Off Windows, or
without Voicemeeter installed, --simulate runs against an in-memory
mixer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := voicemeetermcp.New(configFromViper())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("log-level", "info", "log level (debug|info|warn|error)")
	flags.String("log-format", "text", "log format (text|json)")
	flags.String("preset-dir", "presets", "directory holding preset files")
	flags.String("backup-dir", "", "directory for preset backups (default <preset-dir>/backups)")
	flags.Bool("simulate", false, "run against an in-memory mixer instead of the Remote API DLL")
	flags.String("simulate-variant", "banana", "simulated edition (basic|banana|potato)")
	flags.Int("metrics-port", 0, "serve Prometheus metrics on this port (0 disables)")
	flags.String("tracing-endpoint", "", "OTLP gRPC collector for traces (empty disables)")

	mustBindFlag(keyLogLevel, "VMMCP_LOG_LEVEL", flags.Lookup("log-level"))
	mustBindFlag(keyLogFormat, "VMMCP_LOG_FORMAT", flags.Lookup("log-format"))
	mustBindFlag(keyPresetDir, "VMMCP_PRESET_DIR", flags.Lookup("preset-dir"))
	mustBindFlag(keyBackupDir, "VMMCP_BACKUP_DIR", flags.Lookup("backup-dir"))
	mustBindFlag(keySimulate, "VMMCP_SIMULATE", flags.Lookup("simulate"))
	mustBindFlag(keySimulateVariant, "VMMCP_SIMULATE_VARIANT", flags.Lookup("simulate-variant"))
	mustBindFlag(keyMetricsPort, "VMMCP_METRICS_PORT", flags.Lookup("metrics-port"))
	mustBindFlag(keyTracingEndpoint, "VMMCP_TRACING_ENDPOINT", flags.Lookup("tracing-endpoint"))

	cmd.AddCommand(
		newVersionCommand(),
		newProbeCommand(),
		newPresetCommand(),
	)
	return cmd
}

func configFromViper() voicemeetermcp.Config {
	return voicemeetermcp.Config{
		LogLevel:        viper.GetString(keyLogLevel),
		LogFormat:       viper.GetString(keyLogFormat),
		PresetDir:       viper.GetString(keyPresetDir),
		BackupDir:       viper.GetString(keyBackupDir),
		Simulate:        viper.GetBool(keySimulate),
		SimulateVariant: viper.GetString(keySimulateVariant),
		MetricsPort:     viper.GetInt(keyMetricsPort),
		TracingEndpoint: viper.GetString(keyTracingEndpoint),
	}
}

func mustBindFlag(key, env string, flag *pflag.Flag) {
	if flag == nil {
		panic(fmt.Sprintf("flag for key %s not found", key))
	}
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
	if env != "" {
		if err := viper.BindEnv(key, env); err != nil {
			panic(err)
		}
	}
}
