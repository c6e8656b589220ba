package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/voicemeeter"
)

// probeReport is what `probe` prints to stdout as JSON.
type probeReport struct {
	Installed      bool   `json:"installed"`
	InstallError   string `json:"install_error,omitempty"`
	ProcessRunning bool   `json:"process_running"`
	ProcessName    string `json:"process_name,omitempty"`
	Connected      bool   `json:"connected"`
	ConnectError   string `json:"connect_error,omitempty"`
	Type           string `json:"type,omitempty"`
	Version        string `json:"version,omitempty"`
	Simulated      bool   `json:"simulated,omitempty"`
}

func newProbeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check Remote API availability without serving",
		Long: `probe loads the Remote API, scans for a running Voicemeeter process and
attempts a short-lived login, then prints a JSON report. With --simulate
it probes the in-memory mixer instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.New(cmd.ErrOrStderr(), logging.NewTextFormatter())
			logger.SetLevel(logging.ErrorLevel)

			report := probeReport{Simulated: viper.GetBool(keySimulate)}

			running, name, err := voicemeeter.ProcessRunning(ctx)
			if err == nil {
				report.ProcessRunning = running
				report.ProcessName = name
			}

			var gw voicemeeter.Gateway
			if report.Simulated {
				variant, err := simulateVariant(viper.GetString(keySimulateVariant))
				if err != nil {
					return err
				}
				gw = voicemeeter.NewFakeGateway(variant)
			} else {
				gw, err = voicemeeter.NewGateway()
				if err != nil {
					report.InstallError = err.Error()
					return printJSON(cmd, report)
				}
			}
			report.Installed = true

			session := voicemeeter.NewSession(gw, logger)
			if _, err := session.Connect(ctx); err != nil {
				report.ConnectError = err.Error()
				return printJSON(cmd, report)
			}
			defer func() {
				if err := session.Disconnect(ctx); err != nil {
					logger.Warn("Logout failed after probe", logging.ErrorField(err))
				}
			}()

			report.Connected = true
			state := session.State()
			report.Type = state.Type
			if version, err := session.Version(ctx); err == nil {
				report.Version = version
			}
			return printJSON(cmd, report)
		},
	}
}

func simulateVariant(name string) (voicemeeter.Variant, error) {
	switch strings.ToLower(name) {
	case "", "banana":
		return voicemeeter.VariantBanana, nil
	case "basic":
		return voicemeeter.VariantBasic, nil
	case "potato":
		return voicemeeter.VariantPotato, nil
	default:
		return 0, fmt.Errorf("unknown simulate variant %q", name)
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", raw)
	return err
}
