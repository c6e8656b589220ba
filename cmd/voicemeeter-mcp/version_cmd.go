package main

import (
	"fmt"

	"github.com/spf13/cobra"

	voicemeetermcp "github.com/ajitpratap0/voicemeeter-mcp-go"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "voicemeeter-mcp %s\n", voicemeetermcp.Version)
			return err
		},
	}
}
