package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/preset"
)

func newPresetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Inspect and manage preset files offline",
	}
	cmd.AddCommand(
		newPresetListCommand(),
		newPresetTemplateCommand(),
		newPresetConvertCommand(),
		newPresetDiffCommand(),
		newPresetBackupsCommand(),
	)
	return cmd
}

func newPresetListCommand() *cobra.Command {
	var extension string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List preset files in the preset directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := presetManager(cmd)
			if err != nil {
				return err
			}
			files, err := manager.List(extension)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no presets in %s\n", manager.Dir())
				return nil
			}
			printFileList(cmd, files)
			return nil
		},
	}
	cmd.Flags().StringVar(&extension, "extension", "", "only list files with this extension (e.g. .xml)")
	return cmd
}

func newPresetTemplateCommand() *cobra.Command {
	var (
		edition string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "template <name>",
		Short: "Generate a starter preset for a Voicemeeter edition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := simulateVariant(edition)
			if err != nil {
				return err
			}
			p, err := preset.Template(args[0], variant)
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Join(viper.GetString(keyPresetDir), args[0]+".xml")
			}
			if err := savePresetFile(p, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&edition, "type", "banana", "Voicemeeter edition (basic|banana|potato)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default <preset-dir>/<name>.xml)")
	return cmd
}

func newPresetConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a preset between XML and JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPresetFile(args[0])
			if err != nil {
				return err
			}
			if err := savePresetFile(p, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}
}

func newPresetDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two preset files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadPresetFile(args[0])
			if err != nil {
				return err
			}
			b, err := loadPresetFile(args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, preset.Diff(a, b))
		},
	}
}

func newPresetBackupsCommand() *cobra.Command {
	var cleanup bool
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List preset backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := presetManager(cmd)
			if err != nil {
				return err
			}
			if cleanup {
				removed, err := manager.CleanupOldBackups(preset.MaxBackupsPerPreset)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d old backups\n", len(removed))
			}
			files, err := manager.ListBackups()
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no backups")
				return nil
			}
			printFileList(cmd, files)
			return nil
		},
	}
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "remove old backups beyond the retention limit first")
	return cmd
}

func presetManager(cmd *cobra.Command) (*preset.Manager, error) {
	logger := logging.New(cmd.ErrOrStderr(), logging.NewTextFormatter())
	logger.SetLevel(logging.WarnLevel)
	return preset.NewManager(viper.GetString(keyPresetDir), viper.GetString(keyBackupDir), logger)
}

func printFileList(cmd *cobra.Command, files []preset.FileInfo) {
	for _, f := range files {
		// FileInfo.Name carries the stem only; re-attach the extension so
		// mixed .xml/.json listings stay unambiguous.
		fmt.Fprintf(cmd.OutOrStdout(), "%-40s %10s  %s\n",
			f.Name+f.Extension, humanize.IBytes(uint64(f.Size)), f.Modified.Format("2006-01-02 15:04:05"))
	}
}

func loadPresetFile(path string) (*preset.Preset, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return preset.LoadJSONFile(path)
	}
	return preset.LoadXMLFile(path)
}

func savePresetFile(p *preset.Preset, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return preset.SaveJSONFile(p, path)
	}
	return preset.SaveXMLFile(p, path)
}
