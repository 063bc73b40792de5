package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/devnote/internal/bootstrap"
	"github.com/at-ishikawa/devnote/internal/clock"
	"github.com/at-ishikawa/devnote/internal/exchange"
)

type FormatFlag string

// Set implements pflag.Value.
func (f *FormatFlag) Set(v string) error {
	switch v {
	case string(FormatJSON):
		*f = FormatJSON
	case string(FormatYAML), "yml":
		*f = FormatYAML
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, FormatJSON, FormatYAML)
	}
	return nil
}

// String implements pflag.Value.
func (f *FormatFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *FormatFlag) Type() string {
	return "FormatFlag"
}

var (
	_ pflag.Value = (*FormatFlag)(nil)
)

const (
	FormatJSON FormatFlag = exchange.FormatJSON
	FormatYAML FormatFlag = exchange.FormatYAML
)

// resolve returns the flag value, or the format implied by the extension of path when the flag is unset.
func (f FormatFlag) resolve(path string) string {
	if f != "" {
		return string(f)
	}
	return exchange.FormatFromPath(path)
}

func newExportCommand() *cobra.Command {
	var (
		output string
		format FormatFlag
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole journal to a backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = exchange.DefaultFileName(clock.System{}.Now())
				if format == FormatYAML {
					output = strings.TrimSuffix(output, ".json") + ".yaml"
				}
			}

			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				if output == "-" {
					return exchange.Export(cmd.OutOrStdout(), j.Store.Root(), format.resolve(output))
				}

				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", output, err)
				}
				if err := exchange.Export(file, j.Store.Root(), format.resolve(output)); err != nil {
					_ = file.Close()
					return fmt.Errorf("exchange.Export() > %w", err)
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("file.Close() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default devnote_backup_<date>.json)")
	cmd.Flags().Var(&format, "format", "Output format. Options: json, yaml; defaults to the extension of the output file")
	return cmd
}

func newImportCommand() *cobra.Command {
	var format FormatFlag
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the journal with the content of a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", path, err)
			}
			defer func() {
				_ = file.Close()
			}()

			root, err := exchange.Import(file, format.resolve(path))
			if err != nil {
				return fmt.Errorf("exchange.Import() > %w", err)
			}

			return withJournal(cmd.Context(), func(j *bootstrap.Journal) error {
				if err := j.Store.Replace(cmd.Context(), root); err != nil {
					return fmt.Errorf("store.Replace() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects and %d logs\n", len(root.Projects), len(root.Logs))
				return nil
			})
		},
	}
	cmd.Flags().Var(&format, "format", "Input format. Options: json, yaml; defaults to the extension of the file")
	return cmd
}
