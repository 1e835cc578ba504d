package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"mathtype/internal/mapping"

	"github.com/spf13/cobra"
)

func newConvertCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [text...]",
		Short: "Convert text given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openService()
			if err != nil {
				return err
			}

			if len(args) > 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), svc.Convert(strings.Join(args, " ")))
				return err
			}

			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), svc.Convert(string(input)))
			return err
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var tier string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mappings of one tier or the merged view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openService()
			if err != nil {
				return err
			}

			var entries mapping.Entries
			switch tier {
			case "merged":
				entries = svc.GetMergedMapping()
			case "fixed":
				entries = svc.GetTable().Fixed.Entries()
			case "custom":
				entries = svc.GetTable().Custom.Entries()
			default:
				return fmt.Errorf("unknown tier %q (want fixed, custom or merged)", tier)
			}

			// One KEY<TAB>VALUE line per entry, for cut and awk.
			w := bufio.NewWriter(cmd.OutOrStdout())
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Value)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "merged", "fixed, custom or merged")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add KEY VALUE",
		Short: "Add or replace a custom mapping",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openService()
			if err != nil {
				return err
			}
			if err := svc.AddMapping(args[0], args[1]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added: %s -> %s\n", args[0], args[1])
			return err
		},
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove KEY",
		Short: "Remove a custom mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openService()
			if err != nil {
				return err
			}
			removed, err := svc.RemoveMapping(args[0])
			if err != nil {
				return err
			}
			if !removed {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "not a custom mapping: %s\n", args[0])
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed: %s\n", args[0])
			return err
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the mapping document with FILE",
		Long: `Replace the mapping document with FILE. FILE must be a valid mapping
document. The current document is not read, so a corrupt one can be replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, log, err := opts.load()
			if err != nil {
				return err
			}
			if err := mapping.ImportFile(settings.MappingFile, args[0]); err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}

			log.Info("main", "mapping file imported", map[string]interface{}{
				"source": args[0],
				"path":   settings.MappingFile,
			})
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %s into %s\n", args[0], settings.MappingFile)
			return err
		},
	}
}
