package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/themis/format"
	"github.com/dhamidi/themis/project"
	"github.com/spf13/cobra"
)

func newParseCmd(flags *globalFlags) *cobra.Command {
	var outputFormat string
	var showUnresolved bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .java file on its own and dump its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if ext := filepath.Ext(filename); ext != ".java" {
				return fmt.Errorf("unsupported file extension: %s (expected .java)", ext)
			}
			cfg, err := flags.setup(filepath.Dir(filename))
			if err != nil {
				return err
			}
			enc, err := format.NewTreeEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			res, err := project.AnalyzeFile(filename, data, cfg.Resolve.HiddenChildren, nil)
			if err != nil {
				return err
			}
			if err := enc.Encode(res.File); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			for _, d := range res.Diagnostics {
				fmt.Fprintf(os.Stderr, "%s:%d: %s\n", d.File, d.Line, d.Message)
			}
			if showUnresolved {
				for _, u := range res.Unresolved {
					for _, site := range u.Sites {
						fmt.Fprintf(os.Stderr, "%s:%d: unresolved type %s\n", site.File, site.Line, u.Name)
					}
				}
			}
			fmt.Fprintf(os.Stderr, "%d lines, %d classes\n", res.File.Lines, len(res.File.FileScope().Objects()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVarP(&showUnresolved, "unresolved", "u", false, "list names that do not resolve within the file")

	return cmd
}
