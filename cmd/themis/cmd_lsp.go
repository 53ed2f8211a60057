package main

import (
	"github.com/dhamidi/themis/codebase"
	"github.com/spf13/cobra"
)

func newLSPCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.setup(".")
			if err != nil {
				return err
			}
			server := codebase.NewLSPServer(version, cfg.ProjectOptions())
			return server.RunStdio()
		},
	}
}
