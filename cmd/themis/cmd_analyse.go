package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dhamidi/themis/format"
	"github.com/dhamidi/themis/metrics"
	"github.com/dhamidi/themis/project"
	"github.com/dhamidi/themis/store"
	"github.com/spf13/cobra"
)

func newAnalyseCmd(flags *globalFlags) *cobra.Command {
	var outputFormat string
	var dbPath string
	var strict bool

	cmd := &cobra.Command{
		Use:     "analyse <dir>",
		Aliases: []string{"analyze"},
		Short:   "Analyse a Maven project and report unresolved type references",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.setup(args[0])
			if err != nil {
				return err
			}
			enc, err := format.NewReportEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.Store.Path
			}

			report, err := analyse(cmd.Context(), args[0], cfg.ProjectOptions())
			if err != nil {
				return err
			}
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			if dbPath != "" {
				if err := saveReport(dbPath, report); err != nil {
					return err
				}
			}

			if report.Failed() {
				return fmt.Errorf("analysis of %s failed", report.Root)
			}
			if strict && len(report.Unresolved) > 0 {
				return errStrict
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVar(&dbPath, "db", "", "record the run in this SQLite database")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when unresolved references remain")

	return cmd
}

func analyse(ctx context.Context, dir string, opts project.Options) (*project.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := project.Load(dir, opts)
	if err != nil {
		return nil, err
	}
	report, err := p.Analyze(ctx)
	if report != nil {
		metrics.Observe(report)
	}
	if err != nil {
		return nil, fmt.Errorf("analyse %s: %w", p.Root, err)
	}
	return report, nil
}

func saveReport(dbPath string, report *project.Report) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.Save(report)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "recorded run %s in %s\n", runID, dbPath)
	return nil
}
