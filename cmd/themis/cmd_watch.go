package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhamidi/themis/codebase"
	"github.com/dhamidi/themis/format"
	"github.com/dhamidi/themis/metrics"
	"github.com/dhamidi/themis/project"
	"github.com/dhamidi/themis/store"
	"github.com/spf13/cobra"
)

func newWatchCmd(flags *globalFlags) *cobra.Command {
	var outputFormat string
	var dbPath string
	var metricsAddr string
	var noMetrics bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Analyse a project again whenever its sources change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			cfg, err := flags.setup(dir)
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
			if metricsAddr == "" {
				metricsAddr = cfg.Metrics.Addr
			}

			var db *store.Store
			if dbPath != "" {
				if db, err = store.Open(dbPath); err != nil {
					return err
				}
				defer db.Close()
			}

			cb := codebase.New(dir, cfg.ProjectOptions())
			cb.OnAnalyze(func(report *project.Report) {
				metrics.Observe(report)
				if err := enc.Encode(report); err != nil {
					fmt.Fprintf(os.Stderr, "encode report: %s\n", err)
				}
				if db == nil {
					return
				}
				if _, err := db.Save(report); err != nil {
					fmt.Fprintf(os.Stderr, "record run: %s\n", err)
				}
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if _, err := cb.Analyze(ctx); err != nil {
				return err
			}

			watcher, err := codebase.NewFileWatcher(cb, cfg.Watch.Debounce)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := watcher.Start(); err != nil {
				_ = watcher.Stop()
				return fmt.Errorf("watch %s: %w", dir, err)
			}

			var server *metrics.Server
			if !noMetrics {
				server = metrics.NewServer(metricsAddr)
				server.Start()
			}
			fmt.Fprintf(os.Stderr, "watching %s\n", cb.RootDir())

			<-ctx.Done()

			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if server != nil {
				if err := server.Stop(shutdown); err != nil {
					fmt.Fprintf(os.Stderr, "stop metrics server: %s\n", err)
				}
			}
			return watcher.Stop()
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVar(&dbPath, "db", "", "record every run in this SQLite database")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address of the Prometheus endpoint")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve metrics")

	return cmd
}
