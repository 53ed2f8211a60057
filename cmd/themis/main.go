package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/themis/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// errStrict is returned when --strict finds unresolved references. The
// report has already been written, so main exits without printing it.
var errStrict = errors.New("unresolved references remain")

type globalFlags struct {
	verbose    int
	logFile    string
	configPath string
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:           "themis",
		Short:         "Structural analysis of Java source trees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().CountVarP(&flags.verbose, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to "+config.FileName)

	rootCmd.AddCommand(newAnalyseCmd(&flags))
	rootCmd.AddCommand(newParseCmd(&flags))
	rootCmd.AddCommand(newProjectCmd(&flags))
	rootCmd.AddCommand(newWatchCmd(&flags))
	rootCmd.AddCommand(newLSPCmd(&flags))

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errStrict) {
			fmt.Fprintf(os.Stderr, "themis: %s\n", err)
		}
		os.Exit(1)
	}
}

// setup loads the configuration for dir and configures logging. Without
// --config, dir/themis.toml is used when it exists.
func (f *globalFlags) setup(dir string) (*config.Config, error) {
	path, optional := f.configPath, false
	if path == "" {
		path, optional = filepath.Join(dir, config.FileName), true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}

	verbosity := max(f.verbose, cfg.Log.Verbosity)
	logPath := cfg.Log.Path
	if f.logFile != "" {
		logPath = f.logFile
	}
	if logPath != "" {
		commonlog.Configure(verbosity, &logPath)
	} else {
		commonlog.Configure(verbosity, nil)
	}
	return cfg, nil
}
