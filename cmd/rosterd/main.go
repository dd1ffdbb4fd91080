// Command rosterd serves the roster report API and runs extraction and reporting from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/roster-reports/internal/common"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logDev     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "rosterd",
		Short:         "Turn photographed attendance rosters into reconciled reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (env vars override it)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&opts.logDev, "log-dev", false, "Human-readable console logs")

	cmd.AddCommand(newServeCmd(opts), newReportCmd(opts), newExtractCmd(opts))
	return cmd
}

// setup loads the configuration and builds the logger shared by every command.
func (o *rootOptions) setup() (*common.Config, *zap.Logger, error) {
	cfg, err := common.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logDev {
		cfg.Log.Dev = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger, err := common.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rosterd:", err)
		os.Exit(1)
	}
}
