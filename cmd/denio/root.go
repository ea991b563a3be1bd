package main

import (
	"fmt"

	"github.com/arloliu/denio/config"
	"github.com/arloliu/denio/logging"
	"github.com/spf13/cobra"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	threads    int

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "denio",
		Short: "Inspect and transform denio containers",
		Long: `denio works with DEN containers: multi-dimensional numeric arrays stored
as a sequence of 2-D frames behind a Legacy (6-byte) or Extended (4096-byte) header.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().IntVar(&a.threads, "threads", 0, "worker count, overrides the configuration")

	root.AddCommand(
		newInfoCmd(a),
		newStatsCmd(a),
		newDigestCmd(a),
		newPackCmd(a),
		newUnpackCmd(a),
		newConvertCmd(a),
		newScanCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if a.logLevel != "" {
		if _, ok := logging.ParseLevel(a.logLevel); !ok {
			return fmt.Errorf("unknown log level %q", a.logLevel)
		}
		cfg.Log.Level = a.logLevel
	}
	if a.threads > 0 {
		cfg.Threads = a.threads
		cfg.Reader.ExtraBuffers = a.threads - 1
	}

	a.cfg = cfg
	a.logger = cfg.Logger(cmd.ErrOrStderr())

	return nil
}
