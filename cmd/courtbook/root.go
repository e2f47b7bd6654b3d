package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/config"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "courtbook",
		Short:         "Court booking engine for the apartment tennis courts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (default ./config/config.yaml)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newClassifyCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// load resolves config and the process logger. A .env file, when present, is
// applied before config so its values act as env overrides.
func (o *rootOptions) load() (*config.Config, *logrus.Logger, error) {
	config.LoadDotEnv(logrus.StandardLogger())
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
