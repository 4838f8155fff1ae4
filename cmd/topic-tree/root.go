// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/topic-tree/internal/config"
	"github.com/pdiddy/topic-tree/internal/discover"
	"github.com/pdiddy/topic-tree/internal/logging"
	"github.com/pdiddy/topic-tree/internal/scholar"
	"github.com/pdiddy/topic-tree/internal/secrets"
	"github.com/pdiddy/topic-tree/pkg/types"
)

// app carries the state of one CLI invocation. Each subcommand binds its
// flags to v; PersistentPreRunE resolves cfg and logger before any RunE.
type app struct {
	v      *viper.Viper
	cfg    types.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v, version)

	cmd := &cobra.Command{
		Use:   "topic-tree",
		Short: "Map a research topic to its most-cited papers and their top citing papers",
		Long: `topic-tree searches the Semantic Scholar Graph API for a topic, keeps the
most-cited papers published since a cutoff year as seeds, and lists the
most-cited papers citing each seed.

Run "topic-tree tree" for a report in the terminal or "topic-tree serve" for
the browser front end. An API key is optional; it is read from the config,
S2_API_KEY, SEMANTIC_SCHOLAR_API_KEY, or .secrets/semantic-scholar-api-key.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().String("config", "", "config file (default: ./topic-tree.yaml or $XDG_CONFIG_HOME/topic-tree/topic-tree.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
	cmd.PersistentFlags().String("log-format", "", "log format: text or json (default text)")
	a.v.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	a.v.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(newTreeCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads configuration and secrets and installs the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.Setup(a.v, cfgFile); err != nil {
		return err
	}

	s, err := secrets.Load(secrets.DefaultDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.v, s)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(a.logger)

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	if len(s) > 0 {
		keys := s.Keys()
		sort.Strings(keys)
		a.logger.Debug("loaded secrets", "keys", keys)
	}
	a.logger.Debug("configuration loaded",
		"base_url", cfg.Scholar.BaseURL,
		"api_key", cfg.Scholar.APIKey,
		"max_retries", cfg.Scholar.MaxRetries,
	)
	return nil
}

// newBuilder wires the graph API client into a report builder.
func (a *app) newBuilder() *discover.Builder {
	client := scholar.NewClient(a.cfg.Scholar, a.cfg.HTTP, a.logger)
	return discover.NewBuilder(client, a.cfg.Scholar, a.logger)
}
