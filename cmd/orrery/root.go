package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-orrery/engine/config"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "orrery",
		Short: "Keplerian solar-system viewer",
		Long: `Orrery propagates a table of bodies along Keplerian orbits and draws them
with an orbiting camera.

Configuration is read from --config, or from orrery.{toml,yaml,json} in the
current directory or $HOME/.orrery. Any key may be overridden from the
environment with the ORRERY_ prefix, e.g. ORRERY_SIMULATION_TIME_SCALE=30.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: search . and $HOME/.orrery)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides the config file)")

	cmd.AddCommand(
		newRunCmd(opts),
		newEphemerisCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// load resolves the configuration and builds the logger it asks for.
func (o *rootOptions) load(logOut io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	levelName := cfg.Log.Level
	if o.logLevel != "" {
		levelName = o.logLevel
	}
	level, err := config.ParseLogLevel(levelName)
	if err != nil {
		return nil, nil, fmt.Errorf("--log-level: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}
