package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/logging"
)

var rootCmd = &cobra.Command{
	Use:   "fxdash",
	Short: "Fundamental news dashboard for FX traders",
	Long: `fxdash combines the economic calendar, news sentiment and market safety
into trading signals and risk-aware position sizes.

It provides tools for:
  - Serving the web dashboard with a live news stream
  - Printing signals, events and scored news in the terminal
  - Sizing positions and checking trade setups
  - Keeping a trade journal

Configuration is read from a YAML or JSON file, then from .env and the
environment (FXDASH_*, OANDA_TOKEN, OPENAI_API_KEY).`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile  string
	envFiles []string

	cfg    *config.Config
	logger zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "env files to load (default .env)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if err := cfg.LoadEnv(envFiles...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger = logging.NewWriter(cfg.Log, cmd.ErrOrStderr())
	return nil
}
