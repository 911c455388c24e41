package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "fareledger",
		Short: "Deploy, serve and operate a transit fare ledger",
		Long: `fareledger keeps passenger wallets, trip charges, owner withdrawals and
staff attendance in an append-only journal.

Configuration is read from a YAML file (--config) and overridden by
FARELEDGER_* environment variables. ETHERSCAN_API_KEY enables explorer
verification of deployments on non-development networks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			a.cfg = cfg
			a.logger = newLogger(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "fareledger.yaml", "path to the YAML config file")

	root.AddCommand(
		a.deployCmd(),
		a.serveCmd(),
		a.tokenCmd(),
		a.statusCmd(),
	)
	return root
}
