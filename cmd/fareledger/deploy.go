package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
)

func (a *app) deployCmd() *cobra.Command {
	var (
		owner   string
		network string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Write the genesis transaction of a new ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if network == "" {
				network = a.cfg.Network
			}
			return a.deploy(cmd, owner, network, newExplorerVerifier(a.cfg.Explorer))
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner address (0x-prefixed)")
	cmd.Flags().StringVar(&network, "network", "", "network name (defaults to the configured network)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func (a *app) deploy(cmd *cobra.Command, owner, network string, v verifier) error {
	ctx := cmd.Context()

	ownerAddr, err := account.ParseAddress(owner)
	if err != nil {
		return err
	}

	l, err := startLedger(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer l.Stop() //nolint:errcheck // best-effort close on exit

	dep, err := l.Deploy(ctx, ownerAddr)
	if err != nil {
		return err
	}
	a.logger.Info("deployment recorded",
		"network", network,
		"ledger_id", dep.LedgerID.String(),
		"transaction_id", dep.TransactionID.String(),
		"seq", dep.Seq,
	)

	if a.cfg.ShouldVerify(network) {
		a.logger.Info("verifying deployment", "network", network)
		receipt, err := v.Verify(ctx, network, dep)
		switch {
		case errors.Is(err, errAlreadyVerified):
			a.logger.Info("deployment already verified")
		case err != nil:
			a.logger.Warn("verification failed", "error", err)
		default:
			a.logger.Info("verification submitted", "receipt", receipt)
		}
	}

	return writeJSON(cmd, struct {
		Network string `json:"network"`
		*fareledger.Deployment
	}{network, dep})
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
