package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/api"
)

func (a *app) tokenCmd() *cobra.Command {
	var (
		address string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a caller token for the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := account.ParseAddress(address)
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = a.cfg.Auth.TokenTTL
			}
			tokens, err := api.NewTokenManager(a.cfg.Auth.Secret, ttl)
			if err != nil {
				return fmt.Errorf("auth.secret: %w", err)
			}
			tok, claims, err := tokens.Issue(caller)
			if err != nil {
				return err
			}
			a.logger.Debug("token issued",
				"caller", claims.Subject,
				"expires_at", claims.ExpiresAt.Time,
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "caller address (0x-prefixed)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
