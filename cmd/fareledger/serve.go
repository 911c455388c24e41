package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/api"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		addr  string
		owner string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}
			return a.serve(cmd.Context(), owner)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	cmd.Flags().StringVar(&owner, "owner", "", "deploy with this owner if the journal holds no deployment")
	return cmd
}

func (a *app) serve(ctx context.Context, owner string) error {
	tokens, err := api.NewTokenManager(a.cfg.Auth.Secret, a.cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("auth.secret: %w", err)
	}

	l, err := startLedger(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer l.Stop() //nolint:errcheck // best-effort close on exit

	if owner != "" && !l.IsDeployed() {
		ownerAddr, err := account.ParseAddress(owner)
		if err != nil {
			return err
		}
		if _, err := l.Deploy(ctx, ownerAddr); err != nil && !errors.Is(err, fareledger.ErrAlreadyDeployed) {
			return err
		}
	}

	srv := &http.Server{
		Addr: a.cfg.HTTP.Addr,
		Handler: api.New(l, tokens,
			api.WithLogger(a.logger),
			api.WithCORSOrigins(a.cfg.HTTP.CORSOrigins...),
		).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
