package main

import (
	"github.com/spf13/cobra"

	"github.com/xraph/fareledger"
)

type statusReport struct {
	Deployed   bool                   `json:"deployed"`
	Sequence   uint64                 `json:"sequence"`
	Deployment *fareledger.Deployment `json:"deployment,omitempty"`
	Balance    *fareledger.Money      `json:"balance,omitempty"`
	TotalHeld  *fareledger.Money      `json:"total_held,omitempty"`
	Passengers int                    `json:"passengers"`
	Trips      int                    `json:"trips"`
	Staff      int                    `json:"staff"`
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Replay the journal and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			l, err := startLedger(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer l.Stop() //nolint:errcheck // best-effort close on exit

			report := statusReport{
				Deployed:   l.IsDeployed(),
				Sequence:   l.Sequence(),
				Passengers: l.PassengerCount(),
				Trips:      l.TripCount(),
				Staff:      l.StaffRecordCount(),
			}
			if report.Deployed {
				if report.Deployment, err = l.Deployment(); err != nil {
					return err
				}
				bal, err := l.Balance()
				if err != nil {
					return err
				}
				held, err := l.TotalHeld()
				if err != nil {
					return err
				}
				report.Balance, report.TotalHeld = &bal, &held
			}
			return writeJSON(cmd, report)
		},
	}
}
