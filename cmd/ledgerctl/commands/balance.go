package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print income, outcome and total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := appCtx.Ledger.GetBalance(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "income:  %s\n", b.Income.StringFixed(2))
			fmt.Fprintf(out, "outcome: %s\n", b.Outcome.StringFixed(2))
			fmt.Fprintf(out, "total:   %s\n", b.Total.StringFixed(2))
			return nil
		},
	}
}
