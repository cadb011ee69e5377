package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every transaction with the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := appCtx.Ledger.ListTransactions(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeTransactions(cmd.OutOrStdout(), stmt.Transactions); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\ntotal: %s\n", stmt.Balance.Total.StringFixed(2))
			return nil
		},
	}
}

func writeTransactions(out io.Writer, ts []domain.Transaction) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tVALUE\tCATEGORY")
	for _, t := range ts {
		category := t.CategoryID.String()
		if t.Category != nil {
			category = t.Category.Title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Type, t.Value.StringFixed(2), category)
	}
	return tw.Flush()
}
