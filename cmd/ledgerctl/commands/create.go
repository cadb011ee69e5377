package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
	"github.com/josh-kwaku/ledger-write-service/internal/service/ledger"
)

func createCmd() *cobra.Command {
	var title, value, typ, category string

	cmd := &cobra.Command{
		Use:         "create",
		Short:       "Record an income or outcome transaction",
		Long:        "Record an income or outcome transaction." + memoryNote,
		Annotations: map[string]string{"writes": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(value)
			if err != nil {
				return fmt.Errorf("invalid --value %q: %w", value, err)
			}

			t, err := appCtx.Ledger.CreateTransaction(cmd.Context(), ledger.CreateTransactionRequest{
				Title:         title,
				Value:         amount,
				Type:          domain.TransactionType(typ),
				CategoryTitle: category,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "transaction title")
	cmd.Flags().StringVar(&value, "value", "", "non-negative amount, e.g. 12.50")
	cmd.Flags().StringVar(&typ, "type", "", "income or outcome")
	cmd.Flags().StringVar(&category, "category", "", "category title, created on first use")
	for _, f := range []string{"title", "value", "type", "category"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
