package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "import <file.csv>",
		Short:       "Import transactions from a title,type,value,category CSV",
		Long:        "Import transactions from a title,type,value,category CSV." + memoryNote,
		Annotations: map[string]string{"writes": "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			imported, err := appCtx.Ledger.ImportTransactions(cmd.Context(), f)
			if len(imported) > 0 {
				if werr := writeTransactions(cmd.OutOrStdout(), imported); werr != nil {
					return werr
				}
			}
			if err != nil {
				return fmt.Errorf("imported %d rows before failing: %w", len(imported), err)
			}
			return nil
		},
	}
}
