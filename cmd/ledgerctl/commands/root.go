// Package commands implements ledgerctl, an operator CLI that runs ledger
// operations directly against the configured store.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-write-service/internal/app"
	"github.com/josh-kwaku/ledger-write-service/internal/config"
	"github.com/josh-kwaku/ledger-write-service/internal/logging"
)

var (
	logLevel string
	appCtx   *app.App
)

// memoryNote is appended to the help of commands that write.
const memoryNote = "\n\nWith STORAGE_BACKEND=memory the ledger lives only for this invocation, so writes are discarded on exit."

func Execute() error {
	return execute(newRootCmd(os.Stdout))
}

// execute closes the app whether or not the command failed; cobra skips
// post-run hooks after a RunE error.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if appCtx != nil {
		if cerr := appCtx.Close(); cerr != nil {
			slog.Error("failed to release resources", "error", cerr)
		}
		appCtx = nil
	}
	return err
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Inspect and write the transaction ledger",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), "ledgerctl", logLevel, "development"))

			if cfg.StorageBackend == config.BackendMemory && cmd.Annotations["writes"] == "true" {
				slog.Warn("memory backend: changes are discarded when ledgerctl exits")
			}

			appCtx, err = app.New(cmd.Context(), cfg)
			return err
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default from LOG_LEVEL)")

	root.AddCommand(balanceCmd(), listCmd(), createCmd(), deleteCmd(), importCmd())
	return root
}
