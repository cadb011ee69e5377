package main

import (
	"os"

	"github.com/josh-kwaku/ledger-write-service/cmd/ledgerctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
