// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "frost",
	Short: "frost federated-byzantine-agreement messaging node",
	Long: `The frost command runs a messaging node that agrees with its peers on a
totally ordered sequence of signed casts per channel and sender.

Key Features:
- Ed25519 node identities, deterministic from a seed
- Websocket peer links and anonymous inbound clients
- Per-sender hash-chained casts, totally ordered by consensus
- Direct quorum-slice configuration`,
}

func main() {
	rootCmd.AddCommand(
		runCmd(),
		keygenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
