// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spolu/frost/crypto"
)

func keygenCmd() *cobra.Command {
	var seed string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a node keypair",
		Long: `Generate an Ed25519 keypair. With --seed the keypair is deterministic,
so the same seed always yields the same node identity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var seedBytes []byte
			if seed != "" {
				seedBytes = []byte(seed)
			}
			kp, err := crypto.Generate(seedBytes)
			if err != nil {
				return err
			}
			fmt.Printf("public key:  %s\n", kp.PublicKey())
			fmt.Printf("private key: %s\n", kp.PrivateKey())
			return nil
		},
	}

	cmd.Flags().StringVar(&seed, "seed", "", "deterministic keypair seed")
	return cmd
}
