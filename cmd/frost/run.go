// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/luxfi/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spolu/frost/engine/vote"
	"github.com/spolu/frost/node"
	"github.com/spolu/frost/types"
)

func runCmd() *cobra.Command {
	var (
		listenAddr string
		seed       string
		channel    string
		peers      []string
		quorums    []string
		threshold  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a node against the development voting engine",
		Long: `Run a frost node. Lines read from stdin are sent on the configured
channel; externalized casts on that channel are printed as they arrive.

Peers are given as PUBLICKEY@URL. The node runs the bundled majority-vote
development engine; swap in a real FBA engine via the library API for
production use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewLogger("frost")

			var seedBytes []byte
			if seed != "" {
				seedBytes = []byte(seed)
			}
			n, err := node.New(node.Config{
				Log:    logger,
				Engine: vote.NewFactory(threshold),
				Seed:   seedBytes,
			})
			if err != nil {
				return err
			}
			defer n.Stop()

			fmt.Printf("public key: %s\n", n.PublicKey())

			if listenAddr != "" {
				if err := n.Listen(listenAddr); err != nil {
					return err
				}
				fmt.Printf("listening on %s\n", n.Addr())
			}

			for _, spec := range peers {
				pk, url, ok := strings.Cut(spec, "@")
				if !ok {
					return fmt.Errorf("invalid peer %q: want PUBLICKEY@URL", spec)
				}
				n.Connect(url, types.PublicKey(pk), func(err error) {
					if err != nil {
						logger.Warn("peer connect failed",
							zap.String("url", url),
							zap.Error(err),
						)
						return
					}
					logger.Info("peer connected", zap.String("url", url))
				})
			}

			for _, spec := range quorums {
				var slice []types.PublicKey
				for _, pk := range strings.Split(spec, ",") {
					if pk != "" {
						slice = append(slice, types.PublicKey(pk))
					}
				}
				if len(slice) > 0 {
					n.Quorums().AddQuorum(slice)
				}
			}

			n.Receive(types.Channel(channel), func(from types.PublicKey, sha types.Sha, payload string) {
				fmt.Printf("<%s> %s\n", shortKey(from), payload)
			})

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := scanner.Text()
				if line == "" {
					continue
				}
				n.Send(types.Channel(channel), []byte(line), func(err error, sha types.Sha) {
					if err != nil {
						logger.Warn("send failed", zap.Error(err))
						return
					}
					logger.Info("cast externalized", zap.String("sha", string(sha)))
				})
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "address to accept inbound transports on")
	cmd.Flags().StringVar(&seed, "seed", "", "deterministic keypair seed")
	cmd.Flags().StringVar(&channel, "channel", "main", "channel to send and receive on")
	cmd.Flags().StringArrayVar(&peers, "peer", nil, "peer as PUBLICKEY@URL (repeatable)")
	cmd.Flags().StringArrayVar(&quorums, "quorum", nil, "quorum slice as comma-separated public keys (repeatable)")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "externalization threshold (0 = majority)")
	return cmd
}

func shortKey(pk types.PublicKey) string {
	if len(pk) > 8 {
		return string(pk[:8])
	}
	return string(pk)
}
