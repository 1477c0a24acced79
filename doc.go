// Copyright (C) 2026, Frost Authors. All rights reserved.

/*
Package frost implements a federated-byzantine-agreement messaging node.

Each node owns an Ed25519 identity, connects to named peers over
bidirectional text-frame transports, and agrees with its configured quorum
structure on a totally ordered sequence of signed, hash-chained "casts" per
(channel, sender) pair. Callers publish with Send and observe the agreed
order with Receive.

# Architecture

The repository is organized around the orchestration layer that sits between
the transport and the protocol engine:

  - types/      string newtypes: Channel, PublicKey, Sha, SlotID
  - crypto/     keypairs, detached Ed25519, the canonical cast hash
  - cast/       the cast record, its verification, and the cast store
  - engine/     the protocol-engine contract frost drives
  - ballot/     the generator/verifier/acceptor callbacks binding casts to ballots
  - quorum/     the quorum-slice structure handed to the engine
  - transport/  the text-frame channel contract and its websocket implementation
  - node/       the facade: run loop, dispatcher, externalization, registries
  - cmd/frost   a CLI wiring it together

# Usage

	n, err := frost.New(frost.NodeConfig{Engine: engineFactory})
	if err != nil {
		...
	}
	n.Receive("updates", func(from frost.PublicKey, sha frost.Sha, payload string) {
		...
	})
	n.Send("updates", []byte("hello"), func(err error, sha frost.Sha) {
		...
	})

The protocol engine itself is an external collaborator; see package engine
for the contract, package enginetest for the engine double and package
engine/vote for the majority-vote engine used by the test suite.
*/
package frost
