// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine declares the contract between frost and the federated
// byzantine agreement protocol engine it orchestrates. The engine itself —
// ballots, statements, federated voting, quorum-slice evaluation — is an
// external collaborator; frost only depends on the surface below.
package engine

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spolu/frost/types"
)

var (
	// ErrRequestTimeout is returned through a request callback when the
	// engine fails to externalize a value within the request budget.
	ErrRequestTimeout = errors.New("request timeout")
)

// Ballot is the opaque (n, x) pair the engine rounds on within a slot. N is
// the retry counter and X the proposed value string.
type Ballot struct {
	N int    `json:"n"`
	X string `json:"x"`
}

// Slot is the engine's view of a single consensus instance as exposed to the
// ballot callbacks: its identifier, the current ballot if any, and the wall
// time the slot was created at.
type Slot struct {
	ID         types.SlotID
	Ballot     *Ballot
	CreateTime time.Time
}

// Callbacks binds the engine's generic ballot semantics to application
// validity. Ballot validity (VerifyBallot) is global — all correct nodes must
// agree on it — while ballot acceptance (AcceptBallot) is local and may
// depend on this node's own view.
type Callbacks interface {
	// GenerateBallot produces the next ballot to propose for [slot],
	// carrying value [x]. Repeated calls on the same slot must yield
	// strictly increasing counters.
	GenerateBallot(slot *Slot, x string) Ballot

	// VerifyBallot reports whether [ballot] is valid on [slot]. [node] is
	// the peer the ballot originates from.
	VerifyBallot(slot *Slot, ballot Ballot, node types.PublicKey) bool

	// AcceptBallot reports whether this node is willing to pledge for
	// [ballot]. Verification is assumed to have passed.
	AcceptBallot(slot *Slot, ballot Ballot, node types.PublicKey) bool
}

// Handler consumes the two event kinds the engine emits: protocol frames to
// fan out to every connected transport, and externalized values.
type Handler interface {
	// Message hands the node a protocol frame to deliver to every peer and
	// client transport.
	Message(frame json.RawMessage)

	// Value reports the externalization of [value] on [slot].
	Value(slot types.SlotID, value string)
}

// RequestFunc resolves a request: exactly one call, either with a non-nil
// error or with the externalized value string.
type RequestFunc func(err error, value string)

// Engine is the protocol engine surface frost drives.
type Engine interface {
	// Process feeds an inbound protocol frame to the engine.
	Process(frame json.RawMessage) error

	// Request proposes [value] for [slot], resolving [cb] on
	// externalization or after [timeout].
	Request(slot types.SlotID, value string, timeout time.Duration, cb RequestFunc)

	// Reclaim tells the engine that [slot] is terminal and its consensus
	// state may be released.
	Reclaim(slot types.SlotID)
}

// Node is the engine's handle on the local node: its identity and the quorum
// structure it evaluates slices against.
type Node interface {
	PublicKey() types.PublicKey
	PrivateKey() types.PrivateKey
	Quorums() Quorums
}

// Quorums manages the engine's quorum slices and node set.
type Quorums interface {
	// ForEach visits every configured quorum slice.
	ForEach(fn func(slice []types.PublicKey))

	// AddQuorum registers a quorum slice.
	AddQuorum(slice []types.PublicKey)

	// RemoveQuorum unregisters a quorum slice.
	RemoveQuorum(slice []types.PublicKey)

	// AddNode adds a node to the engine's node set.
	AddNode(pk types.PublicKey)

	// RemoveNode removes a node from the engine's node set.
	RemoveNode(pk types.PublicKey)

	// Nodes returns a snapshot of the node set.
	Nodes() []types.PublicKey
}

// Params carries everything an engine needs at construction.
type Params struct {
	Node      Node
	Callbacks Callbacks
	Handler   Handler

	// Defer posts a function onto the node's run loop. Engines must route
	// asynchronous resolutions (timeouts in particular) through it so all
	// state transitions stay on one task scheduler.
	Defer func(fn func())
}

// Factory constructs an engine bound to a node.
type Factory func(p Params) Engine
