// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"github.com/luxfi/ids"

	"github.com/spolu/frost/types"
)

// PeerEvent describes a lifecycle event on an outbound peer transport.
type PeerEvent struct {
	PublicKey types.PublicKey
	URL       string
	Err       error
}

// ClientEvent describes a lifecycle event on an accepted inbound transport.
// Clients have no public key until they speak; the handle identifies the
// connection.
type ClientEvent struct {
	Conn ids.ID
	Err  error
}

// Events observes the node's transport lifecycle. Implementations run on the
// node loop and must not block; a subscriber-style Send from an event
// handler is fine.
type Events interface {
	PeerOpen(e PeerEvent)
	PeerClose(e PeerEvent)
	PeerError(e PeerEvent)
	ClientOpen(e ClientEvent)
	ClientClose(e ClientEvent)
	ClientError(e ClientEvent)
}

// NoopEvents discards every event.
type NoopEvents struct{}

var _ Events = NoopEvents{}

func (NoopEvents) PeerOpen(PeerEvent)     {}
func (NoopEvents) PeerClose(PeerEvent)    {}
func (NoopEvents) PeerError(PeerEvent)    {}
func (NoopEvents) ClientOpen(ClientEvent) {}
func (NoopEvents) ClientClose(ClientEvent) {}
func (NoopEvents) ClientError(ClientEvent) {}
