// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package transport defines the bidirectional text-frame channel frost moves
// protocol frames over, and a websocket implementation of it. Both ends of
// the contract are needed: a dialer for outbound peers and a listener for
// anonymous inbound clients.
package transport

// Conn is one end of an established or connecting transport channel.
type Conn interface {
	// Send writes a text frame, or queues it while an outbound connection
	// is still opening, and returns the write error if any. The websocket
	// implementation writes synchronously, so Send can wait up to the write
	// timeout on a slow remote end. The Error callback reports failures of
	// the connection's reader, not of Send.
	Send(data string) error

	// Close tears the connection down. Idempotent.
	Close() error
}

// Callbacks receives a connection's lifecycle and data events. Any callback
// may be nil. Callbacks fire on transport goroutines; the receiver is
// responsible for hopping onto its own scheduler.
type Callbacks struct {
	Open    func()
	Message func(data string)
	Error   func(err error)
	Close   func()
}

// Dialer opens outbound connections.
type Dialer interface {
	// Dial starts connecting to [url] and returns the connection handle
	// immediately. [cb.Open] fires once the channel is established;
	// failures surface through [cb.Error] followed by [cb.Close].
	Dial(url string, cb Callbacks) (Conn, error)
}

// AcceptFunc is invoked for every inbound connection a listener accepts; it
// returns the callbacks to attach to that connection.
type AcceptFunc func(conn Conn) Callbacks

// Listener accepts inbound connections until closed.
type Listener interface {
	// Addr returns the bound address, usable for dialing.
	Addr() string

	// Close stops accepting. Established connections are left open.
	Close() error
}

// ListenFunc binds a listener; it exists so tests can substitute an
// in-memory transport for the websocket one.
type ListenFunc func(addr string, accept AcceptFunc) (Listener, error)
