// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package transporttest provides an in-memory implementation of the
// transport contract for tests: an addressable Network whose dialers and
// listeners exchange frames over ordered in-process pipes.
package transporttest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spolu/frost/transport"
)

// ErrClosed is returned by Send on a closed pipe.
var ErrClosed = errors.New("pipe closed")

// ErrRefused is reported when dialing an address nothing listens on.
var ErrRefused = errors.New("connection refused")

// Network is an in-memory address space of listeners.
type Network struct {
	mu        sync.Mutex
	listeners map[string]transport.AcceptFunc
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{listeners: make(map[string]transport.AcceptFunc)}
}

// Listen registers a listener on [addr].
func (n *Network) Listen(addr string, accept transport.AcceptFunc) (transport.Listener, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[addr]; ok {
		return nil, fmt.Errorf("address in use: %s", addr)
	}
	n.listeners[addr] = accept
	return &pipeListener{network: n, addr: addr}, nil
}

// Dialer returns a dialer resolving addresses on this network.
func (n *Network) Dialer() transport.Dialer {
	return &pipeDialer{network: n}
}

type pipeListener struct {
	network *Network
	addr    string
}

func (l *pipeListener) Addr() string {
	return l.addr
}

func (l *pipeListener) Close() error {
	l.network.mu.Lock()
	defer l.network.mu.Unlock()
	delete(l.network.listeners, l.addr)
	return nil
}

type pipeDialer struct {
	network *Network
}

// Dial connects to a listener on the network. Mirroring the websocket
// dialer, the handle returns immediately and Open fires asynchronously;
// dialing an unknown address surfaces Error then Close.
func (d *pipeDialer) Dial(addr string, cb transport.Callbacks) (transport.Conn, error) {
	client := newPipeConn(cb)
	go func() {
		d.network.mu.Lock()
		accept, ok := d.network.listeners[addr]
		d.network.mu.Unlock()
		if !ok {
			client.fail(fmt.Errorf("%w: %s", ErrRefused, addr))
			return
		}
		server := newPipeConn(transport.Callbacks{})
		client.connect(server)
		server.connect(client)
		server.cb = accept(server)
		server.start()
		client.start()
		if server.cb.Open != nil {
			server.cb.Open()
		}
		if cb.Open != nil {
			cb.Open()
		}
	}()
	return client, nil
}

// pipeConn is one end of an in-memory pipe. Frames are delivered in order
// by a per-connection pump goroutine, decoupling Send from the remote
// callback the way a socket buffer would.
type pipeConn struct {
	mu     sync.Mutex
	cb     transport.Callbacks
	peer   *pipeConn
	in     chan string
	closed bool
}

func newPipeConn(cb transport.Callbacks) *pipeConn {
	return &pipeConn{
		cb: cb,
		in: make(chan string, 1024),
	}
}

func (c *pipeConn) connect(peer *pipeConn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peer = peer
}

func (c *pipeConn) start() {
	go func() {
		for data := range c.in {
			if c.cb.Message != nil {
				c.cb.Message(data)
			}
		}
		if c.cb.Close != nil {
			c.cb.Close()
		}
	}()
}

func (c *pipeConn) fail(err error) {
	c.mu.Lock()
	alreadyClosed := c.closed
	c.closed = true
	c.mu.Unlock()
	if alreadyClosed {
		return
	}
	if c.cb.Error != nil {
		c.cb.Error(err)
	}
	if c.cb.Close != nil {
		c.cb.Close()
	}
}

func (c *pipeConn) Send(data string) error {
	c.mu.Lock()
	closed, peer := c.closed, c.peer
	c.mu.Unlock()
	if closed || peer == nil {
		return ErrClosed
	}
	peer.deliver(data)
	return nil
}

func (c *pipeConn) deliver(data string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.in <- data
}

func (c *pipeConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.in)
	peer := c.peer
	c.mu.Unlock()

	if peer != nil {
		peer.closeFromPeer()
	}
	return nil
}

func (c *pipeConn) closeFromPeer() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.in)
	c.mu.Unlock()
}
