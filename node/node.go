// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node implements the frost facade: a federated-byzantine-agreement
// messaging node. The node owns an Ed25519 identity, speaks to named peers
// over bidirectional text-frame transports, and drives a protocol engine to
// agree on per-sender ordered casts, delivered to channel subscribers on
// externalization.
//
// All state lives behind a single cooperative run loop; public operations
// and transport events are posted onto it, so no handler ever observes
// another mid-flight.
package node

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/luxfi/ids"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/spolu/frost/ballot"
	"github.com/spolu/frost/cast"
	"github.com/spolu/frost/config"
	"github.com/spolu/frost/crypto"
	"github.com/spolu/frost/engine"
	"github.com/spolu/frost/log"
	"github.com/spolu/frost/quorum"
	"github.com/spolu/frost/transport"
	"github.com/spolu/frost/types"
)

var (
	// ErrInvalidChannel rejects sends on channels containing ':'.
	ErrInvalidChannel = types.ErrInvalidChannel

	// ErrInvalidPayload rejects sends with a nil payload.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrStopped is handed to callbacks issued against a stopped node.
	ErrStopped = errors.New("node stopped")

	errEngineRequired = errors.New("engine factory required")
)

// SendFunc resolves a send: a non-nil error, or the sha of the
// externalized cast.
type SendFunc func(err error, sha types.Sha)

// ReceiveFunc observes an externalized cast on a subscribed channel.
type ReceiveFunc func(from types.PublicKey, sha types.Sha, payload string)

// PeerInfo is a snapshot entry of the peer registry.
type PeerInfo struct {
	PublicKey types.PublicKey
	URL       string
}

// Config carries the node's collaborators. Engine is required; everything
// else has a default.
type Config struct {
	Log        log.Logger
	Params     config.Parameters
	Registerer prometheus.Registerer

	// Dialer and Listen bind the transport; they default to the websocket
	// implementation.
	Dialer transport.Dialer
	Listen transport.ListenFunc

	// Engine constructs the protocol engine this node drives.
	Engine engine.Factory

	// Policy vets payloads during ballot verification and acceptance.
	Policy ballot.PayloadPolicy

	// Events observes transport lifecycle events.
	Events Events

	// Seed, when non-nil, makes the node's keypair deterministic.
	Seed []byte
}

// peer is a registry entry for an outbound connection.
type peer struct {
	url  string
	pk   types.PublicKey
	conn transport.Conn
	done func(error)
}

// fire resolves the connect callback exactly once.
func (p *peer) fire(err error) {
	if p.done == nil {
		return
	}
	done := p.done
	p.done = nil
	done(err)
}

// Node is the public facade.
type Node struct {
	log     log.Logger
	params  config.Parameters
	loop    *loop
	events  Events
	metrics *metrics

	kpMu sync.RWMutex
	kp   *crypto.Keypair

	quorums  *quorum.Set
	store    *cast.Store
	eng      engine.Engine
	dialer   transport.Dialer
	listenFn transport.ListenFunc

	subs        map[types.Channel][]ReceiveFunc
	pending     map[types.SlotID]SendFunc
	peers       map[types.PublicKey]*peer
	peerOrder   []types.PublicKey
	clients     map[ids.ID]transport.Conn
	clientOrder []ids.ID
	listener    transport.Listener
}

var _ engine.Node = (*Node)(nil)

// New builds and starts a node.
func New(cfg Config) (*Node, error) {
	if cfg.Engine == nil {
		return nil, errEngineRequired
	}
	if cfg.Log == nil {
		cfg.Log = log.NewNoOpLogger()
	}
	params := cfg.Params
	if params == (config.Parameters{}) {
		params = config.Default()
	}
	if err := params.Valid(); err != nil {
		return nil, err
	}
	if cfg.Dialer == nil {
		cfg.Dialer = &transport.WebsocketDialer{
			DialTimeout:  params.DialTimeout,
			WriteTimeout: params.WriteTimeout,
			MaxFrameSize: params.MaxFrameSize,
		}
	}
	if cfg.Listen == nil {
		cfg.Listen = func(addr string, accept transport.AcceptFunc) (transport.Listener, error) {
			return transport.ListenWith(addr, accept, params.WriteTimeout, params.MaxFrameSize)
		}
	}
	if cfg.Policy == nil {
		cfg.Policy = ballot.AllowAll{}
	}
	if cfg.Events == nil {
		cfg.Events = NoopEvents{}
	}
	m, err := newMetrics(cfg.Registerer)
	if err != nil {
		return nil, err
	}
	kp, err := crypto.Generate(cfg.Seed)
	if err != nil {
		return nil, err
	}

	n := &Node{
		log:      cfg.Log,
		params:   params,
		events:   cfg.Events,
		metrics:  m,
		kp:       kp,
		quorums:  quorum.New(),
		store:    cast.NewStore(),
		dialer:   cfg.Dialer,
		listenFn: cfg.Listen,
		subs:     make(map[types.Channel][]ReceiveFunc),
		pending:  make(map[types.SlotID]SendFunc),
		peers:    make(map[types.PublicKey]*peer),
		clients:  make(map[ids.ID]transport.Conn),
	}
	n.loop = newLoop()
	n.eng = cfg.Engine(engine.Params{
		Node: n,
		Callbacks: &ballot.Callbacks{
			Log:           cfg.Log,
			Store:         n.store,
			Policy:        cfg.Policy,
			RetryInterval: params.RetryInterval,
		},
		Handler: &dispatcher{n: n},
		Defer: func(fn func()) {
			n.loop.Post(fn)
		},
	})
	return n, nil
}

// call posts [fn] and waits for it; false once the node has stopped.
func (n *Node) call(fn func()) bool {
	done := make(chan struct{})
	if !n.loop.Post(func() {
		fn()
		close(done)
	}) {
		return false
	}
	<-done
	return true
}

// PublicKey returns the node's address.
func (n *Node) PublicKey() types.PublicKey {
	n.kpMu.RLock()
	defer n.kpMu.RUnlock()
	return n.kp.PublicKey()
}

// PrivateKey returns the node's encoded private key.
func (n *Node) PrivateKey() types.PrivateKey {
	n.kpMu.RLock()
	defer n.kpMu.RUnlock()
	return n.kp.PrivateKey()
}

// Quorums exposes the engine's quorum structure for configuration.
func (n *Node) Quorums() engine.Quorums {
	return n.quorums
}

// GenerateKeypair replaces the node's identity. Only safe before any
// connection is made.
func (n *Node) GenerateKeypair(seed []byte) (types.PublicKey, error) {
	kp, err := crypto.Generate(seed)
	if err != nil {
		return "", err
	}
	n.kpMu.Lock()
	n.kp = kp
	n.kpMu.Unlock()
	return kp.PublicKey(), nil
}

// Send proposes [payload] on [channel]. The callback resolves exactly once:
// with the externalized cast's sha, or with the error that prevented
// externalization. Safe to call from a subscriber callback.
func (n *Node) Send(channel types.Channel, payload []byte, cb SendFunc) {
	if cb == nil {
		cb = func(error, types.Sha) {}
	}
	if !n.loop.Post(func() { n.send(channel, payload, cb) }) {
		cb(ErrStopped, "")
	}
}

func (n *Node) send(channel types.Channel, payload []byte, cb SendFunc) {
	if !channel.Valid() {
		cb(ErrInvalidChannel, "")
		return
	}
	if payload == nil {
		cb(ErrInvalidPayload, "")
		return
	}

	self := n.PublicKey()
	prv := types.Sha("")
	if cur, ok := n.store.Get(channel, self); ok {
		prv = cur.Sha
	}
	n.kpMu.RLock()
	kp := n.kp
	n.kpMu.RUnlock()

	k := cast.Generate(kp, channel, prv, payload)
	value, err := k.Encode()
	if err != nil {
		cb(err, "")
		return
	}
	slot := types.NewSlotID(channel, self, k.Sha)
	n.pending[slot] = cb
	start := time.Now()

	n.log.Debug("requesting slot",
		zap.String("slot", string(slot)),
		zap.String("prv", string(prv)),
	)
	n.eng.Request(slot, value, n.params.RequestTimeout, func(err error, v string) {
		fn, ok := n.pending[slot]
		if !ok {
			// second resolution for a terminal slot
			return
		}
		delete(n.pending, slot)
		if err != nil {
			fn(err, "")
			return
		}
		kk, perr := cast.Parse(v)
		if perr != nil {
			fn(perr, "")
			return
		}
		n.metrics.sendLatency.Observe(time.Since(start).Seconds())
		fn(nil, kk.Sha)
	})
}

// Receive appends a subscriber to [channel]. Subscribers fire in
// registration order, on a fresh loop turn, for every externalized cast on
// the channel.
func (n *Node) Receive(channel types.Channel, fn ReceiveFunc) {
	n.loop.Post(func() {
		n.subs[channel] = append(n.subs[channel], fn)
	})
}

// Connect dials a peer and registers it under [pk]. The peer joins the
// registry and the engine's node set immediately; [done] resolves once, with
// nil on first open or with the first error. A duplicate Connect for the
// same key supersedes the prior entry.
func (n *Node) Connect(url string, pk types.PublicKey, done func(error)) {
	if done == nil {
		done = func(error) {}
	}
	if !n.loop.Post(func() { n.connect(url, pk, done) }) {
		done(ErrStopped)
	}
}

func (n *Node) connect(url string, pk types.PublicKey, done func(error)) {
	if old, ok := n.peers[pk]; ok {
		delete(n.peers, pk)
		n.removePeerOrder(pk)
		n.metrics.peers.Dec()
		if old.conn != nil {
			old.conn.Close()
		}
	}

	p := &peer{url: url, pk: pk, done: done}
	n.peers[pk] = p
	n.peerOrder = append(n.peerOrder, pk)
	n.quorums.AddNode(pk)
	n.metrics.peers.Inc()

	conn, err := n.dialer.Dial(url, transport.Callbacks{
		Open: func() {
			n.loop.Post(func() {
				if n.peers[pk] != p {
					return
				}
				n.log.Info("peer open",
					zap.String("url", url),
					zap.String("publicKey", string(pk)),
				)
				n.events.PeerOpen(PeerEvent{PublicKey: pk, URL: url})
				p.fire(nil)
			})
		},
		Message: func(data string) {
			n.loop.Post(func() { n.handleInbound(data) })
		},
		Error: func(err error) {
			n.loop.Post(func() {
				if n.peers[pk] != p {
					return
				}
				n.log.Warn("peer error",
					zap.String("url", url),
					zap.Error(err),
				)
				n.events.PeerError(PeerEvent{PublicKey: pk, URL: url, Err: err})
				p.fire(err)
			})
		},
		Close: func() {
			n.loop.Post(func() {
				if n.peers[pk] != p {
					return
				}
				n.events.PeerClose(PeerEvent{PublicKey: pk, URL: url})
			})
		},
	})
	if err != nil {
		n.events.PeerError(PeerEvent{PublicKey: pk, URL: url, Err: err})
		p.fire(err)
		return
	}
	p.conn = conn
}

// Disconnect closes and forgets a peer, removing it from the engine's node
// set.
func (n *Node) Disconnect(pk types.PublicKey) {
	n.loop.Post(func() {
		p, ok := n.peers[pk]
		if !ok {
			return
		}
		delete(n.peers, pk)
		n.removePeerOrder(pk)
		n.quorums.RemoveNode(pk)
		n.metrics.peers.Dec()
		if p.conn != nil {
			p.conn.Close()
		}
		n.events.PeerClose(PeerEvent{PublicKey: pk, URL: p.url})
	})
}

// Peers snapshots the registry in registration order.
func (n *Node) Peers() []PeerInfo {
	var infos []PeerInfo
	n.call(func() {
		for _, pk := range n.peerOrder {
			infos = append(infos, PeerInfo{PublicKey: pk, URL: n.peers[pk].url})
		}
	})
	return infos
}

// Listen accepts inbound client transports on [addr], replacing any prior
// listener. Clients carry no identity; they only receive protocol fan-out
// and feed frames in.
func (n *Node) Listen(addr string) error {
	var err error
	if !n.call(func() { err = n.listen(addr) }) {
		return ErrStopped
	}
	return err
}

func (n *Node) listen(addr string) error {
	if n.listener != nil {
		n.listener.Close()
		n.listener = nil
	}
	ln, err := n.listenFn(addr, n.acceptClient)
	if err != nil {
		return err
	}
	n.listener = ln
	n.log.Info("listening", zap.String("address", ln.Addr()))
	return nil
}

// Addr returns the bound listener address, or "" when not listening.
func (n *Node) Addr() string {
	var addr string
	n.call(func() {
		if n.listener != nil {
			addr = n.listener.Addr()
		}
	})
	return addr
}

func (n *Node) acceptClient(conn transport.Conn) transport.Callbacks {
	var id ids.ID
	rand.Read(id[:])
	return transport.Callbacks{
		Open: func() {
			n.loop.Post(func() {
				n.clients[id] = conn
				n.clientOrder = append(n.clientOrder, id)
				n.metrics.clients.Inc()
				n.log.Debug("client open", zap.Stringer("conn", id))
				n.events.ClientOpen(ClientEvent{Conn: id})
			})
		},
		Message: func(data string) {
			n.loop.Post(func() { n.handleInbound(data) })
		},
		Error: func(err error) {
			n.loop.Post(func() {
				n.events.ClientError(ClientEvent{Conn: id, Err: err})
			})
		},
		Close: func() {
			n.loop.Post(func() {
				if _, ok := n.clients[id]; !ok {
					return
				}
				delete(n.clients, id)
				n.removeClientOrder(id)
				n.metrics.clients.Dec()
				n.events.ClientClose(ClientEvent{Conn: id})
			})
		},
	}
}

// Stop closes the listener and every transport, then stops the loop after
// draining it.
func (n *Node) Stop() {
	n.call(func() {
		if n.listener != nil {
			n.listener.Close()
			n.listener = nil
		}
		for _, pk := range n.peerOrder {
			if p := n.peers[pk]; p.conn != nil {
				p.conn.Close()
			}
		}
		for _, id := range n.clientOrder {
			n.clients[id].Close()
		}
	})
	n.loop.Stop()
}

func (n *Node) removePeerOrder(pk types.PublicKey) {
	for i, cur := range n.peerOrder {
		if cur == pk {
			n.peerOrder = append(n.peerOrder[:i], n.peerOrder[i+1:]...)
			return
		}
	}
}

func (n *Node) removeClientOrder(id ids.ID) {
	for i, cur := range n.clientOrder {
		if cur == id {
			n.clientOrder = append(n.clientOrder[:i], n.clientOrder[i+1:]...)
			return
		}
	}
}
