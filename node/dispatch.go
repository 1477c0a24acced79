// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spolu/frost/cast"
	"github.com/spolu/frost/engine"
	"github.com/spolu/frost/types"
)

const frameTypeFBA = "fba"

// envelope is the transport wire format. Inbound envelopes may carry a
// reserved flags member, tolerated and unused.
type envelope struct {
	T     string          `json:"t"`
	M     json.RawMessage `json:"m"`
	Flags json.RawMessage `json:"flags,omitempty"`
}

// dispatcher consumes the two engine event kinds: protocol frames to fan
// out, and externalized values. It runs on the node loop because the engine
// is only ever entered from loop tasks.
type dispatcher struct {
	n *Node
}

var _ engine.Handler = (*dispatcher)(nil)

// Message fans a protocol frame out to every peer and every client, in
// registration/accept order. Sends are fire-and-forget; transport failures
// surface through peer/client error events, never here.
func (d *dispatcher) Message(frame json.RawMessage) {
	n := d.n
	raw, err := json.Marshal(envelope{T: frameTypeFBA, M: frame})
	if err != nil {
		n.log.Error("encoding protocol frame", zap.Error(err))
		return
	}
	data := string(raw)
	for _, pk := range n.peerOrder {
		if p := n.peers[pk]; p.conn != nil {
			p.conn.Send(data)
			n.metrics.framesOut.Inc()
		}
	}
	for _, id := range n.clientOrder {
		n.clients[id].Send(data)
		n.metrics.framesOut.Inc()
	}
}

// Value handles an externalization: re-verify the cast, reclaim the slot it
// supersedes, adopt it into the store, then deliver to subscribers on a
// fresh loop turn so the engine's callstack unwinds first.
//
// Chain continuity is deliberately not re-checked here: a node that refused
// to pledge for lack of context still adopts what the network agreed on.
func (d *dispatcher) Value(slot types.SlotID, value string) {
	n := d.n
	channel, sender, _, err := types.ParseSlotID(slot)
	if err != nil {
		n.log.Warn("externalized value on unparseable slot",
			zap.String("slot", string(slot)),
		)
		return
	}
	k, err := cast.Parse(value)
	if err != nil || !cast.Verify(sender, channel, k) {
		n.metrics.invalidCasts.Inc()
		n.log.Warn("invalid cast externalized",
			zap.String("slot", string(slot)),
		)
		return
	}

	if prior, ok := n.store.Get(channel, sender); ok {
		n.eng.Reclaim(types.NewSlotID(channel, sender, prior.Sha))
	}
	n.store.Put(channel, sender, k)
	n.metrics.castsExternalized.Inc()
	n.log.Debug("cast externalized",
		zap.String("channel", string(channel)),
		zap.String("sha", string(k.Sha)),
	)

	fns := append([]ReceiveFunc(nil), n.subs[channel]...)
	n.loop.Post(func() {
		for _, fn := range fns {
			fn(sender, k.Sha, k.Pay)
		}
	})
}

// handleInbound parses a transport frame and feeds FBA frames to the
// engine. Unknown tags are ignored; parse failures are logged and dropped.
func (n *Node) handleInbound(data string) {
	n.metrics.framesIn.Inc()
	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		n.log.Debug("dropping unparseable frame", zap.Error(err))
		return
	}
	if env.T != frameTypeFBA {
		return
	}
	if err := n.eng.Process(env.M); err != nil {
		n.log.Debug("engine rejected frame", zap.Error(err))
	}
}
