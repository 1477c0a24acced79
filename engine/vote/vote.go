// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vote implements a minimal majority-vote engine honoring the
// frost engine contract. Every node pledges at most once per slot, pledges
// travel as vote frames over the node's transports, and a slot externalizes
// once a majority of the node set (peers plus self) has pledged.
//
// It exists for development clusters and tests; it is not an FBA
// implementation and provides none of FBA's safety guarantees under
// byzantine participants.
package vote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spolu/frost/engine"
	"github.com/spolu/frost/types"
	"github.com/spolu/frost/utils/set"
)

// frame is the engine's only protocol message: one node's pledge for a
// ballot on a slot.
type frame struct {
	Slot   types.SlotID    `json:"slot"`
	Ballot engine.Ballot   `json:"ballot"`
	From   types.PublicKey `json:"from"`
}

type slotState struct {
	slot    engine.Slot
	votes   set.Set[types.PublicKey]
	voted   bool
	done    bool
	pending engine.RequestFunc
	timer   *time.Timer
}

// Engine is the majority-vote engine. It runs entirely on the node loop:
// Process and Request are entered from loop tasks and timeouts hop back
// through Defer.
type Engine struct {
	params engine.Params

	// Threshold overrides the majority rule when positive.
	Threshold int

	slots map[types.SlotID]*slotState
}

var _ engine.Engine = (*Engine)(nil)

// NewFactory returns an engine factory building one Engine per node. A
// [threshold] of zero means majority of the node set plus self.
func NewFactory(threshold int) engine.Factory {
	return func(p engine.Params) engine.Engine {
		return &Engine{
			params:    p,
			Threshold: threshold,
			slots:     make(map[types.SlotID]*slotState),
		}
	}
}

func (v *Engine) slot(id types.SlotID) *slotState {
	s, ok := v.slots[id]
	if !ok {
		s = &slotState{
			slot: engine.Slot{
				ID:         id,
				CreateTime: time.Now(),
			},
			votes: set.NewSet[types.PublicKey](0),
		}
		v.slots[id] = s
	}
	return s
}

func (v *Engine) threshold() int {
	if v.Threshold > 0 {
		return v.Threshold
	}
	// peers plus self
	n := len(v.params.Node.Quorums().Nodes()) + 1
	return n/2 + 1
}

// Request proposes a value: self-validate, pledge, broadcast the pledge.
func (v *Engine) Request(id types.SlotID, value string, timeout time.Duration, cb engine.RequestFunc) {
	s := v.slot(id)
	if s.done {
		cb(nil, s.slot.Ballot.X)
		return
	}
	b := v.params.Callbacks.GenerateBallot(&s.slot, value)
	s.slot.Ballot = &b
	s.pending = cb
	s.timer = time.AfterFunc(timeout, func() {
		v.params.Defer(func() { v.expire(id) })
	})

	self := v.params.Node.PublicKey()
	if v.params.Callbacks.VerifyBallot(&s.slot, b, self) &&
		v.params.Callbacks.AcceptBallot(&s.slot, b, self) {
		v.pledge(s, b)
	}
	v.maybeExternalize(s)
}

// Process ingests a peer's pledge.
func (v *Engine) Process(raw json.RawMessage) error {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("decoding vote frame: %w", err)
	}
	s := v.slot(f.Slot)
	if s.done {
		return nil
	}
	if !v.params.Callbacks.VerifyBallot(&s.slot, f.Ballot, f.From) {
		return nil
	}
	if s.slot.Ballot == nil {
		adopted := f.Ballot
		s.slot.Ballot = &adopted
	}
	s.votes.Add(f.From)
	self := v.params.Node.PublicKey()
	if !s.voted && v.params.Callbacks.AcceptBallot(&s.slot, f.Ballot, self) {
		v.pledge(s, f.Ballot)
	}
	v.maybeExternalize(s)
	return nil
}

// pledge records and broadcasts the local vote, at most once per slot.
func (v *Engine) pledge(s *slotState, b engine.Ballot) {
	if s.voted {
		return
	}
	s.voted = true
	self := v.params.Node.PublicKey()
	s.votes.Add(self)
	raw, err := json.Marshal(frame{Slot: s.slot.ID, Ballot: b, From: self})
	if err != nil {
		return
	}
	v.params.Handler.Message(raw)
}

func (v *Engine) maybeExternalize(s *slotState) {
	if s.done || s.slot.Ballot == nil {
		return
	}
	if s.votes.Len() < v.threshold() {
		return
	}
	s.done = true
	if s.timer != nil {
		s.timer.Stop()
	}
	value := s.slot.Ballot.X
	v.params.Handler.Value(s.slot.ID, value)
	if s.pending != nil {
		cb := s.pending
		s.pending = nil
		cb(nil, value)
	}
}

func (v *Engine) expire(id types.SlotID) {
	s, ok := v.slots[id]
	if !ok || s.done {
		return
	}
	s.done = true
	if s.pending != nil {
		cb := s.pending
		s.pending = nil
		cb(engine.ErrRequestTimeout, "")
	}
}

// Reclaim drops a terminal slot's state.
func (v *Engine) Reclaim(id types.SlotID) {
	delete(v.slots, id)
}
