// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ballot plugs cast semantics into the protocol engine's generic
// ballots. The three callbacks split along the FBA line: generation and
// verification are global (every correct node computes the same answer),
// acceptance is local (a node pledges based on its own chain view).
package ballot

import (
	"time"

	"go.uber.org/zap"

	"github.com/spolu/frost/cast"
	"github.com/spolu/frost/engine"
	"github.com/spolu/frost/log"
	"github.com/spolu/frost/types"
)

// DefaultRetryInterval paces ballot retries: ballot n is not valid before
// the slot is n retry intervals old.
const DefaultRetryInterval = time.Second

// PayloadPolicy lets the application veto payloads during verification and
// acceptance, independently of cast integrity.
type PayloadPolicy interface {
	// VerifyPayload participates in global ballot validity.
	VerifyPayload(sender types.PublicKey, channel types.Channel, payload string) bool

	// AcceptPayload participates in local ballot acceptance.
	AcceptPayload(sender types.PublicKey, channel types.Channel, payload string) bool
}

// AllowAll is the default policy: every payload passes.
type AllowAll struct{}

func (AllowAll) VerifyPayload(types.PublicKey, types.Channel, string) bool { return true }
func (AllowAll) AcceptPayload(types.PublicKey, types.Channel, string) bool { return true }

var _ engine.Callbacks = (*Callbacks)(nil)

// Callbacks implements engine.Callbacks over the cast store.
type Callbacks struct {
	Log    log.Logger
	Store  *cast.Store
	Policy PayloadPolicy

	// Clock supplies wall time for the rate gate; nil means time.Now.
	Clock func() time.Time

	// RetryInterval overrides DefaultRetryInterval when positive.
	RetryInterval time.Duration
}

func (c *Callbacks) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c *Callbacks) retryInterval() time.Duration {
	if c.RetryInterval > 0 {
		return c.RetryInterval
	}
	return DefaultRetryInterval
}

// GenerateBallot yields {0, x} on a fresh slot and bumps the counter on
// every retry.
func (c *Callbacks) GenerateBallot(slot *engine.Slot, x string) engine.Ballot {
	if slot.Ballot == nil {
		return engine.Ballot{N: 0, X: x}
	}
	return engine.Ballot{N: slot.Ballot.N + 1, X: x}
}

// VerifyBallot checks global ballot validity: the value parses as a cast
// that verifies for the slot's channel and sender, the payload policy
// agrees, and the ballot counter respects the rate gate. The gate requires
// now >= slot.CreateTime + n * retryInterval, so a stalling node cannot
// flood higher ballots.
func (c *Callbacks) VerifyBallot(slot *engine.Slot, ballot engine.Ballot, node types.PublicKey) bool {
	channel, sender, _, err := types.ParseSlotID(slot.ID)
	if err != nil {
		c.Log.Debug("ballot on unparseable slot", zap.String("slot", string(slot.ID)))
		return false
	}
	k, err := cast.Parse(ballot.X)
	if err != nil {
		c.Log.Debug("ballot value does not parse",
			zap.String("slot", string(slot.ID)),
			zap.Error(err),
		)
		return false
	}
	if !cast.Verify(sender, channel, k) {
		return false
	}
	if !c.Policy.VerifyPayload(sender, channel, k.Pay) {
		return false
	}
	gate := slot.CreateTime.Add(time.Duration(ballot.N) * c.retryInterval())
	return !c.now().Before(gate)
}

// AcceptBallot checks local acceptance: a chained cast must extend the
// store's current head for its (channel, sender). A missing entry is a
// refusal — the node lacks context to pledge — not a failure: if the rest of
// the network externalizes the value anyway, the externalization handler
// still adopts it.
func (c *Callbacks) AcceptBallot(slot *engine.Slot, ballot engine.Ballot, node types.PublicKey) bool {
	channel, sender, _, err := types.ParseSlotID(slot.ID)
	if err != nil {
		return false
	}
	k, err := cast.Parse(ballot.X)
	if err != nil {
		return false
	}
	if k.Prv != "" {
		cur, ok := c.Store.Get(channel, sender)
		if !ok || cur.Sha != k.Prv {
			return false
		}
	}
	return c.Policy.AcceptPayload(sender, channel, k.Pay)
}
