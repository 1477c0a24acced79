// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cast implements the unit of agreement: a signed, hash-chained
// record proposed for consensus on a channel. Casts are never trusted as
// received; their hash and signature are re-verified on every path that
// admits one into local state.
package cast

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spolu/frost/crypto"
	"github.com/spolu/frost/types"
)

var (
	// ErrInvalidCast is returned when a serialized cast is missing a field
	// or carries one with the wrong shape.
	ErrInvalidCast = errors.New("invalid cast")
)

// Cast is an application-level message agreed on by the network.
//
// Prv chains the cast to the sender's previous cast on the same channel
// (empty for the first link), Pay carries the opaque payload, Sha is the
// canonical digest of [prv, channel, pay] and Sig is the sender's detached
// signature over Sha.
type Cast struct {
	Prv types.Sha       `json:"prv"`
	Pay string          `json:"pay"`
	Sha types.Sha       `json:"sha"`
	Sig types.Signature `json:"sig"`
}

// Generate builds and signs a cast for [channel] with the given chain
// predecessor. It never consults the store; the caller supplies [prv].
func Generate(kp *crypto.Keypair, channel types.Channel, prv types.Sha, payload []byte) *Cast {
	pay := string(payload)
	sha := crypto.Hash([]string{string(prv), string(channel), pay})
	return &Cast{
		Prv: prv,
		Pay: pay,
		Sha: sha,
		Sig: kp.Sign(string(sha)),
	}
}

// Verify checks a cast's integrity: the recomputed digest must match Sha and
// Sig must verify over Sha under [sender]. Chain continuity is not checked
// here; that is the acceptor's concern.
func Verify(sender types.PublicKey, channel types.Channel, c *Cast) bool {
	if c == nil {
		return false
	}
	if crypto.Hash([]string{string(c.Prv), string(channel), c.Pay}) != c.Sha {
		return false
	}
	return crypto.Verify(string(c.Sha), c.Sig, sender)
}

// rawCast mirrors Cast with pointer fields so Parse can tell a missing
// member from an empty string.
type rawCast struct {
	Prv *string `json:"prv"`
	Pay *string `json:"pay"`
	Sha *string `json:"sha"`
	Sig *string `json:"sig"`
}

// Parse decodes a serialized cast, requiring all four fields to be present
// as JSON strings. It fails closed on any shape error.
func Parse(value string) (*Cast, error) {
	var raw rawCast
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCast, err)
	}
	if raw.Prv == nil || raw.Pay == nil || raw.Sha == nil || raw.Sig == nil {
		return nil, fmt.Errorf("%w: missing field", ErrInvalidCast)
	}
	return &Cast{
		Prv: types.Sha(*raw.Prv),
		Pay: *raw.Pay,
		Sha: types.Sha(*raw.Sha),
		Sig: types.Signature(*raw.Sig),
	}, nil
}

// Encode serializes the cast as the value field of a consensus slot.
func (c *Cast) Encode() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding cast: %w", err)
	}
	return string(raw), nil
}
