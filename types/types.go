// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types defines the string newtypes shared across frost: channels,
// keys, digests and slot identifiers. Keeping them distinct prevents the
// accidental cross-keying of the store, registry and pending-request maps.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Channel names a bus casts are sent on. A channel may not contain ':',
// which is reserved by the slot identifier grammar.
type Channel string

// PublicKey is the standard-base64 encoding of a 32-byte Ed25519 public key.
// It doubles as a node's address.
type PublicKey string

// PrivateKey is the standard-base64 encoding of a 64-byte Ed25519 private key.
type PrivateKey string

// Sha is the lowercase-hex digest identifying a cast.
type Sha string

// Signature is the standard-base64 encoding of a detached Ed25519 signature.
type Signature string

// SlotID identifies one consensus instance: `channel ':' sender ':' sha`.
// Scoping slots to a specific proposed cast lets the node reclaim the prior
// slot of a (channel, sender) pair once a newer cast externalizes.
type SlotID string

var (
	// ErrInvalidChannel is returned when a channel contains the reserved ':'.
	ErrInvalidChannel = errors.New("invalid channel")
	// ErrInvalidSlotID is returned when a slot identifier does not parse.
	ErrInvalidSlotID = errors.New("invalid slot id")
)

// Valid returns whether the channel is usable in a slot identifier.
func (c Channel) Valid() bool {
	return !strings.Contains(string(c), ":")
}

// NewSlotID builds the slot identifier for a proposed cast.
func NewSlotID(channel Channel, sender PublicKey, sha Sha) SlotID {
	return SlotID(fmt.Sprintf("%s:%s:%s", channel, sender, sha))
}

// ParseSlotID splits a slot identifier into its channel, sender and sha
// components. Standard base64 and lowercase hex never contain ':', so the
// identifier splits into exactly three parts.
func ParseSlotID(id SlotID) (Channel, PublicKey, Sha, error) {
	parts := strings.Split(string(id), ":")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidSlotID, id)
	}
	return Channel(parts[0]), PublicKey(parts[1]), Sha(parts[2]), nil
}
