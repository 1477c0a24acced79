// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package cast

import (
	"github.com/spolu/frost/types"
)

type storeKey struct {
	channel types.Channel
	sender  types.PublicKey
}

// Store maps (channel, sender) to that pair's latest externalized cast.
// Entries are created on first externalization and only ever overwritten by
// the externalization handler; the node loop is the sole accessor, so no
// locking is carried here.
type Store struct {
	casts map[storeKey]*Cast
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{casts: make(map[storeKey]*Cast)}
}

// Get returns the latest cast for (channel, sender), if any.
func (s *Store) Get(channel types.Channel, sender types.PublicKey) (*Cast, bool) {
	c, ok := s.casts[storeKey{channel: channel, sender: sender}]
	return c, ok
}

// Put overwrites the latest cast for (channel, sender).
func (s *Store) Put(channel types.Channel, sender types.PublicKey, c *Cast) {
	s.casts[storeKey{channel: channel, sender: sender}] = c
}

// Len returns the number of (channel, sender) pairs tracked.
func (s *Store) Len() int {
	return len(s.casts)
}
