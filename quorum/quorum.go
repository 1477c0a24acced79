// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package quorum implements the quorum structure handed to the protocol
// engine: the set of known nodes and the quorum slices configured over them.
// Configuration is direct — callers manipulate slices themselves; no
// suggestion heuristic is provided.
package quorum

import (
	"sort"
	"strings"

	"github.com/spolu/frost/engine"
	"github.com/spolu/frost/types"
	"github.com/spolu/frost/utils/set"
)

var _ engine.Quorums = (*Set)(nil)

// Set is the in-memory quorum structure. It is owned by the node loop and
// carries no locking of its own.
type Set struct {
	nodes set.Set[types.PublicKey]

	// slices indexed by their canonical key so duplicate registrations
	// collapse
	slices map[string][]types.PublicKey
}

// New returns an empty quorum structure.
func New() *Set {
	return &Set{
		nodes:  set.NewSet[types.PublicKey](0),
		slices: make(map[string][]types.PublicKey),
	}
}

// sliceKey canonicalizes a quorum slice irrespective of member order.
func sliceKey(slice []types.PublicKey) string {
	members := make([]string, len(slice))
	for i, pk := range slice {
		members[i] = string(pk)
	}
	sort.Strings(members)
	return strings.Join(members, ",")
}

// ForEach visits every configured quorum slice.
func (s *Set) ForEach(fn func(slice []types.PublicKey)) {
	for _, slice := range s.slices {
		fn(slice)
	}
}

// AddQuorum registers a quorum slice.
func (s *Set) AddQuorum(slice []types.PublicKey) {
	members := make([]types.PublicKey, len(slice))
	copy(members, slice)
	s.slices[sliceKey(slice)] = members
}

// RemoveQuorum unregisters a quorum slice.
func (s *Set) RemoveQuorum(slice []types.PublicKey) {
	delete(s.slices, sliceKey(slice))
}

// AddNode adds a node to the node set.
func (s *Set) AddNode(pk types.PublicKey) {
	s.nodes.Add(pk)
}

// RemoveNode removes a node from the node set.
func (s *Set) RemoveNode(pk types.PublicKey) {
	s.nodes.Remove(pk)
}

// Nodes returns a snapshot of the node set.
func (s *Set) Nodes() []types.PublicKey {
	return s.nodes.List()
}

// Len returns the number of configured slices.
func (s *Set) Len() int {
	return len(s.slices)
}
