// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package quorum

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spolu/frost/types"
)

func TestNodes(t *testing.T) {
	require := require.New(t)
	s := New()

	require.Empty(s.Nodes())

	s.AddNode("a")
	s.AddNode("b")
	s.AddNode("a")
	require.ElementsMatch([]types.PublicKey{"a", "b"}, s.Nodes())

	s.RemoveNode("a")
	require.ElementsMatch([]types.PublicKey{"b"}, s.Nodes())

	s.RemoveNode("missing")
	require.ElementsMatch([]types.PublicKey{"b"}, s.Nodes())
}

func TestQuorumSlices(t *testing.T) {
	require := require.New(t)
	s := New()

	s.AddQuorum([]types.PublicKey{"a", "b", "c"})
	require.Equal(1, s.Len())

	// duplicate slices collapse, irrespective of member order
	s.AddQuorum([]types.PublicKey{"c", "b", "a"})
	require.Equal(1, s.Len())

	s.AddQuorum([]types.PublicKey{"a", "b"})
	require.Equal(2, s.Len())

	var visited [][]types.PublicKey
	s.ForEach(func(slice []types.PublicKey) {
		visited = append(visited, slice)
	})
	require.Len(visited, 2)

	s.RemoveQuorum([]types.PublicKey{"b", "a"})
	require.Equal(1, s.Len())
}

func TestAddQuorumCopies(t *testing.T) {
	require := require.New(t)
	s := New()

	slice := []types.PublicKey{"a", "b"}
	s.AddQuorum(slice)
	slice[0] = "mutated"

	s.ForEach(func(got []types.PublicKey) {
		require.Equal([]types.PublicKey{"a", "b"}, got)
	})
}
