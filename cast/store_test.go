// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package cast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	require := require.New(t)
	kp := testKeypair(t, "sender")
	s := NewStore()

	_, ok := s.Get("test", kp.PublicKey())
	require.False(ok)
	require.Zero(s.Len())

	first := Generate(kp, "test", "", []byte("one"))
	s.Put("test", kp.PublicKey(), first)
	got, ok := s.Get("test", kp.PublicKey())
	require.True(ok)
	require.Equal(first, got)
	require.Equal(1, s.Len())

	// overwrite with the next link
	second := Generate(kp, "test", first.Sha, []byte("two"))
	s.Put("test", kp.PublicKey(), second)
	got, ok = s.Get("test", kp.PublicKey())
	require.True(ok)
	require.Equal(second, got)
	require.Equal(1, s.Len())

	// distinct channels are distinct pairs
	other := Generate(kp, "other", "", []byte("three"))
	s.Put("other", kp.PublicKey(), other)
	require.Equal(2, s.Len())
	got, ok = s.Get("test", kp.PublicKey())
	require.True(ok)
	require.Equal(second, got)
}
