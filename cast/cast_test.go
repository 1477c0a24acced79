// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package cast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spolu/frost/crypto"
	"github.com/spolu/frost/types"
)

func testKeypair(t *testing.T, seed string) *crypto.Keypair {
	kp, err := crypto.Generate([]byte(seed))
	require.NoError(t, err)
	return kp
}

func TestGenerate(t *testing.T) {
	require := require.New(t)
	kp := testKeypair(t, "sender")

	k := Generate(kp, "test", "", []byte("foo bar"))
	require.Equal(types.Sha(""), k.Prv)
	require.Equal("foo bar", k.Pay)
	require.Equal(crypto.Hash([]string{"", "test", "foo bar"}), k.Sha)
	require.True(crypto.Verify(string(k.Sha), k.Sig, kp.PublicKey()))
	require.True(Verify(kp.PublicKey(), "test", k))
}

func TestGenerateChained(t *testing.T) {
	require := require.New(t)
	kp := testKeypair(t, "sender")

	first := Generate(kp, "test", "", []byte("one"))
	second := Generate(kp, "test", first.Sha, []byte("two"))
	require.Equal(first.Sha, second.Prv)
	require.Equal(crypto.Hash([]string{string(first.Sha), "test", "two"}), second.Sha)
	require.True(Verify(kp.PublicKey(), "test", second))
}

func TestVerifyRejectsTampering(t *testing.T) {
	require := require.New(t)
	kp := testKeypair(t, "sender")

	k := Generate(kp, "test", "", []byte("payload"))

	// wrong channel
	require.False(Verify(kp.PublicKey(), "other", k))

	// wrong sender
	other := testKeypair(t, "other")
	require.False(Verify(other.PublicKey(), "test", k))

	// tampered payload
	tampered := *k
	tampered.Pay = "payload!"
	require.False(Verify(kp.PublicKey(), "test", &tampered))

	// flipped sha bit
	tampered = *k
	sha := []byte(tampered.Sha)
	if sha[0] == 'a' {
		sha[0] = 'b'
	} else {
		sha[0] = 'a'
	}
	tampered.Sha = types.Sha(sha)
	require.False(Verify(kp.PublicKey(), "test", &tampered))

	// truncated signature
	tampered = *k
	tampered.Sig = tampered.Sig[:len(tampered.Sig)-4]
	require.False(Verify(kp.PublicKey(), "test", &tampered))

	require.False(Verify(kp.PublicKey(), "test", nil))
}

func TestParseStrict(t *testing.T) {
	require := require.New(t)

	for _, value := range []string{
		"",
		"not json",
		"[]",
		`{"prv":"","pay":"x","sha":"y"}`,                    // missing sig
		`{"pay":"x","sha":"y","sig":"z"}`,                   // missing prv
		`{"prv":"","pay":7,"sha":"y","sig":"z"}`,            // non-string pay
		`{"prv":null,"pay":"x","sha":"y","sig":"z"}`,        // null prv
		`{"prv":"","pay":"x","sha":["y"],"sig":"z"}`,        // non-string sha
	} {
		_, err := Parse(value)
		require.ErrorIs(err, ErrInvalidCast, "value=%q", value)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	require := require.New(t)
	kp := testKeypair(t, "sender")

	k := Generate(kp, "test", "", []byte("foo bar"))
	value, err := k.Encode()
	require.NoError(err)

	parsed, err := Parse(value)
	require.NoError(err)
	require.Equal(k, parsed)
}

func TestEncodeFieldNames(t *testing.T) {
	require := require.New(t)
	kp := testKeypair(t, "sender")

	value, err := Generate(kp, "test", "", []byte("x")).Encode()
	require.NoError(err)

	var fields map[string]json.RawMessage
	require.NoError(json.Unmarshal([]byte(value), &fields))
	for _, name := range []string{"prv", "pay", "sha", "sig"} {
		require.Contains(fields, name)
	}
	require.Len(fields, 4)
}
