// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spolu/frost/types"
)

// TestHashVectors pins the canonical encoding: SHA-256 over the parts
// joined with a single NUL byte, lowercase hex. These vectors must never
// change.
func TestHashVectors(t *testing.T) {
	require := require.New(t)

	// sha256("")
	require.Equal(
		types.Sha("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"),
		Hash([]string{""}),
	)

	// sha256("abc")
	require.Equal(
		types.Sha("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"),
		Hash([]string{"abc"}),
	)

	// sha256("a\x00b")
	require.Equal(
		types.Sha("59b271ae1bbcb1d31d41929817f4b16fb439eb4f31520b5ad1d5ce98920a7138"),
		Hash([]string{"a", "b"}),
	)
}

func TestHashSeparatorUnambiguous(t *testing.T) {
	require := require.New(t)

	// ["ab", "c"] and ["a", "bc"] must not collide
	require.NotEqual(Hash([]string{"ab", "c"}), Hash([]string{"a", "bc"}))
	require.NotEqual(Hash([]string{"abc"}), Hash([]string{"ab", "c"}))
}

func TestGenerateDeterministic(t *testing.T) {
	require := require.New(t)

	a, err := Generate([]byte("seed"))
	require.NoError(err)
	b, err := Generate([]byte("seed"))
	require.NoError(err)
	require.Equal(a.PublicKey(), b.PublicKey())
	require.Equal(a.PrivateKey(), b.PrivateKey())

	c, err := Generate([]byte("other seed"))
	require.NoError(err)
	require.NotEqual(a.PublicKey(), c.PublicKey())
}

func TestGenerateRandom(t *testing.T) {
	require := require.New(t)

	a, err := Generate(nil)
	require.NoError(err)
	b, err := Generate(nil)
	require.NoError(err)
	require.NotEqual(a.PublicKey(), b.PublicKey())
}

func TestSignVerify(t *testing.T) {
	require := require.New(t)

	kp, err := Generate([]byte("signer"))
	require.NoError(err)

	sig := kp.Sign("message")
	require.True(Verify("message", sig, kp.PublicKey()))
	require.False(Verify("other message", sig, kp.PublicKey()))

	other, err := Generate([]byte("impostor"))
	require.NoError(err)
	require.False(Verify("message", sig, other.PublicKey()))
}

func TestVerifyFailsClosed(t *testing.T) {
	require := require.New(t)

	kp, err := Generate([]byte("signer"))
	require.NoError(err)
	sig := kp.Sign("message")

	require.False(Verify("message", sig, "not base64!!"))
	require.False(Verify("message", "not base64!!", kp.PublicKey()))
	require.False(Verify("message", "", kp.PublicKey()))
	require.False(Verify("message", sig, ""))
}

func TestParseKeypair(t *testing.T) {
	require := require.New(t)

	kp, err := Generate([]byte("seed"))
	require.NoError(err)

	parsed, err := ParseKeypair(kp.PrivateKey())
	require.NoError(err)
	require.Equal(kp.PublicKey(), parsed.PublicKey())

	_, err = ParseKeypair("not base64!!")
	require.Error(err)
	_, err = ParseKeypair("c2hvcnQ=")
	require.Error(err)
}
