// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package crypto provides the primitives frost agrees on: deterministic
// keypair generation, detached Ed25519 signatures and the canonical
// string-array hash that gives casts their identity.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spolu/frost/types"
)

// hashSeparator joins hash parts. The join is unambiguous only while no part
// contains a NUL byte: prv is hex and never does, but channel and payload
// text are not checked for NUL, so part lists that differ only in where a
// NUL falls hash the same.
const hashSeparator = "\x00"

// Hash returns the lowercase-hex SHA-256 of the parts joined with a single
// NUL byte. This is the cast identity function; the encoding is pinned by
// test vectors and must not change.
func Hash(parts []string) types.Sha {
	digest := sha256.Sum256([]byte(strings.Join(parts, hashSeparator)))
	return types.Sha(hex.EncodeToString(digest[:]))
}

// Keypair holds a node's Ed25519 identity.
type Keypair struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// Generate returns a new keypair. With a non-nil seed the keypair is
// deterministic: the Ed25519 seed is the SHA-256 of the given bytes.
func Generate(seed []byte) (*Keypair, error) {
	if seed != nil {
		digest := sha256.Sum256(seed)
		priv := ed25519.NewKeyFromSeed(digest[:])
		return &Keypair{
			pub:  priv.Public().(ed25519.PublicKey),
			priv: priv,
		}, nil
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating keypair: %w", err)
	}
	return &Keypair{pub: pub, priv: priv}, nil
}

// ParseKeypair rebuilds a keypair from its encoded private key.
func ParseKeypair(priv types.PrivateKey) (*Keypair, error) {
	raw, err := base64.StdEncoding.DecodeString(string(priv))
	if err != nil {
		return nil, fmt.Errorf("decoding private key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key size: %d", len(raw))
	}
	key := ed25519.PrivateKey(raw)
	return &Keypair{
		pub:  key.Public().(ed25519.PublicKey),
		priv: key,
	}, nil
}

// PublicKey returns the encoded public key.
func (k *Keypair) PublicKey() types.PublicKey {
	return types.PublicKey(base64.StdEncoding.EncodeToString(k.pub))
}

// PrivateKey returns the encoded private key.
func (k *Keypair) PrivateKey() types.PrivateKey {
	return types.PrivateKey(base64.StdEncoding.EncodeToString(k.priv))
}

// Sign produces a detached signature over [msg].
func (k *Keypair) Sign(msg string) types.Signature {
	sig := ed25519.Sign(k.priv, []byte(msg))
	return types.Signature(base64.StdEncoding.EncodeToString(sig))
}

// Verify reports whether [sig] is a valid signature over [msg] under [pk].
// Any decode failure counts as a failed verification.
func Verify(msg string, sig types.Signature, pk types.PublicKey) bool {
	rawPk, err := base64.StdEncoding.DecodeString(string(pk))
	if err != nil || len(rawPk) != ed25519.PublicKeySize {
		return false
	}
	rawSig, err := base64.StdEncoding.DecodeString(string(sig))
	if err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(rawPk), []byte(msg), rawSig)
}
