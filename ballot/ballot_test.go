// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package ballot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spolu/frost/cast"
	"github.com/spolu/frost/crypto"
	"github.com/spolu/frost/engine"
	"github.com/spolu/frost/log"
	"github.com/spolu/frost/types"
)

type vetoPolicy struct {
	verify bool
	accept bool
}

func (p vetoPolicy) VerifyPayload(types.PublicKey, types.Channel, string) bool { return p.verify }
func (p vetoPolicy) AcceptPayload(types.PublicKey, types.Channel, string) bool { return p.accept }

type fixture struct {
	kp    *crypto.Keypair
	store *cast.Store
	cb    *Callbacks
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	kp, err := crypto.Generate([]byte("sender"))
	require.NoError(t, err)

	f := &fixture{
		kp:    kp,
		store: cast.NewStore(),
		now:   time.Unix(1700000000, 0),
	}
	f.cb = &Callbacks{
		Log:    log.NewNoOpLogger(),
		Store:  f.store,
		Policy: AllowAll{},
		Clock:  func() time.Time { return f.now },
	}
	return f
}

// slotFor builds the slot a cast would be proposed on, created at the
// fixture's current time.
func (f *fixture) slotFor(channel types.Channel, k *cast.Cast) *engine.Slot {
	return &engine.Slot{
		ID:         types.NewSlotID(channel, f.kp.PublicKey(), k.Sha),
		CreateTime: f.now,
	}
}

func encode(t *testing.T, k *cast.Cast) string {
	value, err := k.Encode()
	require.NoError(t, err)
	return value
}

func TestGenerateBallotMonotone(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	slot := &engine.Slot{ID: "test:pk:sha", CreateTime: f.now}
	for i := 0; i < 5; i++ {
		b := f.cb.GenerateBallot(slot, "x")
		require.Equal(i, b.N)
		require.Equal("x", b.X)
		slot.Ballot = &b
	}
}

func TestVerifyBallot(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	k := cast.Generate(f.kp, "test", "", []byte("foo bar"))
	slot := f.slotFor("test", k)

	require.True(f.cb.VerifyBallot(slot, engine.Ballot{N: 0, X: encode(t, k)}, f.kp.PublicKey()))

	// value that does not parse
	require.False(f.cb.VerifyBallot(slot, engine.Ballot{N: 0, X: "junk"}, f.kp.PublicKey()))

	// cast signed for another channel
	other := cast.Generate(f.kp, "other", "", []byte("foo bar"))
	require.False(f.cb.VerifyBallot(slot, engine.Ballot{N: 0, X: encode(t, other)}, f.kp.PublicKey()))

	// unparseable slot
	bad := &engine.Slot{ID: "nocolons", CreateTime: f.now}
	require.False(f.cb.VerifyBallot(bad, engine.Ballot{N: 0, X: encode(t, k)}, f.kp.PublicKey()))
}

func TestVerifyBallotPayloadPolicy(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	f.cb.Policy = vetoPolicy{verify: false, accept: true}

	k := cast.Generate(f.kp, "test", "", []byte("foo bar"))
	slot := f.slotFor("test", k)
	require.False(f.cb.VerifyBallot(slot, engine.Ballot{N: 0, X: encode(t, k)}, f.kp.PublicKey()))
}

// TestVerifyBallotRateGate exercises the retry pacing: ballot n is invalid
// until the slot is n seconds old.
func TestVerifyBallotRateGate(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	k := cast.Generate(f.kp, "test", "", []byte("foo bar"))
	slot := f.slotFor("test", k)
	ballot := engine.Ballot{N: 3, X: encode(t, k)}

	require.False(f.cb.VerifyBallot(slot, ballot, f.kp.PublicKey()))

	f.now = f.now.Add(2999 * time.Millisecond)
	require.False(f.cb.VerifyBallot(slot, ballot, f.kp.PublicKey()))

	f.now = f.now.Add(time.Millisecond)
	require.True(f.cb.VerifyBallot(slot, ballot, f.kp.PublicKey()))
}

func TestVerifyBallotRateGateInterval(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	f.cb.RetryInterval = 100 * time.Millisecond

	k := cast.Generate(f.kp, "test", "", []byte("foo bar"))
	slot := f.slotFor("test", k)
	ballot := engine.Ballot{N: 2, X: encode(t, k)}

	require.False(f.cb.VerifyBallot(slot, ballot, f.kp.PublicKey()))
	f.now = f.now.Add(200 * time.Millisecond)
	require.True(f.cb.VerifyBallot(slot, ballot, f.kp.PublicKey()))
}

func TestAcceptBallotFirstLink(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	k := cast.Generate(f.kp, "test", "", []byte("foo bar"))
	slot := f.slotFor("test", k)
	require.True(f.cb.AcceptBallot(slot, engine.Ballot{N: 0, X: encode(t, k)}, f.kp.PublicKey()))
}

func TestAcceptBallotChained(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)

	first := cast.Generate(f.kp, "test", "", []byte("one"))
	second := cast.Generate(f.kp, "test", first.Sha, []byte("two"))
	slot := f.slotFor("test", second)
	ballot := engine.Ballot{N: 0, X: encode(t, second)}

	// no store entry: refuse, we lack context to pledge
	require.False(f.cb.AcceptBallot(slot, ballot, f.kp.PublicKey()))

	// matching head: accept
	f.store.Put("test", f.kp.PublicKey(), first)
	require.True(f.cb.AcceptBallot(slot, ballot, f.kp.PublicKey()))

	// diverged head: refuse
	diverged := cast.Generate(f.kp, "test", "", []byte("elsewhere"))
	f.store.Put("test", f.kp.PublicKey(), diverged)
	require.False(f.cb.AcceptBallot(slot, ballot, f.kp.PublicKey()))
}

func TestAcceptBallotPayloadPolicy(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	f.cb.Policy = vetoPolicy{verify: true, accept: false}

	k := cast.Generate(f.kp, "test", "", []byte("foo bar"))
	slot := f.slotFor("test", k)
	ballot := engine.Ballot{N: 0, X: encode(t, k)}

	require.True(f.cb.VerifyBallot(slot, ballot, f.kp.PublicKey()))
	require.False(f.cb.AcceptBallot(slot, ballot, f.kp.PublicKey()))
}
