// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultValid(t *testing.T) {
	require.NoError(t, Default().Valid())
}

func TestValid(t *testing.T) {
	require := require.New(t)

	p := Default()
	p.RetryInterval = 0
	require.Error(p.Valid())

	p = Default()
	p.RequestTimeout = -time.Second
	require.Error(p.Valid())

	p = Default()
	p.MaxFrameSize = 0
	require.Error(p.Valid())
}
