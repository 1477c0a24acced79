// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package frost provides a clean, single-import surface for the frost
// messaging node.
package frost

import (
	"github.com/spolu/frost/ballot"
	"github.com/spolu/frost/cast"
	"github.com/spolu/frost/config"
	"github.com/spolu/frost/engine"
	"github.com/spolu/frost/node"
	"github.com/spolu/frost/types"
)

// Type aliases for clean single-import experience
type (
	// Node types
	Node       = node.Node
	NodeConfig = node.Config
	PeerInfo   = node.PeerInfo
	Events     = node.Events
	PeerEvent  = node.PeerEvent
	ClientEvent = node.ClientEvent
	SendFunc    = node.SendFunc
	ReceiveFunc = node.ReceiveFunc

	// Core types
	Cast       = cast.Cast
	Channel    = types.Channel
	PublicKey  = types.PublicKey
	PrivateKey = types.PrivateKey
	Sha        = types.Sha
	SlotID     = types.SlotID

	// Engine contract
	Engine        = engine.Engine
	EngineFactory = engine.Factory
	Ballot        = engine.Ballot
	Slot          = engine.Slot

	// Policy
	PayloadPolicy = ballot.PayloadPolicy

	// Configuration
	Parameters = config.Parameters
)

// Errors re-exported for convenience
var (
	ErrInvalidChannel = node.ErrInvalidChannel
	ErrInvalidPayload = node.ErrInvalidPayload
	ErrRequestTimeout = engine.ErrRequestTimeout
)

// New builds and starts a node.
func New(cfg NodeConfig) (*Node, error) {
	return node.New(cfg)
}

// DefaultParameters returns the default node parameters.
func DefaultParameters() Parameters {
	return config.Default()
}
