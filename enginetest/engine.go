// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package enginetest provides a protocol-engine double for tests: a
// call-through implementation with per-method hooks that records every
// Request and Reclaim. The in-process voting engine used to exercise a node
// cluster end to end is package engine/vote.
package enginetest

import (
	"encoding/json"
	"time"

	"github.com/spolu/frost/engine"
	"github.com/spolu/frost/types"
)

// RequestRecord captures one Request invocation.
type RequestRecord struct {
	Slot    types.SlotID
	Value   string
	Timeout time.Duration
	CB      engine.RequestFunc
}

// Engine is a test implementation of engine.Engine
type Engine struct {
	T interface {
		Fatalf(format string, args ...interface{})
		Helper()
	}

	CantProcess,
	CantRequest,
	CantReclaim bool

	ProcessF func(frame json.RawMessage) error
	RequestF func(slot types.SlotID, value string, timeout time.Duration, cb engine.RequestFunc)
	ReclaimF func(slot types.SlotID)

	// Params are the construction parameters the node handed to the
	// factory, kept so tests can drive Handler events directly.
	Params engine.Params

	// Requests and Reclaimed record calls regardless of hooks.
	Requests  []RequestRecord
	Reclaimed []types.SlotID
}

var _ engine.Engine = (*Engine)(nil)

// Factory returns an engine factory capturing the built double in [out].
func Factory(out **Engine) engine.Factory {
	return func(p engine.Params) engine.Engine {
		e := &Engine{Params: p}
		*out = e
		return e
	}
}

// Default sets the default callable value to [cant]
func (e *Engine) Default(cant bool) {
	e.CantProcess = cant
	e.CantRequest = cant
	e.CantReclaim = cant
}

func (e *Engine) Process(frame json.RawMessage) error {
	if e.ProcessF != nil {
		return e.ProcessF(frame)
	}
	if e.CantProcess && e.T != nil {
		e.T.Fatalf("unexpectedly called Process")
	}
	return nil
}

func (e *Engine) Request(slot types.SlotID, value string, timeout time.Duration, cb engine.RequestFunc) {
	e.Requests = append(e.Requests, RequestRecord{
		Slot:    slot,
		Value:   value,
		Timeout: timeout,
		CB:      cb,
	})
	if e.RequestF != nil {
		e.RequestF(slot, value, timeout, cb)
		return
	}
	if e.CantRequest && e.T != nil {
		e.T.Fatalf("unexpectedly called Request")
	}
}

func (e *Engine) Reclaim(slot types.SlotID) {
	e.Reclaimed = append(e.Reclaimed, slot)
	if e.ReclaimF != nil {
		e.ReclaimF(slot)
	}
	if e.CantReclaim && e.T != nil {
		e.T.Fatalf("unexpectedly called Reclaim")
	}
}
