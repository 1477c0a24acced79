// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log re-exports the logger frost threads through its components.
package log

import (
	"github.com/luxfi/log"
)

// Logger is the logging interface accepted by every frost component.
type Logger = log.Logger

// NewNoOpLogger returns a logger that doesn't log anything
func NewNoOpLogger() log.Logger {
	return log.NewNoOpLogger()
}
