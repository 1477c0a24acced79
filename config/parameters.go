// Copyright (C) 2026, Frost Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"time"
)

// Parameters contains node configuration
type Parameters struct {
	// Timing
	RetryInterval  time.Duration // ballot rate-gate spacing
	RequestTimeout time.Duration // consensus request budget
	DialTimeout    time.Duration // transport dial budget
	WriteTimeout   time.Duration // transport write budget

	// Limits
	MaxFrameSize int64 // largest inbound transport frame
}

// Default returns the default parameters
func Default() Parameters {
	return Parameters{
		RetryInterval:  time.Second,
		RequestTimeout: 2 * time.Second,
		DialTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxFrameSize:   1 << 20,
	}
}

// Valid returns nil if the parameters are usable
func (p Parameters) Valid() error {
	switch {
	case p.RetryInterval <= 0:
		return fmt.Errorf("retry interval must be positive: %s", p.RetryInterval)
	case p.RequestTimeout <= 0:
		return fmt.Errorf("request timeout must be positive: %s", p.RequestTimeout)
	case p.DialTimeout <= 0:
		return fmt.Errorf("dial timeout must be positive: %s", p.DialTimeout)
	case p.WriteTimeout <= 0:
		return fmt.Errorf("write timeout must be positive: %s", p.WriteTimeout)
	case p.MaxFrameSize <= 0:
		return fmt.Errorf("max frame size must be positive: %d", p.MaxFrameSize)
	default:
		return nil
	}
}
