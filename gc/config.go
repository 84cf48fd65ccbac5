// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package gc

import "fmt"

// Config is the GC's immutable-after-init configuration.
type Config struct {
	// Enabled turns the whole subsystem on. When false, the controller
	// never leaves Idle and ChainSynced/TopChanged are ignored.
	Enabled bool

	// Interval is the number of key blocks between GC activations. A
	// scan is only ever started at a height h with h mod Interval == 0.
	Interval uint64

	// History is the number of key blocks behind the top whose trie
	// roots must remain reachable.
	History uint64
}

// DefaultConfig returns the recommended defaults: disabled, a full
// GC pass every 50000 key blocks, keeping the last 500 reachable.
func DefaultConfig() Config {
	return Config{
		Enabled:  false,
		Interval: 50000,
		History:  500,
	}
}

// Validate checks the configuration invariants (interval, history >= 1).
// It never mutates the receiver; Config is immutable once validated.
func (c Config) Validate() error {
	if c.Interval < 1 {
		return fmt.Errorf("gc: interval must be >= 1, got %d", c.Interval)
	}
	if c.History < 1 {
		return fmt.Errorf("gc: history must be >= 1, got %d", c.History)
	}
	return nil
}
