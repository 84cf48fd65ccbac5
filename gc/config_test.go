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

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Enabled {
		t.Fatalf("expected default config to be disabled")
	}
	if cfg.Interval != 50000 {
		t.Fatalf("expected default interval 50000, got %d", cfg.Interval)
	}
	if cfg.History != 500 {
		t.Fatalf("expected default history 500, got %d", cfg.History)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate cleanly, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid enabled config",
			cfg:  Config{Enabled: true, Interval: 50000, History: 500},
		},
		{
			name: "valid disabled config",
			cfg:  Config{Enabled: false, Interval: 1, History: 1},
		},
		{
			name:    "zero interval is rejected",
			cfg:     Config{Enabled: true, Interval: 0, History: 500},
			wantErr: true,
		},
		{
			name:    "zero history is rejected",
			cfg:     Config{Enabled: true, Interval: 50000, History: 0},
			wantErr: true,
		},
		{
			name:    "zero interval and history are both rejected",
			cfg:     Config{Enabled: true, Interval: 0, History: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestNewController_RejectsInvalidConfig(t *testing.T) {
	backend := openTestBackend(t)
	swap := NewSwapExecutor(backend)

	c, err := NewController(Config{Enabled: true, Interval: 0, History: 500}, buildChain(), swap, &fakeConductor{})
	if err == nil {
		t.Fatalf("expected NewController to reject a zero interval")
	}
	if c != nil {
		t.Fatalf("expected a nil controller on validation failure")
	}
}
