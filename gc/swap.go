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

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/fantom-foundation/carmen-asgc/go/common"
	"github.com/fantom-foundation/carmen-asgc/go/storage"
)

// Table names for the two account-state tables. The presence of the
// staging table on boot signals an in-progress swap that must be
// completed before anything else reads account state.
const (
	LiveTableName    = "account_state"
	StagingTableName = "account_state_staging"
)

// SwapExecutor implements the two-phase swap protocol, separated by a
// controlled process restart. Phase A runs before the restart and
// durably stages the reachable set; Phase B runs at startup, before
// anything else reads account state, and promotes the staged set into
// the live table.
type SwapExecutor struct {
	backend *storage.Backend
}

// NewSwapExecutor builds a swap executor over backend.
func NewSwapExecutor(backend *storage.Backend) *SwapExecutor {
	return &SwapExecutor{backend: backend}
}

// Stage runs Phase A: it iterates set and writes every (hash, node) row
// into the staging table inside a single synchronous, durable
// transaction. On any failure the transaction is aborted, the live table
// is left untouched, and ErrStageFailed is returned.
func (s *SwapExecutor) Stage(set *ReachableSet) error {
	staging := s.backend.Table(StagingTableName)
	if err := staging.WriteAll(func(yield func(hash [32]byte, node []byte) bool) {
		set.ForEach(func(hash common.Hash, node []byte) {
			yield(hash, node)
		})
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrStageFailed, err)
	}
	log.Info("gc: staged reachable set", "rows", set.Size())
	return nil
}

// Promote runs Phase B: if the staging table exists and is non-empty, the
// live table is cleared and refilled from staging inside a single
// transaction, and staging is then dropped. If staging is absent or
// empty, Promote does nothing. Promote must run before the rest of the
// node initializes anything that reads account state. A failure here is
// fatal to the caller.
func (s *SwapExecutor) Promote() error {
	staging := s.backend.Table(StagingTableName)
	empty, err := staging.IsEmpty()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPromoteFailed, err)
	}
	if empty {
		return nil
	}

	live := s.backend.Table(LiveTableName)
	if err := s.backend.Promote(staging, live); err != nil {
		return fmt.Errorf("%w: %v", ErrPromoteFailed, err)
	}
	// staging is not dropped until the copy has committed, so a crash
	// between Promote and Drop simply re-runs Promote on next boot: the
	// second run finds staging non-empty and idempotently repeats the
	// clear-and-refill.
	if err := staging.Drop(); err != nil {
		return fmt.Errorf("%w: %v", ErrPromoteFailed, err)
	}
	log.Info("gc: promoted staged nodes into live account-state table")
	return nil
}
