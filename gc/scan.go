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
)

// ScanEngine performs full and delta reachability scans over an
// account trie. It only depends on the ChainReader collaborator; it
// never touches storage or the controller's state directly.
type ScanEngine struct {
	chain ChainReader
}

// NewScanEngine builds a scan engine reading trie roots through chain.
func NewScanEngine(chain ChainReader) *ScanEngine {
	return &ScanEngine{chain: chain}
}

// resolveTrie resolves height to a (root, trie) pair, wrapping any
// failure in ErrTrieUnavailable.
func (e *ScanEngine) resolveTrie(height Height) (root [32]byte, trie Trie, err error) {
	blockHash, err := e.chain.KeyBlockHashAt(height)
	if err != nil {
		return root, nil, fmt.Errorf("%w: height %d: %v", ErrTrieUnavailable, height, err)
	}
	trees, err := e.chain.BlockState(blockHash)
	if err != nil {
		return root, nil, fmt.Errorf("%w: height %d: %v", ErrTrieUnavailable, height, err)
	}
	root, trie, err = e.chain.AccountsTrie(trees)
	if err != nil {
		return root, nil, fmt.Errorf("%w: height %d: %v", ErrTrieUnavailable, height, err)
	}
	return root, trie, nil
}

// FullScan acquires the trie root at height and traverses it with
// StoreHash into a fresh reachable set. Cost is O(|trie at height|).
func (e *ScanEngine) FullScan(height Height) (*ReachableSet, error) {
	root, trie, err := e.resolveTrie(height)
	if err != nil {
		return nil, err
	}
	set := NewReachableSet()
	adapter := NewVisitorAdapter(set)
	if err := trie.VisitReachable(root, adapter.StoreHash()); err != nil {
		return nil, fmt.Errorf("%w: full scan at height %d: %v", ErrTrieUnavailable, height, err)
	}
	log.Info("gc: full scan complete", "height", height, "nodes", set.Size())
	return set, nil
}

// DeltaScan acquires the trie root at height and traverses it with
// StoreUnseenHash into the existing set. Any subtree whose root hash is
// already in set is skipped entirely. If the height's root cannot be
// resolved, the set is left untouched; a traversal that fails part-way
// keeps the nodes it inserted before the failure.
func (e *ScanEngine) DeltaScan(height Height, set *ReachableSet) error {
	root, trie, err := e.resolveTrie(height)
	if err != nil {
		return err
	}
	adapter := NewVisitorAdapter(set)
	if err := trie.VisitReachable(root, adapter.StoreUnseenHash()); err != nil {
		return fmt.Errorf("%w: delta scan at height %d: %v", ErrTrieUnavailable, height, err)
	}
	return nil
}

// RangeScan walks h = lo+1, lo+2, ..., hi in order, applying a delta scan
// at each height into set. If hi <= lo the call is a no-op. Correctness
// does not depend on the order; ascending order is kept only because
// earlier deltas reduce the work of later ones.
func (e *ScanEngine) RangeScan(lo, hi Height, set *ReachableSet) error {
	if hi <= lo {
		return nil
	}
	for h := lo + 1; h <= hi; h++ {
		if err := e.DeltaScan(h, set); err != nil {
			return err
		}
	}
	return nil
}
