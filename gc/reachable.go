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
	"sync"

	"github.com/fantom-foundation/carmen-asgc/go/common"
)

// ReachableSet is the in-memory hash -> node-body mapping populated
// during a scan and consumed during a swap. It is safe for concurrent
// insert-if-absent and membership tests, but ownership only ever passes
// from a single scan-writer to a single swap-reader, so the mutex only
// ever guards against the brief overlap at handoff, not sustained
// contention.
type ReachableSet struct {
	mu    sync.RWMutex
	nodes map[common.Hash][]byte
}

// NewReachableSet returns an empty set.
func NewReachableSet() *ReachableSet {
	return &ReachableSet{nodes: make(map[common.Hash][]byte)}
}

// insertNew inserts (hash, node) if hash is not already present, and
// reports whether the insert happened. This is the primitive both node
// visitors in visitor.go are built on.
func (s *ReachableSet) insertNew(hash common.Hash, node []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nodes[hash]; exists {
		return false
	}
	body := make([]byte, len(node))
	copy(body, node)
	s.nodes[hash] = body
	return true
}

// Contains reports whether hash is present in the set.
func (s *ReachableSet) Contains(hash common.Hash) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.nodes[hash]
	return exists
}

// Size returns the number of entries currently held.
func (s *ReachableSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// ForEach visits every (hash, node) pair. It is used only during swap
// Phase A, after the scan worker has handed ownership of the set to the
// controller, so no lock contention is expected there — the lock is kept
// only so tests may safely inspect the set from outside the controller.
func (s *ReachableSet) ForEach(visit func(hash common.Hash, node []byte)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for hash, node := range s.nodes {
		visit(hash, node)
	}
}
