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

import "github.com/fantom-foundation/carmen-asgc/go/common"

// VisitResponse tells the trie which way to continue a reachability
// traversal. Unlike a general tree visitor, this one never needs a
// "prune" response distinct from "stop" — it only ever needs to keep
// going or stop descending into a subtree whose root is already known to
// be reachable.
type VisitResponse int

const (
	// VisitContinue keeps the traversal going into the visited node's
	// children.
	VisitContinue VisitResponse = iota
	// VisitStop skips the subtree rooted at the visited node.
	VisitStop
)

// NodeVisitor is the callback contract the external MPT honors: given a
// root, the MPT walks every reachable node exactly once and calls Visit
// with its hash and serialized body.
type NodeVisitor interface {
	Visit(hash common.Hash, node []byte) VisitResponse
}

// Trie is the external MPT's reachability-traversal entry point. A
// production implementation walks the account MPT rooted at root; this
// package depends only on the interface and treats the MPT as an
// out-of-scope collaborator.
type Trie interface {
	VisitReachable(root common.Hash, visitor NodeVisitor) error
}

// VisitorAdapter builds the two node visitors the scan engine needs:
// StoreHash for full scans, unconditionally inserting every visited
// node, and StoreUnseenHash for delta scans, which stops descending into
// any subtree whose root hash is already present.
type VisitorAdapter struct {
	set *ReachableSet
}

// NewVisitorAdapter builds an adapter that inserts into set.
func NewVisitorAdapter(set *ReachableSet) *VisitorAdapter {
	return &VisitorAdapter{set: set}
}

// StoreHash unconditionally inserts every visited node and keeps going.
// It is used by the full scan, whose cost is O(|trie|) by construction.
func (a *VisitorAdapter) StoreHash() NodeVisitor {
	return storeHashVisitor{set: a.set}
}

// StoreUnseenHash inserts nodes not yet present and stops descending into
// subtrees whose root is already present, making delta-scan cost
// proportional to the symmetric difference between consecutive tries.
func (a *VisitorAdapter) StoreUnseenHash() NodeVisitor {
	return storeUnseenHashVisitor{set: a.set}
}

type storeHashVisitor struct {
	set *ReachableSet
}

func (v storeHashVisitor) Visit(hash common.Hash, node []byte) VisitResponse {
	v.set.insertNew(hash, node)
	return VisitContinue
}

type storeUnseenHashVisitor struct {
	set *ReachableSet
}

func (v storeUnseenHashVisitor) Visit(hash common.Hash, node []byte) VisitResponse {
	if !v.set.insertNew(hash, node) {
		return VisitStop
	}
	return VisitContinue
}
