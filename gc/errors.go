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

// ErrTrieUnavailable is returned when a requested height's trie root or
// state cannot be resolved, e.g. because the chain store raced with a
// reorg.
const ErrTrieUnavailable = common.ConstError("gc: trie unavailable for requested height")

// ErrStageFailed is returned when the Phase A staging transaction aborts.
const ErrStageFailed = common.ConstError("gc: failed to stage reachable set")

// ErrPromoteFailed is returned when the Phase B promote transaction
// aborts. It is always fatal to the caller: the node must not proceed
// with a possibly half-swapped account table.
const ErrPromoteFailed = common.ConstError("gc: failed to promote staged nodes")

// ErrUnexpectedQuiesce names the case of Quiesce arriving in a state that
// cannot honor it. The controller does not return it: MaybeGarbageCollect
// reports that case as a QuiesceNop reply and leaves its state unchanged.
const ErrUnexpectedQuiesce = common.ConstError("gc: quiesce called outside of a quiescible state")
