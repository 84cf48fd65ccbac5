// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package gc implements the account-state garbage collector: a state
// machine that decides when to collect, runs a background reachability
// scan across a sliding window of trie roots, maintains that reachable
// set incrementally as new blocks arrive, and swaps the pruned set back
// into the live account-state table across a controlled restart.
package gc
