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

// Height is a block height. It is monotone along the main chain but may
// step sideways or down across a short fork.
type Height = uint64

// BlockType distinguishes a key block, which advances consensus height
// and may move the account trie root, from a micro block, which does
// not.
type BlockType int

const (
	KeyBlock BlockType = iota
	MicroBlock
)

// Trees is an opaque handle to a block's world state, returned by
// ChainReader.BlockState and consumed by ChainReader.AccountsTrie. The GC
// never looks inside it; the chain store is treated as an out-of-scope
// collaborator.
type Trees interface{}

// ChainReader resolves heights to trie roots.
type ChainReader interface {
	// KeyBlockHashAt resolves a height to its canonical key-block hash.
	KeyBlockHashAt(height Height) (common.Hash, error)
	// BlockState fetches the world state committed at the given block.
	BlockState(block common.Hash) (Trees, error)
	// AccountsTrie extracts the account MPT root hash and a traversal
	// handle from a block's world state.
	AccountsTrie(trees Trees) (root common.Hash, trie Trie, err error)
}

// TopChanged carries the payload of a top-changed event.
type TopChanged struct {
	Type   BlockType
	Height Height
}

// EventBus is the external-event source the adapter subscribes to.
type EventBus interface {
	// SubscribeChainSynced returns a channel that receives one value
	// when the initial chain sync completes, and an unsubscribe
	// function releasing the subscription.
	SubscribeChainSynced() (ch <-chan struct{}, unsubscribe func())
	// SubscribeTopChanged returns a channel that receives every
	// top_changed event, and an unsubscribe function.
	SubscribeTopChanged() (ch <-chan TopChanged, unsubscribe func())
}

// Conductor is the node's cooperative-shutdown interface.
type Conductor interface {
	TerminateConductor() error
	RestartProcess() error
}
