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

import "github.com/ethereum/go-ethereum/event"

// FeedBus is a production EventBus backed by go-ethereum's typed
// pub/sub feeds. The node process holds a *FeedBus and calls
// PublishChainSynced / PublishTopChanged as it observes those
// conditions; the EventAdapter subscribes to the same instance.
type FeedBus struct {
	synced event.FeedOf[struct{}]
	top    event.FeedOf[TopChanged]
}

// NewFeedBus returns a ready-to-use bus. The zero value would also work
// since FeedOf's zero value is ready to use, but the constructor keeps
// the same shape as the rest of this package's collaborators.
func NewFeedBus() *FeedBus {
	return &FeedBus{}
}

func (b *FeedBus) SubscribeChainSynced() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	sub := b.synced.Subscribe(ch)
	return ch, sub.Unsubscribe
}

func (b *FeedBus) SubscribeTopChanged() (<-chan TopChanged, func()) {
	ch := make(chan TopChanged, 16)
	sub := b.top.Subscribe(ch)
	return ch, sub.Unsubscribe
}

// PublishChainSynced notifies every current subscriber that the initial
// chain sync has completed.
func (b *FeedBus) PublishChainSynced() {
	b.synced.Send(struct{}{})
}

// PublishTopChanged notifies every current subscriber of a new chain
// top.
func (b *FeedBus) PublishTopChanged(t TopChanged) {
	b.top.Send(t)
}
