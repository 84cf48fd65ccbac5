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

import "sync"

// EventAdapter subscribes to the node's event bus on init and forwards
// chain-synced and top-changed notifications into the controller's
// mailbox. It unsubscribes from the sync stream after the first
// ChainSynced, since the node only ever finishes its initial sync once.
type EventAdapter struct {
	controller *Controller
	bus        EventBus

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewEventAdapter wires controller up to bus and starts forwarding
// events immediately.
func NewEventAdapter(controller *Controller, bus EventBus) *EventAdapter {
	a := &EventAdapter{
		controller: controller,
		bus:        bus,
		stopCh:     make(chan struct{}),
	}
	a.wg.Add(2)
	go a.forwardChainSynced()
	go a.forwardTopChanged()
	return a
}

func (a *EventAdapter) forwardChainSynced() {
	defer a.wg.Done()
	ch, unsubscribe := a.bus.SubscribeChainSynced()
	defer unsubscribe()
	select {
	case _, ok := <-ch:
		if ok {
			a.controller.ChainSynced()
		}
	case <-a.stopCh:
	}
}

func (a *EventAdapter) forwardTopChanged() {
	defer a.wg.Done()
	ch, unsubscribe := a.bus.SubscribeTopChanged()
	defer unsubscribe()
	for {
		select {
		case t, ok := <-ch:
			if !ok {
				return
			}
			a.controller.TopChanged(t)
		case <-a.stopCh:
			return
		}
	}
}

// Stop releases both subscriptions. It does not stop the controller
// itself; callers own the controller's lifecycle separately.
func (a *EventAdapter) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
	a.wg.Wait()
}
