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
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// state is the controller's tagged-variant state.
type state int

const (
	stateIdle state = iota
	stateScanning
	stateReady
	stateSwapping
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateScanning:
		return "scanning"
	case stateReady:
		return "ready"
	case stateSwapping:
		return "swapping"
	default:
		return "unknown"
	}
}

// QuiesceResult is the reply to a Quiesce call.
type QuiesceResult string

const (
	QuiesceOKRestarting QuiesceResult = "ok-restarting"
	QuiesceNop          QuiesceResult = "nop"
)

// mailbox event variants. The controller processes exactly one of these
// at a time, in arrival order.
type chainSyncedEvent struct{}

type topChangedEvent TopChanged

type scanDoneEvent struct {
	set  *ReachableSet
	base Height
	top  Height
	err  error
}

type quiesceEvent struct {
	reply chan QuiesceResult
}

type stopEvent struct {
	done chan struct{}
}

// probeEvent lets a caller run a function inside the run loop's
// goroutine, the same trick the run loop itself uses to serialize every
// other kind of access to controller state. It exists so tests (and any
// future introspection endpoint, e.g. a status RPC) can read state
// fields without racing the loop.
type probeEvent struct {
	fn func()
}

// Controller is the account-state GC's state machine. It is
// single-threaded cooperative: one goroutine owns Controller.state and
// every other field the state machine touches, driven entirely by
// mailbox events. The only object ever shared with another goroutine is
// the reachable set handed over at scan completion, and only across the
// single ScanDone message.
type Controller struct {
	cfg      Config
	chain    ChainReader
	scan     *ScanEngine
	swap     *SwapExecutor
	conduct  Conductor
	mailbox  chan any
	stopOnce sync.Once

	// state machine fields, touched only from the run loop goroutine.
	st          state
	synced      bool
	baseHeight  Height
	lastHeight  Height
	topHeight   Height
	topType     BlockType
	reachable   *ReachableSet
}

// NewController builds a controller from its collaborators. cfg is
// validated up front so a zero Interval can never reach handleTopChanged's
// modulo check. Callers must call Run in its own goroutine before
// delivering any events.
func NewController(cfg Config, chain ChainReader, swap *SwapExecutor, conduct Conductor) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("gc: invalid config: %w", err)
	}
	return &Controller{
		cfg:     cfg,
		chain:   chain,
		scan:    NewScanEngine(chain),
		swap:    swap,
		conduct: conduct,
		mailbox: make(chan any, 64),
		st:      stateIdle,
	}, nil
}

// Run processes events until Stop is called. It must be started in its
// own goroutine; it is the controller's single mailbox-draining loop.
func (c *Controller) Run() {
	for evt := range c.mailbox {
		switch e := evt.(type) {
		case chainSyncedEvent:
			c.handleChainSynced()
		case topChangedEvent:
			c.handleTopChanged(TopChanged(e))
		case scanDoneEvent:
			c.handleScanDone(e)
		case quiesceEvent:
			e.reply <- c.handleQuiesce()
		case stopEvent:
			close(e.done)
			return
		case probeEvent:
			e.fn()
		}
	}
}

// probe runs fn inside the run loop's goroutine and blocks until it
// returns, giving the caller a data-race-free read of controller state.
func (c *Controller) probe(fn func()) {
	done := make(chan struct{})
	c.mailbox <- probeEvent{fn: func() {
		fn()
		close(done)
	}}
	<-done
}

// ChainSynced delivers a chain_sync_done event to the controller.
func (c *Controller) ChainSynced() {
	c.mailbox <- chainSyncedEvent{}
}

// TopChanged delivers a top_changed event to the controller.
func (c *Controller) TopChanged(t TopChanged) {
	c.mailbox <- topChangedEvent(t)
}

// MaybeGarbageCollect is the quiescence call: a synchronous request that
// either triggers the swap-and-restart sequence or replies nop. It is
// the caller's (the conductor's) responsibility to invoke it only when
// no later-height TopChanged is in flight.
func (c *Controller) MaybeGarbageCollect() QuiesceResult {
	reply := make(chan QuiesceResult, 1)
	c.mailbox <- quiesceEvent{reply: reply}
	return <-reply
}

// MaybeSwapNodes is the startup hook: it must run before the rest of the
// node wires up anything that reads account state. It does not touch the
// running state machine at all — Phase B happens once, at boot, before
// Run is ever driven by chain events.
func (c *Controller) MaybeSwapNodes() error {
	return c.swap.Promote()
}

// Stop tears the controller down. Any in-progress scan worker is not
// cancelled; it simply finds the mailbox closed when it tries to deliver
// ScanDone, and its result is discarded.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		done := make(chan struct{})
		c.mailbox <- stopEvent{done: done}
		<-done
		close(c.mailbox)
	})
}

func (c *Controller) handleChainSynced() {
	if !c.cfg.Enabled {
		return
	}
	c.synced = true
}

func (c *Controller) handleTopChanged(t TopChanged) {
	c.topHeight = t.Height
	c.topType = t.Type

	if !c.cfg.Enabled || !c.synced {
		return
	}

	switch c.st {
	case stateIdle:
		if c.reachable != nil {
			return
		}
		if t.Height%c.cfg.Interval != 0 {
			return
		}
		c.startScan(t.Height)
	case stateReady:
		if t.Type == MicroBlock {
			return
		}
		c.advanceReady(t.Height)
	default:
		// Scanning and Swapping ignore top-changed entirely.
	}
}

// startScan spawns the background full-scan-plus-range-scan worker and
// transitions to Scanning.
func (c *Controller) startScan(top Height) {
	base := Height(0)
	if top > c.cfg.History {
		base = top - c.cfg.History
	}
	c.st = stateScanning
	c.baseHeight = base

	scan := c.scan
	mailbox := c.mailbox
	go func() {
		set, err := scan.FullScan(base)
		if err == nil {
			err = scan.RangeScan(base, top, set)
		}
		if err != nil {
			log.Warn("gc: background scan failed", "base", base, "top", top, "err", err)
			set = nil
		}
		defer func() {
			// The mailbox may already be closed by Stop; recovering here
			// just discards the result of a scan for a torn-down
			// controller instead of panicking the goroutine.
			recover()
		}()
		mailbox <- scanDoneEvent{set: set, base: base, top: top, err: err}
	}()
}

// advanceReady applies the Ready+TopChanged{key,h} transition: a forward
// jump range-scans the gap, anything else (same height repeat, or a
// shallow-or-equal fork re-emit) delta-scans just that height, unioning
// in any newly introduced subtries without ever removing hashes already
// held.
func (c *Controller) advanceReady(h Height) {
	if h > c.lastHeight {
		if err := c.scan.RangeScan(c.lastHeight, h, c.reachable); err != nil {
			log.Warn("gc: range scan failed, will retry on next top_changed", "from", c.lastHeight, "to", h, "err", err)
			return
		}
		c.lastHeight = h
		return
	}
	if err := c.scan.DeltaScan(h, c.reachable); err != nil {
		log.Warn("gc: delta scan failed, will retry on next top_changed", "height", h, "err", err)
		return
	}
	// last_height intentionally left unchanged: h <= last_height here.
}

func (c *Controller) handleScanDone(e scanDoneEvent) {
	if c.st != stateScanning {
		return
	}
	if e.err != nil || e.set == nil {
		c.st = stateIdle
		return
	}
	c.reachable = e.set
	c.lastHeight = e.top
	c.st = stateReady
	log.Info("gc: reachable set is live", "base", e.base, "last_height", e.top, "nodes", e.set.Size())
}

func (c *Controller) handleQuiesce() QuiesceResult {
	if c.st != stateReady {
		return QuiesceNop
	}
	if c.topType != KeyBlock {
		return QuiesceNop
	}

	if err := c.scan.RangeScan(c.lastHeight, c.topHeight, c.reachable); err != nil {
		log.Warn("gc: quiesce range scan failed, staying in ready", "err", err)
		return QuiesceNop
	}
	c.lastHeight = c.topHeight

	if err := c.swap.Stage(c.reachable); err != nil {
		log.Error("gc: stage failed, remaining in ready", "err", err)
		return QuiesceNop
	}

	if err := c.conduct.TerminateConductor(); err != nil {
		log.Error("gc: failed to terminate conductor after staging", "err", err)
		return QuiesceNop
	}
	c.st = stateSwapping
	if err := c.conduct.RestartProcess(); err != nil {
		log.Error("gc: failed to trigger restart after staging", "err", err)
	}
	return QuiesceOKRestarting
}
