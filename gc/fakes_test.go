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

	"github.com/fantom-foundation/carmen-asgc/go/common"
)

// fakeTrie is an in-memory MPT: a hash maps to a body and a list of
// child hashes. VisitReachable walks it exactly like the real MPT would.
type fakeTrie struct {
	nodes map[common.Hash]fakeNode
}

type fakeNode struct {
	body     []byte
	children []common.Hash
}

func newFakeTrie() *fakeTrie {
	return &fakeTrie{nodes: make(map[common.Hash]fakeNode)}
}

func (t *fakeTrie) add(hash common.Hash, body []byte, children ...common.Hash) {
	t.nodes[hash] = fakeNode{body: body, children: children}
}

func (t *fakeTrie) VisitReachable(root common.Hash, visitor NodeVisitor) error {
	node, ok := t.nodes[root]
	if !ok {
		return fmt.Errorf("no such node: %x", root)
	}
	if visitor.Visit(root, node.body) == VisitStop {
		return nil
	}
	for _, child := range node.children {
		if err := t.VisitReachable(child, visitor); err != nil {
			return err
		}
	}
	return nil
}

// fakeChain maps heights to key-block hashes and hashes to fakeTries,
// implementing ChainReader for tests. A height with no registered root
// simulates a height whose trie root is unavailable.
type fakeChain struct {
	mu    sync.Mutex
	roots map[Height]common.Hash
	tries map[common.Hash]*fakeTrie
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		roots: make(map[Height]common.Hash),
		tries: make(map[common.Hash]*fakeTrie),
	}
}

// setRoot registers the trie root to be returned for height.
func (c *fakeChain) setRoot(height Height, root common.Hash, trie *fakeTrie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roots[height] = root
	c.tries[root] = trie
}

func (c *fakeChain) KeyBlockHashAt(height Height) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	root, ok := c.roots[height]
	if !ok {
		return common.Hash{}, fmt.Errorf("no block at height %d", height)
	}
	return root, nil
}

func (c *fakeChain) BlockState(block common.Hash) (Trees, error) {
	return block, nil
}

func (c *fakeChain) AccountsTrie(trees Trees) (common.Hash, Trie, error) {
	root := trees.(common.Hash)
	c.mu.Lock()
	defer c.mu.Unlock()
	trie, ok := c.tries[root]
	if !ok {
		return common.Hash{}, nil, fmt.Errorf("no trie for root %x", root)
	}
	return root, trie, nil
}

// fakeConductor records the calls the controller makes on quiesce.
type fakeConductor struct {
	mu          sync.Mutex
	terminated  bool
	restarted   bool
	terminateErr error
	restartErr   error
}

func (c *fakeConductor) TerminateConductor() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terminated = true
	return c.terminateErr
}

func (c *fakeConductor) RestartProcess() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restarted = true
	return c.restartErr
}

func hashOf(b byte) common.Hash {
	var h common.Hash
	h[0] = b
	return h
}
