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
	"testing"

	"github.com/fantom-foundation/carmen-asgc/go/common"
)

func TestReachableSet_InsertNewIsIdempotent(t *testing.T) {
	set := NewReachableSet()
	h := hashOf(1)

	if !set.insertNew(h, []byte("a")) {
		t.Fatalf("first insert should succeed")
	}
	if set.insertNew(h, []byte("b")) {
		t.Fatalf("second insert of the same hash should report false")
	}
	if set.Size() != 1 {
		t.Fatalf("expected size 1, got %d", set.Size())
	}
	if !set.Contains(h) {
		t.Fatalf("expected set to contain %x", h)
	}
}

func TestReachableSet_ForEachVisitsEveryEntry(t *testing.T) {
	set := NewReachableSet()
	set.insertNew(hashOf(1), []byte("a"))
	set.insertNew(hashOf(2), []byte("b"))

	seen := map[byte]bool{}
	set.ForEach(func(h common.Hash, node []byte) {
		seen[h[0]] = true
	})
	if len(seen) != 2 {
		t.Fatalf("expected 2 entries visited, got %d", len(seen))
	}
}
