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

import "testing"

func TestVisitorAdapter_StoreHashAlwaysContinues(t *testing.T) {
	set := NewReachableSet()
	v := NewVisitorAdapter(set).StoreHash()

	h := hashOf(1)
	set.insertNew(h, []byte("already there"))

	if resp := v.Visit(h, []byte("dup")); resp != VisitContinue {
		t.Fatalf("StoreHash must always continue, got %v", resp)
	}
}

func TestVisitorAdapter_StoreUnseenHashStopsOnKnownSubtree(t *testing.T) {
	set := NewReachableSet()
	v := NewVisitorAdapter(set).StoreUnseenHash()

	fresh := hashOf(1)
	if resp := v.Visit(fresh, []byte("x")); resp != VisitContinue {
		t.Fatalf("first visit of a fresh hash must continue, got %v", resp)
	}
	if resp := v.Visit(fresh, []byte("x")); resp != VisitStop {
		t.Fatalf("second visit of the same hash must stop, got %v", resp)
	}
	if set.Size() != 1 {
		t.Fatalf("expected exactly one entry, got %d", set.Size())
	}
}
