// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package storage provides the key/value backend the account-state garbage
// collector uses to stage a pruned node set and promote it into the live
// account-state table. Tables are namespaces within a single goleveldb
// database, keyed by an arbitrary string prefix so a staging table and a
// live table can coexist without colliding.
package storage

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/exp/slices"
)

var syncWrite = &opt.WriteOptions{Sync: true}

// Backend is a single goleveldb database shared by every table the node
// keeps. Table handles are obtained from a Backend with Table; clearing,
// dropping, and the per-table write/iterate operations are methods of
// Table.
type Backend struct {
	db *leveldb.DB
}

// OpenBackend opens (or creates) the goleveldb database at dir.
func OpenBackend(dir string) (*Backend, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &Backend{db: db}, nil
}

// Close releases the underlying database handle.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Table returns a handle to the named table space. Obtaining the handle
// is a no-op beyond that: tables are namespaces, not separate files, so
// there is no schema to allocate up front, and the backend never
// interprets the node bodies stored under it.
func (b *Backend) Table(name string) *Table {
	return &Table{db: b.db, prefix: append([]byte(name), ':')}
}

// Table is a namespaced view over a Backend's shared goleveldb database.
type Table struct {
	db     *leveldb.DB
	prefix []byte
}

func (t *Table) key(hash [32]byte) []byte {
	k := make([]byte, 0, len(t.prefix)+len(hash))
	k = append(k, t.prefix...)
	k = append(k, hash[:]...)
	return k
}

func (t *Table) keyRange() *util.Range {
	return util.BytesPrefix(t.prefix)
}

// IsEmpty reports whether the table holds no rows.
func (t *Table) IsEmpty() (bool, error) {
	iter := t.db.NewIterator(t.keyRange(), nil)
	defer iter.Release()
	has := iter.Next()
	return !has, iter.Error()
}

// FirstKey returns the hash of the first row in the table, if any.
func (t *Table) FirstKey() (hash [32]byte, ok bool, err error) {
	iter := t.db.NewIterator(t.keyRange(), nil)
	defer iter.Release()
	if !iter.Next() {
		return hash, false, iter.Error()
	}
	copy(hash[:], iter.Key()[len(t.prefix):])
	return hash, true, iter.Error()
}

// ForEach visits every (hash, node) row currently in the table.
func (t *Table) ForEach(visit func(hash [32]byte, node []byte) error) error {
	iter := t.db.NewIterator(t.keyRange(), nil)
	defer iter.Release()
	for iter.Next() {
		var hash [32]byte
		copy(hash[:], iter.Key()[len(t.prefix):])
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		if err := visit(hash, value); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Clear deletes every row of the table in a single durable transaction.
// It is used both to drop the contents of a stale staging table and, as
// the first half of Phase B's clear-and-refill, to empty the live table.
func (t *Table) Clear() error {
	tr, err := t.db.OpenTransaction()
	if err != nil {
		return err
	}
	if err := clearInTransaction(tr, t.prefix); err != nil {
		tr.Discard()
		return err
	}
	return tr.Commit()
}

func clearInTransaction(tr *leveldb.Transaction, prefix []byte) error {
	iter := tr.NewIterator(util.BytesPrefix(prefix), nil)
	keys := [][]byte{}
	for iter.Next() {
		k := make([]byte, len(iter.Key()))
		copy(k, iter.Key())
		keys = append(keys, k)
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return err
	}
	// Deleting in sorted order keeps the batch's key order matching the
	// table's on-disk order, which is friendlier to goleveldb's
	// compaction than an arbitrary iteration order would be.
	slices.SortFunc(keys, func(a, b []byte) int { return bytes.Compare(a, b) })
	batch := new(leveldb.Batch)
	for _, k := range keys {
		batch.Delete(k)
	}
	return tr.Write(batch, syncWrite)
}

// WriteAll writes every row produced by rows into the table inside a
// single synchronous, durable transaction. It is the mechanism behind
// swap Phase A: either every (hash, node) pair lands durably, or none
// does and the table is left exactly as it was found.
func (t *Table) WriteAll(rows func(yield func(hash [32]byte, node []byte) bool)) error {
	tr, err := t.db.OpenTransaction()
	if err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	rows(func(hash [32]byte, node []byte) bool {
		batch.Put(t.key(hash), node)
		return true
	})
	if err := tr.Write(batch, syncWrite); err != nil {
		tr.Discard()
		return err
	}
	return tr.Commit()
}

// Promote implements swap Phase B: in one synchronous transaction, every
// row of live is deleted and every row of staging is copied into live.
// staging is left untouched by Promote; the caller drops it only after
// Promote returns successfully, so a crash between the two steps can
// simply re-run Promote on the next boot.
func (b *Backend) Promote(staging, live *Table) error {
	tr, err := b.db.OpenTransaction()
	if err != nil {
		return err
	}
	if err := clearInTransaction(tr, live.prefix); err != nil {
		tr.Discard()
		return err
	}

	iter := tr.NewIterator(util.BytesPrefix(staging.prefix), nil)
	batch := new(leveldb.Batch)
	for iter.Next() {
		key := append([]byte{}, live.prefix...)
		key = append(key, iter.Key()[len(staging.prefix):]...)
		value := append([]byte{}, iter.Value()...)
		batch.Put(key, value)
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		tr.Discard()
		return err
	}
	if err := tr.Write(batch, syncWrite); err != nil {
		tr.Discard()
		return err
	}
	return tr.Commit()
}

// Drop removes every row of the table, releasing the disk space it held.
// It is the last step of Phase B, run only after Promote has committed.
func (t *Table) Drop() error {
	return t.Clear()
}
