// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package txindex maintains an enumerable, durable set of uint64
// sequence numbers on top of an opaque kv.Store: every member is
// additionally assigned a dense slot in [0, count), which is what makes
// O(1) uniform random sampling and O(1) swap-remove possible.
package txindex

import (
	"errors"
	"fmt"
	"math/rand"

	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/erigontech/erigon-logsync/kv"
)

// Namespace is the kv.Store namespace txindex stores all of its records
// under, mirroring the DATA_DB_KEY sentinel the original store used for
// every config record.
const Namespace = "config"

// ErrCorruption is returned when an operation observes the seq2index /
// index2seq bijection violated (e.g. seq2index says seq is at slot i but
// index2seq[i] is absent). TxIndex never attempts to silently repair
// this: a loud failure here lets the caller surface the fault instead of
// quietly losing data.
var ErrCorruption = errors.New("txindex: data corruption")

// TxIndex is an enumerable set of uint64 sequence numbers, persisted as
// three keyed records per spec: a cardinality, and the two halves of the
// seq<->slot bijection. A TxIndex value carries no state of its own
// beyond its name and logger and is safe to copy or share across goroutines that
// externally serialize their access to the underlying store (see
// CachedTxIndex for a serialized wrapper).
type TxIndex struct {
	name string
	log  log.Logger
}

// Option configures a TxIndex at construction.
type Option func(*TxIndex)

// WithLogger overrides the default root logger.
func WithLogger(l log.Logger) Option {
	return func(t *TxIndex) { t.log = l }
}

// New names a TxIndex. Naming does not touch the store: the index comes
// into existence the first time a key under its namespace is written.
func New(name string, opts ...Option) *TxIndex {
	t := &TxIndex{name: name, log: log.Root()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TxIndex) keyCount() string {
	return fmt.Sprintf("txs.%s.count", t.name)
}

func (t *TxIndex) keySeqToIndex(seq uint64) string {
	return fmt.Sprintf("txs.%s.seq2index.%d", t.name, seq)
}

func (t *TxIndex) keyIndexToSeq(slot uint64) string {
	return fmt.Sprintf("txs.%s.index2seq.%d", t.name, slot)
}

// indexOf returns the slot of seq, if present.
func (t *TxIndex) indexOf(store kv.Store, seq uint64) (uint64, bool, error) {
	var slot uint64
	ok, err := store.GetConfigDecoded(t.keySeqToIndex(seq), Namespace, &slot)
	if err != nil {
		return 0, false, err
	}
	return slot, ok, nil
}

// at returns the sequence number at slot, if present.
func (t *TxIndex) at(store kv.Store, slot uint64) (uint64, bool, error) {
	var seq uint64
	ok, err := store.GetConfigDecoded(t.keyIndexToSeq(slot), Namespace, &seq)
	if err != nil {
		return 0, false, err
	}
	return seq, ok, nil
}

// Count returns the current cardinality. Absent is treated as zero.
func (t *TxIndex) Count(store kv.Store) (uint64, error) {
	var count uint64
	_, err := store.GetConfigDecoded(t.keyCount(), Namespace, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Has reports whether seq is a member.
func (t *TxIndex) Has(store kv.Store, seq uint64) (bool, error) {
	_, ok, err := t.indexOf(store, seq)
	return ok, err
}

// Add inserts seq. If batch is non-nil, the writes are appended to it
// and left uncommitted; the caller commits the enclosing batch. If
// batch is nil, a fresh batch is committed immediately. Returns true iff
// seq was newly inserted.
func (t *TxIndex) Add(store kv.Store, batch *kv.Batch, seq uint64) (bool, error) {
	has, err := t.Has(store, seq)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}

	count, err := t.Count(store)
	if err != nil {
		return false, err
	}

	b := kv.NewBatch()
	b.Set(t.keyIndexToSeq(count), seq)
	b.Set(t.keySeqToIndex(seq), count)
	b.Set(t.keyCount(), count+1)

	if batch != nil {
		batch.Append(b)
	} else if err := store.ExecConfigs(b, Namespace); err != nil {
		return false, err
	}

	t.log.Trace("txindex: add", "name", t.name, "seq", seq, "slot", count)
	return true, nil
}

// Remove deletes seq via swap-pop: the element at the final slot takes
// the removed slot's place so that slots remain a dense prefix
// [0, count). Element order is not stable across removals. Returns true
// iff seq was previously present.
func (t *TxIndex) Remove(store kv.Store, batch *kv.Batch, seq uint64) (bool, error) {
	slot, ok, err := t.indexOf(store, seq)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	count, err := t.Count(store)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, fmt.Errorf("%w: seq %d has a slot but count is 0", ErrCorruption, seq)
	}

	b := kv.NewBatch()
	b.Set(t.keyCount(), count-1)
	b.Remove(t.keySeqToIndex(seq))

	if slot == count-1 {
		b.Remove(t.keyIndexToSeq(slot))
	} else {
		last, ok, err := t.at(store, count-1)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("%w: slot %d missing at count %d", ErrCorruption, count-1, count)
		}

		b.Set(t.keyIndexToSeq(slot), last)
		b.Remove(t.keyIndexToSeq(count-1))
		b.Set(t.keySeqToIndex(last), slot)
	}

	if batch != nil {
		batch.Append(b)
	} else if err := store.ExecConfigs(b, Namespace); err != nil {
		return false, err
	}

	t.log.Trace("txindex: remove", "name", t.name, "seq", seq, "slot", slot)
	return true, nil
}

// Random draws a uniformly distributed member, or false if the index is
// empty.
func (t *TxIndex) Random(store kv.Store) (uint64, bool, error) {
	count, err := t.Count(store)
	if err != nil {
		return 0, false, err
	}
	if count == 0 {
		return 0, false, nil
	}

	slot := uint64(rand.Int63n(int64(count)))
	seq, ok, err := t.at(store, slot)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, fmt.Errorf("%w: slot %d missing at count %d", ErrCorruption, slot, count)
	}
	return seq, true, nil
}
