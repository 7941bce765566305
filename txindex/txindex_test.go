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

package txindex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/erigon-logsync/kv"
	"github.com/erigontech/erigon-logsync/txindex"
)

func TestTxIndex_AddCountHas(t *testing.T) {
	store := kv.NewMemStore()
	idx := txindex.New("t")

	count, err := idx.Count(store)
	require.NoError(t, err)
	require.Zero(t, count)

	added, err := idx.Add(store, nil, 100)
	require.NoError(t, err)
	require.True(t, added)

	added, err = idx.Add(store, nil, 200)
	require.NoError(t, err)
	require.True(t, added)

	count, err = idx.Count(store)
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)

	has, err := idx.Has(store, 100)
	require.NoError(t, err)
	require.True(t, has)

	has, err = idx.Has(store, 999)
	require.NoError(t, err)
	require.False(t, has)
}

func TestTxIndex_AddIsIdempotent(t *testing.T) {
	store := kv.NewMemStore()
	idx := txindex.New("t")

	added, err := idx.Add(store, nil, 7)
	require.NoError(t, err)
	require.True(t, added)

	added, err = idx.Add(store, nil, 7)
	require.NoError(t, err)
	require.False(t, added)

	count, err := idx.Count(store)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestTxIndex_RemoveTail(t *testing.T) {
	store := kv.NewMemStore()
	idx := txindex.New("t")

	for _, seq := range []uint64{1, 2, 3} {
		_, err := idx.Add(store, nil, seq)
		require.NoError(t, err)
	}

	removed, err := idx.Remove(store, nil, 3)
	require.NoError(t, err)
	require.True(t, removed)

	count, err := idx.Count(store)
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)

	has, err := idx.Has(store, 1)
	require.NoError(t, err)
	require.True(t, has)
	has, err = idx.Has(store, 2)
	require.NoError(t, err)
	require.True(t, has)
	has, err = idx.Has(store, 3)
	require.NoError(t, err)
	require.False(t, has)
}

func TestTxIndex_RemoveMiddleSwapsLastIntoSlot(t *testing.T) {
	store := kv.NewMemStore()
	idx := txindex.New("t")

	for _, seq := range []uint64{1, 2, 3} {
		_, err := idx.Add(store, nil, seq)
		require.NoError(t, err)
	}

	removed, err := idx.Remove(store, nil, 2)
	require.NoError(t, err)
	require.True(t, removed)

	count, err := idx.Count(store)
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)

	has, err := idx.Has(store, 1)
	require.NoError(t, err)
	require.True(t, has)
	has, err = idx.Has(store, 2)
	require.NoError(t, err)
	require.False(t, has)
	has, err = idx.Has(store, 3)
	require.NoError(t, err)
	require.True(t, has)

	// 3 was swapped into the middle slot 2 vacated; every remaining member
	// must still be reachable via Random, so exercise it many times.
	seen := map[uint64]bool{}
	for i := 0; i < 50; i++ {
		seq, ok, err := idx.Random(store)
		require.NoError(t, err)
		require.True(t, ok)
		seen[seq] = true
	}
	require.Equal(t, map[uint64]bool{1: true, 3: true}, seen)
}

func TestTxIndex_RemoveAbsentIsNoop(t *testing.T) {
	store := kv.NewMemStore()
	idx := txindex.New("t")

	_, err := idx.Add(store, nil, 1)
	require.NoError(t, err)

	removed, err := idx.Remove(store, nil, 404)
	require.NoError(t, err)
	require.False(t, removed)

	count, err := idx.Count(store)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestTxIndex_RandomOnEmptyIndex(t *testing.T) {
	store := kv.NewMemStore()
	idx := txindex.New("t")

	_, ok, err := idx.Random(store)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTxIndex_BatchDeferredUntilCommitted(t *testing.T) {
	store := kv.NewMemStore()
	idx := txindex.New("t")

	batch := kv.NewBatch()
	_, err := idx.Add(store, batch, 1)
	require.NoError(t, err)

	// Nothing committed yet: the store must still see zero members.
	count, err := idx.Count(store)
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, store.ExecConfigs(batch, txindex.Namespace))

	count, err = idx.Count(store)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestTxIndex_NamesAreIsolated(t *testing.T) {
	store := kv.NewMemStore()
	a := txindex.New("a")
	b := txindex.New("b")

	_, err := a.Add(store, nil, 1)
	require.NoError(t, err)

	has, err := b.Has(store, 1)
	require.NoError(t, err)
	require.False(t, has)

	countA, err := a.Count(store)
	require.NoError(t, err)
	require.Equal(t, uint64(1), countA)

	countB, err := b.Count(store)
	require.NoError(t, err)
	require.Zero(t, countB)
}
