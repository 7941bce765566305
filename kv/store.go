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

// Package kv is the seam between txindex and whatever key/value engine a
// node actually runs. It intentionally knows nothing about mdbx, bolt or
// any other storage engine: it only describes the shape of a "config
// store" that supports typed reads and atomic batch commits, the same
// role erigon-lib/kv's Tx/RwTx interfaces play for the rest of the node.
package kv

import "fmt"

// Store is a typed key/value store namespaced by a caller-chosen string
// (the same role a table name plays in erigon-lib/kv.TableCfg).
// GetConfigDecoded decodes the stored value into out, a pointer to a
// uint64.
type Store interface {
	// GetConfigDecoded reads key under namespace and decodes it into out.
	// The boolean result is false iff the key is absent.
	GetConfigDecoded(key string, namespace string, out *uint64) (bool, error)

	// ExecConfigs commits batch atomically under namespace.
	ExecConfigs(batch *Batch, namespace string) error
}

// op is a single batch mutation: either a set (tombstone == false) or a
// delete (tombstone == true).
type op struct {
	key       string
	value     uint64
	tombstone bool
}

// Batch is an append-only list of pending mutations. It mirrors the
// "participate in an outer transaction, or commit your own" pattern
// described for erigon's ConfigTx: a Batch can be built up by several
// collaborators via Append and committed once by whichever one owns the
// surrounding transaction.
type Batch struct {
	ops []op
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Set appends a write of value at key.
func (b *Batch) Set(key string, value uint64) {
	b.ops = append(b.ops, op{key: key, value: value})
}

// Remove appends a tombstone for key.
func (b *Batch) Remove(key string) {
	b.ops = append(b.ops, op{key: key, tombstone: true})
}

// Append merges other's pending mutations onto the end of b, in order.
// other is left with its ops untouched; callers conventionally discard
// other after appending it into the owning batch.
func (b *Batch) Append(other *Batch) {
	if other == nil {
		return
	}
	b.ops = append(b.ops, other.ops...)
}

// Len reports the number of pending mutations.
func (b *Batch) Len() int {
	return len(b.ops)
}

// Ops exposes the pending mutations for a Store implementation to apply.
// Implementations must apply them in order and atomically.
func (b *Batch) Ops() []BatchOp {
	out := make([]BatchOp, len(b.ops))
	for i, o := range b.ops {
		out[i] = BatchOp{Key: o.key, Value: o.value, Tombstone: o.tombstone}
	}
	return out
}

// BatchOp is the externally visible form of a single pending mutation.
type BatchOp struct {
	Key       string
	Value     uint64
	Tombstone bool
}

func (o BatchOp) String() string {
	if o.Tombstone {
		return fmt.Sprintf("del(%s)", o.Key)
	}
	return fmt.Sprintf("set(%s=%d)", o.Key, o.Value)
}
