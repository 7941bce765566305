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

// Package logindex drains a logsync.LogQuery into a compact roaring
// bitmap of the block numbers its records touched, flushing the bitmap
// to a sink once it has grown past a memory budget or gone stale past a
// time budget - the same two-limit buffering policy erigon's log index
// stage applies to its per-topic and per-address bitmaps.
package logindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/c2h5oh/datasize"

	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/erigontech/erigon-logsync/logsync"
)

const (
	defaultBufLimit   = 256 * datasize.MB
	defaultFlushEvery = 10 * time.Second
)

// Sink receives a flushed bitmap. bm is only valid for the duration of
// the call; Sink implementations that need to retain it must clone it
// (bm.Clone()).
type Sink func(bm *roaring.Bitmap) error

// BlockNumberOf extracts the block number a record belongs to.
type BlockNumberOf[L any] func(record L) uint64

// Index accumulates block numbers from a stream of log records into a
// roaring.Bitmap, flushing to a Sink once the bitmap's estimated size
// exceeds a buffer limit or flushEvery has elapsed since the last
// flush - whichever comes first.
type Index[L any] struct {
	blockNumberOf BlockNumberOf[L]
	sink          Sink
	bufLimit      datasize.ByteSize
	flushEvery    time.Duration
	log           log.Logger

	bitmap    *roaring.Bitmap
	lastFlush time.Time
}

// Option configures an Index at construction.
type Option[L any] func(*Index[L])

// WithBufLimit overrides the default 256MB in-memory buffer budget.
func WithBufLimit[L any](limit datasize.ByteSize) Option[L] {
	return func(idx *Index[L]) { idx.bufLimit = limit }
}

// WithFlushEvery overrides the default 10s flush interval.
func WithFlushEvery[L any](d time.Duration) Option[L] {
	return func(idx *Index[L]) { idx.flushEvery = d }
}

// WithLogger overrides the default root logger.
func WithLogger[L any](l log.Logger) Option[L] {
	return func(idx *Index[L]) { idx.log = l }
}

// New builds an Index that extracts block numbers via blockNumberOf and
// flushes accumulated bitmaps to sink.
func New[L any](blockNumberOf BlockNumberOf[L], sink Sink, opts ...Option[L]) *Index[L] {
	idx := &Index[L]{
		blockNumberOf: blockNumberOf,
		sink:          sink,
		bufLimit:      defaultBufLimit,
		flushEvery:    defaultFlushEvery,
		log:           log.Root(),
		bitmap:        roaring.New(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.lastFlush = time.Now()
	return idx
}

// Add records the block number of a single log record, flushing first
// if the buffer has grown past its limit or gone stale past its
// interval.
func (idx *Index[L]) Add(record L) error {
	if idx.shouldFlush() {
		if err := idx.Flush(); err != nil {
			return err
		}
	}
	idx.bitmap.Add(uint32(idx.blockNumberOf(record)))
	return nil
}

func (idx *Index[L]) shouldFlush() bool {
	if idx.bitmap.IsEmpty() {
		return false
	}
	if datasize.ByteSize(idx.bitmap.GetSizeInBytes()) >= idx.bufLimit {
		return true
	}
	return time.Since(idx.lastFlush) >= idx.flushEvery
}

// Flush hands the accumulated bitmap to the sink and resets it. A no-op
// on an empty bitmap.
func (idx *Index[L]) Flush() error {
	if idx.bitmap.IsEmpty() {
		idx.lastFlush = time.Now()
		return nil
	}
	idx.log.Debug("logindex: flushing bitmap", "blocks", idx.bitmap.GetCardinality(), "bytes", idx.bitmap.GetSizeInBytes())
	if err := idx.sink(idx.bitmap); err != nil {
		return fmt.Errorf("logindex: sink: %w", err)
	}
	idx.bitmap = roaring.New()
	idx.lastFlush = time.Now()
	return nil
}

// Drain pulls every record out of q, feeding each into Add, until q is
// exhausted or returns a fatal error. The final partial bitmap is
// flushed before returning, even on error, so a caller always sees
// everything Add accepted.
func Drain[L any](ctx context.Context, q *logsync.LogQuery[L], idx *Index[L]) error {
	for {
		record, err := q.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return idx.Flush()
			}
			if flushErr := idx.Flush(); flushErr != nil {
				return fmt.Errorf("logindex: drain: %w (flush also failed: %v)", err, flushErr)
			}
			return err
		}
		if err := idx.Add(record); err != nil {
			return err
		}
	}
}
