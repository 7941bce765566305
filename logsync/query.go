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

package logsync

import (
	"context"
	"fmt"
	"io"
	"time"

	log "github.com/erigontech/erigon-lib/log/v3"
)

const defaultPageSize = 10_000

// state is the LogQuery state machine's tag. The transitions between
// these are total and finite; see the design notes for the full table.
type state int

const (
	stateInit state = iota
	stateResolvingTip
	stateDraining
	stateTerminal
)

// LogQuery is a lazy, pull-driven, single-consumer sequence of log
// records over a block range. Nothing happens until Next is called: each
// call either returns the next buffered record, or drives exactly one
// RPC call (paced by delay) and loops. LogQuery is not safe for
// concurrent use by multiple goroutines and carries no internal mutex -
// it assumes a single consumer, matching the "pull model, no fan-out"
// contract in the design notes.
type LogQuery[L any] struct {
	provider LogProvider[L]
	filter   Filter
	pacer    *pacer
	log      log.Logger

	expectedPageSize uint64
	pageSize         uint64

	fromBlock uint64
	lastBlock uint64

	currentPage []L

	state       state
	terminalErr error // nil in stateTerminal means clean end-of-sequence
}

// Option configures a LogQuery at construction.
type Option[L any] func(*LogQuery[L])

// WithPageSize sets both the expected and the initial page size (the
// window width in blocks requested per RPC call). Default is 10,000.
func WithPageSize[L any](pageSize uint64) Option[L] {
	return func(q *LogQuery[L]) {
		if pageSize == 0 {
			pageSize = 1
		}
		q.expectedPageSize = pageSize
		q.pageSize = pageSize
	}
}

// WithLogger overrides the default root logger.
func WithLogger[L any](l log.Logger) Option[L] {
	return func(q *LogQuery[L]) { q.log = l }
}

// New constructs a LogQuery against provider for filter, pacing every
// RPC call by delay (which may be zero).
func New[L any](provider LogProvider[L], filter Filter, delay time.Duration, opts ...Option[L]) *LogQuery[L] {
	q := &LogQuery[L]{
		provider:         provider,
		filter:           filter,
		pacer:            newPacer(delay),
		log:              log.Root(),
		expectedPageSize: defaultPageSize,
		pageSize:         defaultPageSize,
		state:            stateInit,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Next returns the next log record, or io.EOF once the range (or the
// single non-paginatable fetch) is exhausted. If ctx is already done
// before the query has started, ctx's error is returned and the query
// stays unstarted. Any other error is fatal: it wraps ErrLoadTip or
// ErrLoadLogs, or is ctx's own error when ctx ends during a pacing wait,
// and no further call to Next will ever again produce a log record.
//
// This is the idiomatic-Go rendering of the "poll next log record"
// operation from the design: rather than a cooperative future with an
// external waker, Next loops internally over the same state transitions
// and blocks synchronously on whichever RPC or pacing wait the current
// state requires.
func (q *LogQuery[L]) Next(ctx context.Context) (L, error) {
	var zero L

	for {
		switch q.state {
		case stateTerminal:
			if q.terminalErr != nil {
				return zero, q.terminalErr
			}
			return zero, io.EOF

		case stateInit:
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			q.enterInit(ctx)

		case stateResolvingTip:
			if err := q.resolveTip(ctx); err != nil {
				q.fail(err)
				continue
			}

		case stateDraining:
			if len(q.currentPage) > 0 {
				item := q.currentPage[0]
				q.currentPage = q.currentPage[1:]
				return item, nil
			}

			if !q.filter.Paginatable() {
				q.state = stateTerminal
				continue
			}
			if q.fromBlock > q.lastBlock {
				q.state = stateTerminal
				continue
			}
			if err := q.fetchPage(ctx); err != nil {
				q.fail(err)
			}
		}
	}
}

// enterInit handles the Init state's two transitions: a non-paginatable
// filter is fetched whole in one page; a paginatable one first needs its
// upper bound resolved (either explicit, or the chain tip).
func (q *LogQuery[L]) enterInit(ctx context.Context) {
	if !q.filter.Paginatable() {
		if err := q.pacer.wait(ctx); err != nil {
			q.fail(err)
			return
		}
		logs, err := q.provider.GetLogs(ctx, q.filter)
		if err != nil {
			if isOverflow(err) {
				// There is no narrower window to retry with on a
				// non-paginatable filter, so this mirrors the design's
				// FetchingPage->Draining(empty) transition: the error is
				// swallowed, and Draining immediately ends the stream
				// because the filter isn't paginatable.
				q.currentPage = nil
				q.state = stateDraining
				q.log.Debug("logsync: non-paginatable fetch reported overflow, ending stream")
				return
			}
			q.fail(fmt.Errorf("%w: %w", ErrLoadLogs, err))
			return
		}
		q.currentPage = logs
		q.state = stateDraining
		return
	}

	from, ok := q.filter.FromBlock()
	if !ok {
		// Paginatable() implies FromBlock is set; defend against a
		// misbehaving Filter implementation rather than panic.
		q.fail(fmt.Errorf("%w: paginatable filter has no from-block", ErrLoadLogs))
		return
	}
	q.fromBlock = from

	if to, ok := q.filter.ToBlock(); ok {
		q.lastBlock = to
		q.state = stateDraining
		return
	}

	q.state = stateResolvingTip
}

func (q *LogQuery[L]) resolveTip(ctx context.Context) error {
	if err := q.pacer.wait(ctx); err != nil {
		return err
	}
	tip, err := q.provider.GetBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadTip, err)
	}
	q.lastBlock = tip
	q.state = stateDraining
	return nil
}

// fetchPage requests exactly one page per the pagination algorithm:
// narrow the filter to [from, min(from+page_size-1, tip)], advance the
// cursor before awaiting the RPC, and on success restore page_size to
// expected_page_size. On an overflow-classified error, rewind the cursor
// and halve page_size (floored at 1) rather than surfacing an error.
func (q *LogQuery[L]) fetchPage(ctx context.Context) error {
	from := q.fromBlock
	to := from + q.pageSize - 1
	if to > q.lastBlock || to < from /* overflow of from+pageSize-1 */ {
		to = q.lastBlock
	}

	subFilter := q.filter.WithRange(from, to)

	q.fromBlock = to + 1

	if err := q.pacer.wait(ctx); err != nil {
		return err
	}

	logs, err := q.provider.GetLogs(ctx, subFilter)
	if err != nil {
		if isOverflow(err) {
			q.fromBlock = from
			if q.pageSize > 1 {
				q.pageSize /= 2
			}
			q.currentPage = nil
			q.state = stateDraining
			q.log.Debug("logsync: page too large, halving page size", "from", from, "to", to, "newPageSize", q.pageSize)
			return nil
		}
		return fmt.Errorf("%w: %w", ErrLoadLogs, err)
	}

	q.currentPage = logs
	q.pageSize = q.expectedPageSize
	q.state = stateDraining
	return nil
}

func (q *LogQuery[L]) fail(err error) {
	q.terminalErr = err
	q.state = stateTerminal
}
