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

package logsync_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/erigontech/erigon-logsync/logsync"
	"github.com/erigontech/erigon-logsync/logsync/logsynctest"
)

// testFilter is a minimal logsync.Filter: a plain value type, not a
// mock, since its behavior is pure data rather than a collaborator to
// verify interaction with.
type testFilter struct {
	from, to uint64
	hasFrom  bool
	hasTo    bool
}

func rangeFilter(from, to uint64) testFilter {
	return testFilter{from: from, to: to, hasFrom: true, hasTo: true}
}

func openEndedFilter(from uint64) testFilter {
	return testFilter{from: from, hasFrom: true}
}

func wholeFilter() testFilter {
	return testFilter{}
}

func (f testFilter) FromBlock() (uint64, bool) { return f.from, f.hasFrom }
func (f testFilter) ToBlock() (uint64, bool)   { return f.to, f.hasTo }
func (f testFilter) Paginatable() bool         { return f.hasFrom }
func (f testFilter) WithRange(from, to uint64) logsync.Filter {
	return testFilter{from: from, to: to, hasFrom: true, hasTo: true}
}

func collect(t *testing.T, q *logsync.LogQuery[uint64]) ([]uint64, error) {
	t.Helper()
	var out []uint64
	for {
		item, err := q.Next(context.Background())
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, item)
	}
}

func TestLogQuery_DrainsClosedRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	provider.EXPECT().
		GetLogs(gomock.Any(), rangeFilter(0, 9)).
		Return([]uint64{0, 5, 9}, nil)

	q := logsync.New[uint64](provider, rangeFilter(0, 9), 0, logsync.WithPageSize[uint64](10))
	got, err := collect(t, q)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 5, 9}, got)
}

func TestLogQuery_ResolvesTipForOpenEndedFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	provider.EXPECT().GetBlockNumber(gomock.Any()).Return(uint64(19), nil)
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 19)).Return([]uint64{1, 2}, nil)

	q := logsync.New[uint64](provider, openEndedFilter(0), 0, logsync.WithPageSize[uint64](20))
	got, err := collect(t, q)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, got)
}

func TestLogQuery_PagesAcrossMultipleWindows(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 4)).Return([]uint64{0, 4}, nil)
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(5, 9)).Return([]uint64{7}, nil)
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(10, 10)).Return([]uint64{10}, nil)

	q := logsync.New[uint64](provider, rangeFilter(0, 10), 0, logsync.WithPageSize[uint64](5))
	got, err := collect(t, q)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 4, 7, 10}, got)
}

func TestLogQuery_BacksOffPageSizeOnOverflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	overflow := errors.New("query exceeds the max limit of 500 logs")
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 999)).Return(nil, overflow)
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 499)).Return([]uint64{10, 20}, nil)
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(500, 999)).Return([]uint64{600}, nil)

	q := logsync.New[uint64](provider, rangeFilter(0, 999), 0, logsync.WithPageSize[uint64](1000))
	got, err := collect(t, q)
	require.NoError(t, err)
	require.Equal(t, []uint64{10, 20, 600}, got)
}

func TestLogQuery_RestoresExpectedPageSizeAfterBackoff(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	overflow := errors.New("too large with more than 2 logs")
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 3)).Return(nil, overflow)
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 1)).Return([]uint64{0}, nil)
	// After a successful fetch, page size is restored to the original 4,
	// so the next window is [2, 5]; with the halved size it would be [2, 3].
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(2, 5)).Return([]uint64{2, 5}, nil)

	q := logsync.New[uint64](provider, rangeFilter(0, 5), 0, logsync.WithPageSize[uint64](4))
	got, err := collect(t, q)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2, 5}, got)
}

func TestLogQuery_PageSizeFlooredAtOne(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	overflow := errors.New("exceeds the max limit of 1")
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 1)).Return(nil, overflow)
	// A second overflow at page size 1 must not halve it to 0: the same
	// one-block window is requested again.
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 0)).Return(nil, overflow)
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 0)).Return([]uint64{0}, nil)
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(1, 1)).Return([]uint64{1}, nil)

	q := logsync.New[uint64](provider, rangeFilter(0, 1), 0, logsync.WithPageSize[uint64](2))
	got, err := collect(t, q)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1}, got)
}

func TestLogQuery_NonPaginatableFetchesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	provider.EXPECT().GetLogs(gomock.Any(), wholeFilter()).Return([]uint64{3, 4}, nil)

	q := logsync.New[uint64](provider, wholeFilter(), 0)
	got, err := collect(t, q)
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 4}, got)
}

func TestLogQuery_NonPaginatableOverflowEndsStreamCleanly(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	overflow := errors.New("too large with more than 100000 logs")
	provider.EXPECT().GetLogs(gomock.Any(), wholeFilter()).Return(nil, overflow)

	q := logsync.New[uint64](provider, wholeFilter(), 0)
	got, err := collect(t, q)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLogQuery_TipResolutionFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	boom := errors.New("boom")
	provider.EXPECT().GetBlockNumber(gomock.Any()).Return(uint64(0), boom)

	q := logsync.New[uint64](provider, openEndedFilter(0), 0)
	_, err := q.Next(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, logsync.ErrLoadTip)
	require.ErrorIs(t, err, boom)

	// Terminal state is sticky: a second call returns the same error,
	// no further provider calls are made (ctrl verifies call counts).
	_, err2 := q.Next(context.Background())
	require.ErrorIs(t, err2, logsync.ErrLoadTip)
}

func TestLogQuery_LogFetchFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	boom := errors.New("connection reset")
	provider.EXPECT().GetLogs(gomock.Any(), rangeFilter(0, 9)).Return(nil, boom)

	q := logsync.New[uint64](provider, rangeFilter(0, 9), 0, logsync.WithPageSize[uint64](10))
	_, err := q.Next(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, logsync.ErrLoadLogs)
	require.ErrorIs(t, err, boom)
}

func TestLogQuery_EmptyRangeEndsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)
	// fromBlock (5) > lastBlock (4): no GetLogs call expected at all.

	q := logsync.New[uint64](provider, rangeFilter(5, 4), 0)
	got, err := collect(t, q)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLogQuery_CanceledContextStopsBeforeFirstCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := logsynctest.NewMockLogProvider(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := logsync.New[uint64](provider, rangeFilter(0, 9), 0)
	_, err := q.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
