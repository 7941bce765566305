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

// Package ethfilter adapts go-ethereum's ethereum.FilterQuery/types.Log
// pair to the logsync.Filter contract, so logsync.LogQuery can be driven
// directly against an *ethclient.Client-shaped provider without the core
// logsync package ever importing go-ethereum.
package ethfilter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/erigontech/erigon-logsync/logsync"
)

// Filter wraps ethereum.FilterQuery to satisfy logsync.Filter.
type Filter struct {
	Query ethereum.FilterQuery
}

var _ logsync.Filter = Filter{}

// New wraps query for use with logsync.New[types.Log].
func New(query ethereum.FilterQuery) Filter {
	return Filter{Query: query}
}

func (f Filter) FromBlock() (uint64, bool) {
	if f.Query.FromBlock == nil {
		return 0, false
	}
	return f.Query.FromBlock.Uint64(), true
}

func (f Filter) ToBlock() (uint64, bool) {
	if f.Query.ToBlock == nil {
		return 0, false
	}
	return f.Query.ToBlock.Uint64(), true
}

// Paginatable mirrors spec: a filter is paginatable iff its from-block is
// set. A query pinned to a single block hash is never paginatable, even
// when it also carries a stray FromBlock value (which FromBlock still
// reports).
func (f Filter) Paginatable() bool {
	return f.Query.BlockHash == nil && f.Query.FromBlock != nil
}

// WithRange returns a copy of f narrowed to the closed block range
// [from, to].
func (f Filter) WithRange(from, to uint64) logsync.Filter {
	narrowed := f.Query
	narrowed.FromBlock = new(big.Int).SetUint64(from)
	narrowed.ToBlock = new(big.Int).SetUint64(to)
	return Filter{Query: narrowed}
}

// Client is the subset of *ethclient.Client's surface logsync needs.
// Satisfied by *ethclient.Client without any adaptation.
type Client interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Provider adapts a Client to logsync.LogProvider[types.Log].
type Provider struct {
	Client Client
}

var _ logsync.LogProvider[types.Log] = Provider{}

func (p Provider) GetBlockNumber(ctx context.Context) (uint64, error) {
	return p.Client.BlockNumber(ctx)
}

func (p Provider) GetLogs(ctx context.Context, filter logsync.Filter) ([]types.Log, error) {
	f, ok := filter.(Filter)
	if !ok {
		return nil, fmt.Errorf("ethfilter: unexpected filter type %T", filter)
	}
	return p.Client.FilterLogs(ctx, f.Query)
}
