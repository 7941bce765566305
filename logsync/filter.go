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

// Package logsync turns a single "give me all matching logs over a block
// range" request into a sequence of adaptive, paced RPC calls against a
// remote log provider, retrying transparently on server-side page-size
// overflow.
package logsync

// Filter is the predicate LogQuery pages over. It is immutable input:
// LogQuery only ever derives narrowed copies of it, never mutates it in
// place.
type Filter interface {
	// FromBlock returns the filter's lower bound, if any is set.
	FromBlock() (uint64, bool)

	// ToBlock returns the filter's upper bound, if any is set.
	ToBlock() (uint64, bool)

	// Paginatable is true iff FromBlock is set. A non-paginatable filter
	// is fetched in a single RPC call with no pagination.
	Paginatable() bool

	// WithRange returns a copy of the filter narrowed to the closed
	// block range [from, to].
	WithRange(from, to uint64) Filter
}
