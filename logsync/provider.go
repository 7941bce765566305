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

import "context"

// LogProvider is the remote collaborator LogQuery drives. Both methods
// may be called many times over the life of a query; implementations
// are assumed internally synchronized, the same assumption erigon's
// JSON-RPC client types make. L is the opaque log record type; LogQuery
// does not interpret it.
type LogProvider[L any] interface {
	// GetBlockNumber returns the chain head, used to resolve an open-
	// ended filter's upper bound once at query start.
	GetBlockNumber(ctx context.Context) (uint64, error)

	// GetLogs returns every log matching filter. An error whose string
	// form contains one of OverflowHints is treated as a page-too-large
	// signal and drives page-size backoff rather than surfacing to the
	// caller.
	GetLogs(ctx context.Context, filter Filter) ([]L, error)
}
