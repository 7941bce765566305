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
	"errors"
	"strings"
)

// ErrLoadTip wraps a failure to resolve the chain head for an open-ended
// paginatable filter. Fatal: the stream ends without emitting anything
// further.
var ErrLoadTip = errors.New("logsync: failed to load chain tip")

// ErrLoadLogs wraps a page fetch failure that isn't classifiable as a
// page-size overflow. Fatal: the stream ends without emitting anything
// further.
var ErrLoadLogs = errors.New("logsync: failed to load logs")

// OverflowHints are the substrings that mark a GetLogs error as a
// page-too-large signal rather than a fatal transport error. Keeping
// this a package variable rather than a constant lets a caller widen it
// for a provider with different wording, per the fragility noted in the
// design notes: a provider that changes its error text silently turns a
// recoverable overflow into a fatal one otherwise.
var OverflowHints = []string{
	"exceeds the max limit of",
	"too large with more than",
}

// isOverflow reports whether err's string form matches one of
// OverflowHints. This is the sole signal used to distinguish "server
// refused due to request volume" from every other kind of error.
func isOverflow(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, hint := range OverflowHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
