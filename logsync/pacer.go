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
	"time"

	"golang.org/x/time/rate"
)

// pacer paces the RPC calls LogQuery makes. It is built on a
// rate.Limiter of burst 1 rather than a bare time.Sleep so the wait is a
// true cancelable suspension point: dropping the query's context during
// the pacing wait releases it immediately instead of blocking the delay
// out. The limiter spaces successive waits at least delay apart, start
// to start; it does not sleep a fixed delay before each call, so a call
// that follows an RPC which itself took delay or longer does not wait.
type pacer struct {
	limiter *rate.Limiter
}

// newPacer builds a pacer for delay. A non-positive delay elides pacing
// entirely, per spec: a zero delay is legal and skips the sleep.
func newPacer(delay time.Duration) *pacer {
	if delay <= 0 {
		return &pacer{}
	}

	limiter := rate.NewLimiter(rate.Every(delay), 1)
	// Drain the initial burst token so the very first wait also waits
	// until delay has passed since construction, not just later waits.
	limiter.ReserveN(time.Now(), 1)

	return &pacer{limiter: limiter}
}

func (p *pacer) wait(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
