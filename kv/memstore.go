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

package kv

import "sync"

// MemStore is a map-backed Store, playing the same role erigon-lib's
// in-memory mdbx test harness plays for the rest of the node: a
// reference implementation good enough for tests and small tools, not a
// durable production engine.
type MemStore struct {
	mu   sync.Mutex
	data map[string]map[string]uint64 // namespace -> key -> value
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]map[string]uint64)}
}

func (s *MemStore) GetConfigDecoded(key string, namespace string, out *uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		return false, nil
	}
	v, ok := ns[key]
	if !ok {
		return false, nil
	}
	*out = v
	return true, nil
}

func (s *MemStore) ExecConfigs(batch *Batch, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]uint64)
		s.data[namespace] = ns
	}

	for _, o := range batch.Ops() {
		if o.Tombstone {
			delete(ns, o.Key)
			continue
		}
		ns[o.Key] = o.Value
	}

	return nil
}
