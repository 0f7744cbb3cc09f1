// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package guard

import (
	"fmt"

	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// CandidateSet tracks a bounded number of unauthorized candidates, the
// oldest being evicted first. It is not safe for concurrent use.
type CandidateSet[V any] struct {
	size       int
	candidates *simplelru.LRU[common.Hash, V]
}

// NewCandidateSet creates a candidate set holding at most size candidates.
func NewCandidateSet[V any](size int) (*CandidateSet[V], error) {
	candidates, err := simplelru.NewLRU[common.Hash, V](size, nil)
	if err != nil {
		return nil, fmt.Errorf("creating candidate set: %w", err)
	}
	return &CandidateSet[V]{
		size:       size,
		candidates: candidates,
	}, nil
}

// Add tracks the candidate, replacing the value of an already tracked one.
// It returns the hash of the candidate evicted to make room, if any.
func (s *CandidateSet[V]) Add(hash common.Hash, value V) (evicted common.Hash, wasEvicted bool) {
	if !s.candidates.Contains(hash) && s.candidates.Len() >= s.size {
		evicted, _, wasEvicted = s.candidates.RemoveOldest()
	}
	s.candidates.Add(hash, value)
	return evicted, wasEvicted
}

// Get returns the value of a tracked candidate.
func (s *CandidateSet[V]) Get(hash common.Hash) (value V, ok bool) {
	return s.candidates.Peek(hash)
}

// Remove stops tracking the candidate.
func (s *CandidateSet[V]) Remove(hash common.Hash) (value V, ok bool) {
	value, ok = s.candidates.Peek(hash)
	if ok {
		s.candidates.Remove(hash)
	}
	return value, ok
}

// Len returns the number of tracked candidates.
func (s *CandidateSet[V]) Len() int {
	return s.candidates.Len()
}

// Hashes returns the tracked candidate hashes, oldest first.
func (s *CandidateSet[V]) Hashes() []common.Hash {
	return s.candidates.Keys()
}

// Values returns the tracked candidate values, oldest first.
func (s *CandidateSet[V]) Values() []V {
	return s.candidates.Values()
}
