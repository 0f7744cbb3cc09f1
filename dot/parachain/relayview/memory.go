// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package relayview

import (
	"context"
	"fmt"
	"sync"

	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/lib/common"
)

const inclusionBufferSize = 64

type memoryBlock struct {
	ref        BlockRef
	validators ValidatorSet
}

type subscriber struct {
	ctx context.Context
	ch  chan Inclusion
}

// MemoryView is an in memory relay chain view, fed through ImportBlock,
// Finalize and Include. Blocks more than pruneDepth blocks behind the
// finalized block are pruned.
type MemoryView struct {
	mutex       sync.RWMutex
	blocks      map[common.Hash]memoryBlock
	finalized   map[uint32]common.Hash
	best        BlockRef
	pruneDepth  uint32
	unavailable error
	subscribers []*subscriber
}

var (
	_ View          = (*MemoryView)(nil)
	_ InclusionFeed = (*MemoryView)(nil)
)

// NewMemoryView creates an empty in memory relay chain view.
func NewMemoryView(pruneDepth uint32) *MemoryView {
	return &MemoryView{
		blocks:     make(map[common.Hash]memoryBlock),
		finalized:  make(map[uint32]common.Hash),
		pruneDepth: pruneDepth,
	}
}

// ImportBlock adds a relay block together with the parachain validators active at it.
func (m *MemoryView) ImportBlock(ref BlockRef, validators ...parachaintypes.ValidatorID) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.blocks[ref.Hash] = memoryBlock{
		ref:        ref,
		validators: NewValidatorSet(validators...),
	}
}

// Finalize marks the imported block as finalized and prunes old blocks.
func (m *MemoryView) Finalize(hash common.Hash) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	block, ok := m.blocks[hash]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, hash)
	}

	m.finalized[block.ref.Number] = hash
	if block.ref.Number >= m.best.Number {
		m.best = block.ref
	}

	if m.best.Number <= m.pruneDepth {
		return nil
	}
	threshold := m.best.Number - m.pruneDepth
	for blockHash, block := range m.blocks {
		if block.ref.Number < threshold {
			delete(m.blocks, blockHash)
		}
	}
	for number := range m.finalized {
		if number < threshold {
			delete(m.finalized, number)
		}
	}
	return nil
}

// SetUnavailable makes every lookup fail with ErrUnavailable until it is
// called again with a nil error.
func (m *MemoryView) SetUnavailable(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.unavailable = err
}

// ValidatorsAt implements View.
func (m *MemoryView) ValidatorsAt(_ context.Context, relayParent common.Hash) (RelayParentContext, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.unavailable != nil {
		return RelayParentContext{}, fmt.Errorf("%w: %w", ErrUnavailable, m.unavailable)
	}

	block, ok := m.blocks[relayParent]
	if !ok {
		return RelayParentContext{}, fmt.Errorf("%w: %s", ErrNotFound, relayParent)
	}

	validators := make(ValidatorSet, len(block.validators))
	for validator := range block.validators {
		validators[validator] = struct{}{}
	}
	return RelayParentContext{
		RelayParent: block.ref,
		Validators:  validators,
	}, nil
}

// IsFinalized implements View.
func (m *MemoryView) IsFinalized(_ context.Context, relayParent common.Hash) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.unavailable != nil {
		return false, fmt.Errorf("%w: %w", ErrUnavailable, m.unavailable)
	}

	block, ok := m.blocks[relayParent]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, relayParent)
	}
	return m.finalized[block.ref.Number] == relayParent, nil
}

// BestFinalized implements View.
func (m *MemoryView) BestFinalized(context.Context) (BlockRef, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.unavailable != nil {
		return BlockRef{}, fmt.Errorf("%w: %w", ErrUnavailable, m.unavailable)
	}
	return m.best, nil
}

// SubscribeInclusions implements InclusionFeed.
func (m *MemoryView) SubscribeInclusions(ctx context.Context) (<-chan Inclusion, error) {
	sub := &subscriber{
		ctx: ctx,
		ch:  make(chan Inclusion, inclusionBufferSize),
	}

	m.mutex.Lock()
	m.subscribers = append(m.subscribers, sub)
	m.mutex.Unlock()

	go func() {
		<-ctx.Done()
		m.mutex.Lock()
		defer m.mutex.Unlock()
		for i, s := range m.subscribers {
			if s == sub {
				m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
				break
			}
		}
		close(sub.ch)
	}()

	return sub.ch, nil
}

// Include notifies subscribers that the candidate was included at the relay block.
func (m *MemoryView) Include(candidateHash common.Hash, relayBlock BlockRef) {
	inclusion := Inclusion{
		CandidateHash: candidateHash,
		RelayBlock:    relayBlock,
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, sub := range m.subscribers {
		select {
		case sub.ch <- inclusion:
		case <-sub.ctx.Done():
		}
	}
}
