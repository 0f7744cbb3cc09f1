// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

import (
	"sync"
	"sync/atomic"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	"github.com/ChainSafe/gossamer-collator/lib/common"
)

// authSnapshot is an immutable view of the candidates known to be included.
type authSnapshot struct {
	included map[common.Hash]relayview.BlockRef
}

// authTable maps candidate hashes to their inclusion in the relay chain.
// Writes are serialised by the mutex and publish a new snapshot, reads
// load the current snapshot without locking.
type authTable struct {
	capacity int
	snapshot atomic.Pointer[authSnapshot]

	mutex sync.Mutex
	order []common.Hash
	// watchers maps provisional candidate hashes to the peer actors tracking
	// them. A reconnected peer gets a new actor, so a stopping actor never
	// removes the watches of its successor.
	watchers map[common.Hash]map[*peerActor]struct{}
}

func newAuthTable(capacity int) *authTable {
	t := &authTable{
		capacity: capacity,
		watchers: make(map[common.Hash]map[*peerActor]struct{}),
	}
	t.snapshot.Store(&authSnapshot{included: map[common.Hash]relayview.BlockRef{}})
	return t
}

// included returns the relay block including the candidate, if known.
func (t *authTable) included(candidate common.Hash) (relayview.BlockRef, bool) {
	ref, ok := t.snapshot.Load().included[candidate]
	return ref, ok
}

// markIncluded records the inclusion and returns the peers tracking the
// candidate as provisional. It returns false if it was already recorded.
func (t *authTable) markIncluded(candidate common.Hash, relayBlock relayview.BlockRef) (
	watchers []*peerActor, added bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	current := t.snapshot.Load()
	if _, ok := current.included[candidate]; ok {
		return nil, false
	}

	next := &authSnapshot{
		included: make(map[common.Hash]relayview.BlockRef, len(current.included)+1),
	}
	for hash, ref := range current.included {
		next.included[hash] = ref
	}
	next.included[candidate] = relayBlock
	t.order = append(t.order, candidate)
	for len(t.order) > t.capacity {
		delete(next.included, t.order[0])
		t.order = t.order[1:]
	}
	t.snapshot.Store(next)

	for actor := range t.watchers[candidate] {
		watchers = append(watchers, actor)
	}
	delete(t.watchers, candidate)
	return watchers, true
}

// watch registers the peer as tracking the provisional candidate. It returns
// the including relay block instead if the candidate is already included.
func (t *authTable) watch(candidate common.Hash, actor *peerActor) (
	relayBlock relayview.BlockRef, included bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	relayBlock, included = t.snapshot.Load().included[candidate]
	if included {
		return relayBlock, true
	}

	peers, ok := t.watchers[candidate]
	if !ok {
		peers = make(map[*peerActor]struct{})
		t.watchers[candidate] = peers
	}
	peers[actor] = struct{}{}
	return relayBlock, false
}

// unwatch stops the peer from tracking the candidates.
func (t *authTable) unwatch(actor *peerActor, candidates ...common.Hash) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, candidate := range candidates {
		peers, ok := t.watchers[candidate]
		if !ok {
			continue
		}
		delete(peers, actor)
		if len(peers) == 0 {
			delete(t.watchers, candidate)
		}
	}
}
