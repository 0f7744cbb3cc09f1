// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/announcement"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/guard"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/jonboulle/clockwork"
	"github.com/libp2p/go-libp2p/core/peer"
)

type promotion struct {
	candidate  common.Hash
	relayBlock relayview.BlockRef
}

type fetchResult struct {
	head     HeadRef
	imported int
	err      error
}

type viewRequest struct {
	reply chan<- PeerView
}

type provisionalCandidate struct {
	head   HeadRef
	parent common.Hash
}

// peerActor owns the state of a single peer. All its fields below the
// atomic counters are only accessed by the run goroutine.
type peerActor struct {
	id          peer.ID
	coordinator *Coordinator
	cfg         *Config
	ctx         context.Context
	cancel      context.CancelFunc
	inbox       chan parachaintypes.AnnouncementMessage
	control     chan any

	dropped   atomic.Uint64
	malformed atomic.Uint64

	guard        *guard.PeerGuard
	provisional  *guard.CandidateSet[provisionalCandidate]
	view         PeerView
	lastAccepted time.Time
	cancelFetch  context.CancelFunc
	stallTimer   clockwork.Timer
}

func newPeerActor(c *Coordinator, id peer.ID) (*peerActor, error) {
	provisional, err := guard.NewCandidateSet[provisionalCandidate](c.cfg.Guard.MaxUnauthorizedCandidates)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(c.ctx)
	return &peerActor{
		id:          id,
		coordinator: c,
		cfg:         &c.cfg,
		ctx:         ctx,
		cancel:      cancel,
		inbox:       make(chan parachaintypes.AnnouncementMessage, c.cfg.InboxSize),
		control:     make(chan any),
		guard:       guard.NewPeerGuard(c.cfg.Guard),
		provisional: provisional,
		view:        PeerView{State: Unknown},
	}, nil
}

func (a *peerActor) run() {
	a.stallTimer = a.cfg.Clock.NewTimer(a.cfg.StallTimeout)
	defer a.stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case msg := <-a.inbox:
			a.handleAnnouncement(msg)
		case msg := <-a.control:
			a.handleControl(msg)
		case <-a.stallTimer.Chan():
			a.checkStall()
		}
	}
}

func (a *peerActor) stop() {
	a.stallTimer.Stop()
	if a.cancelFetch != nil {
		a.cancelFetch()
	}
	a.coordinator.authTable.unwatch(a, a.provisional.Hashes()...)
}

// send delivers the message to the peer goroutine. It returns false if the
// peer is disconnected.
func (a *peerActor) send(msg any) bool {
	select {
	case a.control <- msg:
		return true
	case <-a.ctx.Done():
		return false
	}
}

func (a *peerActor) handleControl(msg any) {
	switch msg := msg.(type) {
	case promotion:
		a.handlePromotion(msg)
	case fetchResult:
		a.handleFetchResult(msg)
	case viewRequest:
		msg.reply <- a.snapshot()
	default:
		logger.Errorf("unexpected control message of type %T", msg)
	}
}

func (a *peerActor) handleAnnouncement(msg parachaintypes.AnnouncementMessage) {
	if !a.guard.Allow(a.cfg.Clock.Now()) {
		a.view.Stats.RateLimited++
		announcementsCounter.WithLabelValues("rate-limited").Inc()
		logger.Tracef("peer %s exceeded its announcement rate, dropping #%d",
			a.id, msg.Header.Number)
		a.recordViolation()
		return
	}

	// The relay chain view is queried before touching any state, so a
	// disconnection during the lookup leaves the peer state untouched.
	outcome := a.cfg.Validator.Validate(a.ctx, msg)
	if a.ctx.Err() != nil {
		return
	}
	announcementsCounter.WithLabelValues(outcome.Kind.String()).Inc()

	switch outcome.Kind {
	case announcement.Accepted:
		a.coordinator.relayViewAvailable()
		a.accept(msg)
	case announcement.AcceptedProvisional:
		if outcome.Degraded {
			a.coordinator.relayViewUnavailable(outcome.Err)
		}
		a.recordProvisional(msg)
	case announcement.Rejected:
		if outcome.Reason != announcement.UnknownRelayParent {
			a.coordinator.relayViewAvailable()
		}
		a.reject(msg, outcome)
	}
}

func (a *peerActor) accept(msg parachaintypes.AnnouncementMessage) {
	head := HeadRef{Hash: msg.Header.Hash(), Number: msg.Header.Number, Authorized: true}

	a.guard.RecordAcceptance()
	a.view.Violations = 0
	a.view.Stats.Accepted++
	relayParent := msg.Attestation.RelayParent
	a.view.LastRelayParent = &relayParent
	a.view.State = Tracking
	a.lastAccepted = a.cfg.Clock.Now()
	a.stallTimer.Reset(a.cfg.StallTimeout)
	a.dropProvisional(head.Hash)

	if a.view.BestHead != nil && head.Number <= a.view.BestHead.Number {
		a.publish()
		return
	}
	a.setBestHead(head, msg.Header.ParentHash)
	a.coordinator.queueRelay(msg)
}

func (a *peerActor) recordProvisional(msg parachaintypes.AnnouncementMessage) {
	head := HeadRef{Hash: msg.Header.Hash(), Number: msg.Header.Number}

	a.guard.RecordAcceptance()
	a.view.Violations = 0
	a.view.Stats.Provisional++
	if msg.Attestation != nil {
		relayParent := msg.Attestation.RelayParent
		a.view.LastRelayParent = &relayParent
	}

	if a.view.BestHead != nil && a.view.BestHead.Hash == head.Hash {
		return
	}

	relayBlock, included := a.coordinator.authTable.watch(head.Hash, a)
	if included {
		a.promote(head, msg.Header.ParentHash, relayBlock)
		return
	}

	candidate := provisionalCandidate{head: head, parent: msg.Header.ParentHash}
	evicted, wasEvicted := a.provisional.Add(head.Hash, candidate)
	if wasEvicted {
		a.coordinator.authTable.unwatch(a, evicted)
		logger.Tracef("peer %s provisional candidate %s evicted", a.id, evicted.Short())
	}
	a.view.ProvisionalHead = &head
	a.publish()
}

func (a *peerActor) reject(msg parachaintypes.AnnouncementMessage, outcome announcement.Outcome) {
	a.view.Stats.Rejected++
	rejectionsCounter.WithLabelValues(outcome.Reason.String()).Inc()
	logger.Debugf("rejected announcement of #%d (%s) from peer %s: %s",
		msg.Header.Number, msg.Header.Hash().Short(), a.id, outcome.Err)
	a.recordViolation()
}

func (a *peerActor) recordViolation() {
	violations, flag := a.guard.RecordRejection()
	a.view.Violations = violations
	if !flag {
		return
	}

	a.view.State = Stalled
	logger.Warnf("peer %s sent %d consecutive rejected announcements", a.id, violations)
	a.cfg.Reporter.ReportPeer(PeerMisbehaviour{Peer: a.id, Violations: violations})
}

func (a *peerActor) handlePromotion(msg promotion) {
	candidate, ok := a.provisional.Remove(msg.candidate)
	if !ok {
		return
	}
	if a.view.ProvisionalHead != nil && a.view.ProvisionalHead.Hash == msg.candidate {
		a.view.ProvisionalHead = nil
	}
	a.promote(candidate.head, candidate.parent, msg.relayBlock)
}

// promote turns a provisional head into an authorized one. The best head
// only moves if the promoted head is not lower.
func (a *peerActor) promote(head HeadRef, parent common.Hash, relayBlock relayview.BlockRef) {
	head.Authorized = true
	promotionsCounter.Inc()
	logger.Debugf("peer %s head %s promoted by its inclusion at relay block %s",
		a.id, head, relayBlock)

	if a.view.BestHead != nil && head.Number < a.view.BestHead.Number {
		a.publish()
		return
	}
	if a.view.State == Unknown {
		a.view.State = Tracking
	}
	a.setBestHead(head, parent)
}

func (a *peerActor) dropProvisional(hash common.Hash) {
	if _, ok := a.provisional.Remove(hash); ok {
		a.coordinator.authTable.unwatch(a, hash)
	}
	if a.view.ProvisionalHead != nil && a.view.ProvisionalHead.Hash == hash {
		a.view.ProvisionalHead = nil
	}
}

func (a *peerActor) setBestHead(head HeadRef, parent common.Hash) {
	a.view.BestHead = &head
	logger.Debugf("peer %s best head is now %s", a.id, head)
	a.scheduleFetch(head, parent)
	a.publish()
}

func (a *peerActor) checkStall() {
	if a.view.State != Tracking {
		return
	}

	elapsed := a.cfg.Clock.Since(a.lastAccepted)
	if elapsed < a.cfg.StallTimeout {
		a.stallTimer.Reset(a.cfg.StallTimeout - elapsed)
		return
	}

	a.view.State = Stalled
	logger.Debugf("peer %s stalled: no accepted announcement for %s", a.id, elapsed)
}

func (a *peerActor) publish() {
	a.coordinator.publishHeads(a.id, a, a.view.BestHead, a.view.ProvisionalHead)
}

func (a *peerActor) snapshot() PeerView {
	view := a.view
	candidates := a.provisional.Values()
	view.Provisional = make([]HeadRef, len(candidates))
	for i, candidate := range candidates {
		view.Provisional[i] = candidate.head
	}
	view.Stats.Dropped = a.dropped.Load()
	view.Stats.Malformed = a.malformed.Load()
	return view
}

func (a *peerActor) handleFetchResult(result fetchResult) {
	if a.view.PendingFetch == nil || a.view.PendingFetch.Hash != result.head.Hash {
		logger.Tracef("discarding stale fetch result for %s from peer %s", result.head, a.id)
		return
	}
	a.view.PendingFetch = nil
	a.cancelFetch = nil

	switch {
	case result.err == nil:
		fetchesCounter.WithLabelValues("success").Inc()
		logger.Debugf("imported %d blocks up to %s from peer %s", result.imported, result.head, a.id)
	case errors.Is(result.err, ErrInvalidResponse):
		fetchesCounter.WithLabelValues("invalid").Inc()
		logger.Warnf("invalid blocks for %s from peer %s: %s", result.head, a.id, result.err)
		a.recordViolation()
	default:
		fetchesCounter.WithLabelValues("failed").Inc()
		logger.Debugf("fetching %s from peer %s: %s", result.head, a.id, result.err)
	}
}

// scheduleFetch requests the head if it is not locally known, together with
// its ancestry if its parent is not known either. A pending fetch for a
// lower head is cancelled.
func (a *peerActor) scheduleFetch(head HeadRef, parent common.Hash) {
	known, err := a.cfg.BlockStore.HasBlock(head.Hash)
	if err != nil {
		logger.Errorf("checking block %s: %s", head.Hash.Short(), err)
		return
	}
	if known {
		return
	}

	maxBlocks := uint32(1)
	if head.Number > 0 {
		parentKnown, err := a.cfg.BlockStore.HasBlock(parent)
		if err != nil {
			logger.Errorf("checking block %s: %s", parent.Short(), err)
		}
		if !parentKnown {
			maxBlocks = a.cfg.MaxAncestry
			if uint64(maxBlocks) > uint64(head.Number)+1 {
				maxBlocks = head.Number + 1
			}
		}
	}

	if a.cancelFetch != nil {
		a.cancelFetch()
		logger.Debugf("fetch of %s from peer %s superseded by %s", a.view.PendingFetch, a.id, head)
	}

	ctx, cancel := context.WithTimeout(a.ctx, a.cfg.FetchTimeout)
	a.cancelFetch = cancel
	a.view.PendingFetch = &head

	a.coordinator.wg.Add(1)
	go func() {
		defer a.coordinator.wg.Done()
		defer cancel()
		imported, err := a.fetch(ctx, head, maxBlocks)
		a.send(fetchResult{head: head, imported: imported, err: err})
	}()
}

func (a *peerActor) fetch(ctx context.Context, head HeadRef, maxBlocks uint32) (imported int, err error) {
	blocks, err := a.cfg.Fetcher.FetchBlocks(ctx, a.id, head.Hash, maxBlocks)
	if err != nil {
		return 0, fmt.Errorf("fetching blocks: %w", err)
	}

	err = verifyAncestry(head.Hash, maxBlocks, blocks)
	if err != nil {
		return 0, err
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		err = a.cfg.Importer.ImportBlock(ctx, blocks[i])
		if err != nil {
			return imported, fmt.Errorf("importing block %s: %w", blocks[i].Hash().Short(), err)
		}
		imported++
	}
	return imported, nil
}
