// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/internal/log"
	"github.com/libp2p/go-libp2p/core/peer"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "blocksync"))

var (
	ErrUnknownPeer    = errors.New("unknown peer")
	ErrInboxFull      = errors.New("peer inbox is full")
	ErrStopped        = errors.New("coordinator is stopped")
	ErrAlreadyStarted = errors.New("coordinator is already started")
)

type peerHeads struct {
	best        *HeadRef
	provisional *HeadRef
}

// Coordinator tracks the heads announced by the connected peers. Each peer
// is served by its own goroutine, processing its announcements in order.
type Coordinator struct {
	cfg       Config
	authTable *authTable
	degraded  atomic.Bool
	started   atomic.Bool
	// relay queues the authorized announcements to relay, nil without Announcer.
	relay chan parachaintypes.AnnouncementMessage

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mutex   sync.RWMutex
	peers   map[peer.ID]*peerActor
	heads   map[peer.ID]peerHeads
	stopped bool
}

// NewCoordinator creates a coordinator. Peers can be connected right away,
// the inclusion feed is consumed once Start is called.
func NewCoordinator(cfg Config) (*Coordinator, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		cfg:       cfg,
		authTable: newAuthTable(cfg.AuthTableCapacity),
		ctx:       ctx,
		cancel:    cancel,
		peers:     make(map[peer.ID]*peerActor),
		heads:     make(map[peer.ID]peerHeads),
	}
	if cfg.Announcer != nil {
		c.relay = make(chan parachaintypes.AnnouncementMessage, cfg.InboxSize)
	}
	return c, nil
}

// Start consumes the inclusion feed. The coordinator stops when ctx is
// cancelled or Stop is called.
func (c *Coordinator) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if c.cfg.Inclusions != nil {
		inclusions, err := c.cfg.Inclusions.SubscribeInclusions(c.ctx)
		if err != nil {
			return fmt.Errorf("subscribing to inclusions: %w", err)
		}
		c.wg.Add(1)
		go c.consumeInclusions(inclusions)
	}

	if c.relay != nil {
		c.wg.Add(1)
		go c.relayAnnouncements()
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		select {
		case <-ctx.Done():
			c.cancel()
		case <-c.ctx.Done():
		}
	}()

	logger.Info("block announcement coordinator started")
	return nil
}

// Stop disconnects all peers and waits for their goroutines to exit.
func (c *Coordinator) Stop() error {
	c.mutex.Lock()
	c.stopped = true
	peers := len(c.peers)
	c.peers = make(map[peer.ID]*peerActor)
	c.heads = make(map[peer.ID]peerHeads)
	c.mutex.Unlock()

	c.cancel()
	c.wg.Wait()
	peersGauge.Sub(float64(peers))
	return nil
}

func (c *Coordinator) consumeInclusions(inclusions <-chan relayview.Inclusion) {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case inclusion, ok := <-inclusions:
			if !ok {
				logger.Warn("inclusion feed closed")
				return
			}
			c.HandleInclusion(inclusion)
		}
	}
}

// queueRelay queues the authorized announcement to be relayed to the peers.
// The announcement is dropped if the relay queue is full.
func (c *Coordinator) queueRelay(msg parachaintypes.AnnouncementMessage) {
	if c.relay == nil {
		return
	}

	select {
	case c.relay <- msg:
	default:
		relayedCounter.WithLabelValues("dropped").Inc()
		logger.Tracef("relay queue is full, not relaying %s", msg.Header)
	}
}

// relayAnnouncements relays each authorized head greater than the last
// relayed one, so a head announced by several peers is only relayed once.
func (c *Coordinator) relayAnnouncements() {
	defer c.wg.Done()

	var (
		relayed    uint32
		hasRelayed bool
	)
	for {
		select {
		case <-c.ctx.Done():
			return
		case msg := <-c.relay:
			if hasRelayed && msg.Header.Number <= relayed {
				continue
			}

			if err := c.cfg.Announcer.Announce(c.ctx, msg); err != nil {
				relayedCounter.WithLabelValues("failed").Inc()
				logger.Debugf("relaying announcement %s: %s", msg.Header, err)
				continue
			}
			relayed, hasRelayed = msg.Header.Number, true
			relayedCounter.WithLabelValues("sent").Inc()
		}
	}
}

// PeerConnected starts tracking the peer. Connecting an already tracked
// peer is a no-op.
func (c *Coordinator) PeerConnected(id peer.ID) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.stopped {
		return ErrStopped
	}
	if _, ok := c.peers[id]; ok {
		return nil
	}

	actor, err := newPeerActor(c, id)
	if err != nil {
		return fmt.Errorf("creating peer %s: %w", id, err)
	}
	c.peers[id] = actor

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		actor.run()
	}()

	peersGauge.Inc()
	logger.Debugf("peer %s connected", id)
	return nil
}

// PeerDisconnected stops tracking the peer and cancels its pending fetch.
func (c *Coordinator) PeerDisconnected(id peer.ID) {
	c.mutex.Lock()
	actor, ok := c.peers[id]
	if ok {
		delete(c.peers, id)
		delete(c.heads, id)
	}
	c.mutex.Unlock()

	if !ok {
		return
	}

	actor.cancel()
	peersGauge.Dec()
	logger.Debugf("peer %s disconnected", id)
}

func (c *Coordinator) peer(id peer.ID) (*peerActor, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	actor, ok := c.peers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeer, id)
	}
	return actor, nil
}

// HandleAnnouncement queues the announcement for the peer. It returns
// ErrInboxFull, dropping the announcement, if the peer queue is full.
// An announcement which could not have been decoded from the wire is
// dropped as malformed with an error wrapping parachaintypes.ErrDecode.
func (c *Coordinator) HandleAnnouncement(id peer.ID, msg parachaintypes.AnnouncementMessage) error {
	actor, err := c.peer(id)
	if err != nil {
		return err
	}

	if err := msg.Header.Validate(); err != nil {
		actor.malformed.Add(1)
		malformedCounter.Inc()
		return fmt.Errorf("%w: announcement from %s: header %w", parachaintypes.ErrDecode, id, err)
	}

	select {
	case actor.inbox <- msg:
		return nil
	default:
		actor.dropped.Add(1)
		droppedCounter.Inc()
		return fmt.Errorf("%w: %s", ErrInboxFull, id)
	}
}

// HandleRawAnnouncement decodes and queues the announcement. Malformed
// announcements are dropped without any state change.
func (c *Coordinator) HandleRawAnnouncement(id peer.ID, data []byte) error {
	actor, err := c.peer(id)
	if err != nil {
		return err
	}

	msg, err := parachaintypes.DecodeAnnouncement(data)
	if err != nil {
		actor.malformed.Add(1)
		malformedCounter.Inc()
		return fmt.Errorf("decoding announcement from %s: %w", id, err)
	}
	return c.HandleAnnouncement(id, msg)
}

// HandleInclusion records the inclusion of a candidate in the relay chain
// and promotes the peers provisional heads referencing it.
func (c *Coordinator) HandleInclusion(inclusion relayview.Inclusion) {
	watchers, added := c.authTable.markIncluded(inclusion.CandidateHash, inclusion.RelayBlock)
	if !added {
		return
	}

	logger.Debugf("candidate %s included at relay block %s",
		inclusion.CandidateHash.Short(), inclusion.RelayBlock)

	promote := promotion{candidate: inclusion.CandidateHash, relayBlock: inclusion.RelayBlock}
	for _, actor := range watchers {
		actor.send(promote)
	}
}

// PeerView returns a copy of the state of the peer.
func (c *Coordinator) PeerView(ctx context.Context, id peer.ID) (PeerView, error) {
	actor, err := c.peer(id)
	if err != nil {
		return PeerView{}, err
	}

	reply := make(chan PeerView, 1)
	select {
	case actor.control <- viewRequest{reply: reply}:
	case <-actor.ctx.Done():
		return PeerView{}, fmt.Errorf("%w: %s", ErrUnknownPeer, id)
	case <-ctx.Done():
		return PeerView{}, ctx.Err()
	}

	select {
	case view := <-reply:
		return view, nil
	case <-actor.ctx.Done():
		return PeerView{}, fmt.Errorf("%w: %s", ErrUnknownPeer, id)
	case <-ctx.Done():
		return PeerView{}, ctx.Err()
	}
}

// BestHead returns the best head announced by any connected peer: the
// greatest number wins and an authorized head wins over a provisional one.
// It returns false if no peer announced a head.
func (c *Coordinator) BestHead() (best HeadRef, ok bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, heads := range c.heads {
		for _, head := range [...]*HeadRef{heads.best, heads.provisional} {
			if head == nil {
				continue
			}
			if !ok || head.better(best) {
				best, ok = *head, true
			}
		}
	}
	return best, ok
}

// Degraded returns true while the relay chain view is unavailable.
func (c *Coordinator) Degraded() bool {
	return c.degraded.Load()
}

func (c *Coordinator) publishHeads(id peer.ID, actor *peerActor, best, provisional *HeadRef) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.peers[id] != actor {
		return
	}
	c.heads[id] = peerHeads{best: best, provisional: provisional}
}

func (c *Coordinator) relayViewUnavailable(err error) {
	if !c.degraded.CompareAndSwap(false, true) {
		return
	}

	relayViewUnavailableGauge.Set(1)
	logger.Criticalf("relay chain view is unavailable, tracking provisional heads only: %s", err)
	c.cfg.Reporter.ReportRelayViewUnavailable(err)

	if c.cfg.RelayHealth == nil {
		return
	}
	// called from a peer goroutine, so the wait group count is positive
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.awaitRelayView()
	}()
}

// awaitRelayView polls the relay chain view until it is reachable again
// or the degraded mode was ended by an accepted announcement.
func (c *Coordinator) awaitRelayView() {
	ticker := c.cfg.Clock.NewTicker(c.cfg.RecoveryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.Chan():
		}

		if !c.degraded.Load() {
			return
		}
		_, err := c.cfg.RelayHealth.BestFinalized(c.ctx)
		if err == nil || !errors.Is(err, relayview.ErrUnavailable) {
			c.relayViewAvailable()
			return
		}
		logger.Debugf("relay chain view still unavailable: %s", err)
	}
}

func (c *Coordinator) relayViewAvailable() {
	if !c.degraded.CompareAndSwap(true, false) {
		return
	}

	relayViewUnavailableGauge.Set(0)
	logger.Info("relay chain view is available again")
}
