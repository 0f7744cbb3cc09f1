// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/blocksync"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/internal/log"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/libp2p/go-libp2p/core/host"
	libp2pnetwork "github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "network"))

const (
	// DefaultHandshakeTimeout bounds the handshake of an announcement stream.
	DefaultHandshakeTimeout = 10 * time.Second
	// DefaultRequestTimeout bounds serving a single block request.
	DefaultRequestTimeout = 20 * time.Second
	// DefaultMaxBlockFetch is the maximum number of blocks served per request.
	DefaultMaxBlockFetch uint32 = 64
	// DefaultMaxResponseSize bounds the size of a block response.
	DefaultMaxResponseSize = 1 << 26
)

var (
	errNilHost        = errors.New("no libp2p host")
	errNilBlocks      = errors.New("no block provider")
	errNoHandler      = errors.New("no announcement handler set")
	errAlreadyStarted = errors.New("network service already started")
)

// AnnouncementHandler receives the peer events and announcements read from the network.
type AnnouncementHandler interface {
	PeerConnected(id peer.ID) error
	PeerDisconnected(id peer.ID)
	HandleRawAnnouncement(id peer.ID, data []byte) error
}

// BlockProvider serves the locally stored blocks.
type BlockProvider interface {
	Ancestry(from common.Hash, maxBlocks uint32) ([]parachaintypes.CandidateBlock, error)
	BestBlock() (hash common.Hash, number uint32, ok bool)
}

// Config is the network service configuration.
type Config struct {
	Host        host.Host
	GenesisHash common.Hash
	Roles       Roles
	// Bootnodes are multiaddrs ending with /p2p/<peer id>.
	Bootnodes []string
	Blocks    BlockProvider

	HandshakeTimeout time.Duration
	RequestTimeout   time.Duration
	MaxBlockFetch    uint32
	MaxResponseSize  int
}

func (c *Config) validate() error {
	switch {
	case c.Host == nil:
		return errNilHost
	case c.Blocks == nil:
		return errNilBlocks
	}

	if c.Roles == 0 {
		c.Roles = RoleFull
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxBlockFetch == 0 {
		c.MaxBlockFetch = DefaultMaxBlockFetch
	}
	if c.MaxResponseSize == 0 {
		c.MaxResponseSize = DefaultMaxResponseSize
	}
	return nil
}

// Service carries the announcement and block fetch protocols over libp2p.
// It implements blocksync.Fetcher and blocksync.Reporter.
type Service struct {
	cfg              Config
	host             host.Host
	handler          AnnouncementHandler
	announceProtocol protocol.ID
	fetchProtocol    protocol.ID
	notifiee         *libp2pnetwork.NotifyBundle

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool

	outboundMutex   sync.Mutex
	outboundStreams map[peer.ID]*outboundStream
}

// NewService creates the network service.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	s := &Service{
		cfg:              cfg,
		host:             cfg.Host,
		announceProtocol: announceProtocol(cfg.GenesisHash),
		fetchProtocol:    blockFetchProtocol(cfg.GenesisHash),
		outboundStreams:  make(map[peer.ID]*outboundStream),
	}
	s.notifiee = &libp2pnetwork.NotifyBundle{
		ConnectedF:    s.connected,
		DisconnectedF: s.disconnected,
	}
	return s, nil
}

// SetAnnouncementHandler sets the handler receiving the peer events. It must
// be called before Start.
func (s *Service) SetAnnouncementHandler(handler AnnouncementHandler) {
	s.handler = handler
}

// Start registers the protocols, tracks the already connected peers and
// dials the bootnodes.
func (s *Service) Start(ctx context.Context) error {
	if s.handler == nil {
		return errNoHandler
	}
	if s.started {
		return errAlreadyStarted
	}

	bootnodes, err := stringsToAddrInfos(s.cfg.Bootnodes)
	if err != nil {
		return fmt.Errorf("parsing bootnodes: %w", err)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	s.host.SetStreamHandler(s.announceProtocol, s.handleAnnounceStream)
	s.host.SetStreamHandler(s.fetchProtocol, s.handleBlockFetchStream)
	s.host.Network().Notify(s.notifiee)

	for _, id := range s.host.Network().Peers() {
		s.peerConnected(id)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.connectBootnodes(bootnodes)
	}()

	logger.Infof("network started as %s with peer id %s, listening on %v",
		s.cfg.Roles, s.host.ID(), s.host.Addrs())
	return nil
}

// Stop removes the protocol handlers and closes the announcement streams.
// The libp2p host is left open.
func (s *Service) Stop() error {
	if !s.started {
		return nil
	}
	s.started = false

	s.host.Network().StopNotify(s.notifiee)
	s.host.RemoveStreamHandler(s.announceProtocol)
	s.host.RemoveStreamHandler(s.fetchProtocol)
	s.cancel()
	s.wg.Wait()

	s.outboundMutex.Lock()
	for id, out := range s.outboundStreams {
		_ = out.stream.Reset()
		delete(s.outboundStreams, id)
	}
	s.outboundMutex.Unlock()
	return nil
}

func (s *Service) connectBootnodes(bootnodes []peer.AddrInfo) {
	for _, info := range bootnodes {
		if info.ID == s.host.ID() {
			continue
		}
		if err := s.host.Connect(s.ctx, info); err != nil {
			logger.Warnf("connecting to bootnode %s: %s", info.ID, err)
			continue
		}
		logger.Debugf("connected to bootnode %s", info.ID)
	}
}

func (s *Service) connected(_ libp2pnetwork.Network, conn libp2pnetwork.Conn) {
	s.peerConnected(conn.RemotePeer())
}

func (s *Service) disconnected(n libp2pnetwork.Network, conn libp2pnetwork.Conn) {
	id := conn.RemotePeer()
	if n.Connectedness(id) == libp2pnetwork.Connected {
		return
	}
	s.handler.PeerDisconnected(id)
	s.closeOutbound(id)
}

func (s *Service) peerConnected(id peer.ID) {
	if err := s.handler.PeerConnected(id); err != nil {
		logger.Debugf("tracking peer %s: %s", id, err)
	}
}

func (s *Service) maxResponseSize() int {
	return s.cfg.MaxResponseSize
}

// ID returns the peer id of the host.
func (s *Service) ID() peer.ID {
	return s.host.ID()
}

// ReportPeer disconnects the misbehaving peer.
func (s *Service) ReportPeer(misbehaviour blocksync.PeerMisbehaviour) {
	reportedPeersCounter.Inc()
	logger.Warnf("disconnecting peer %s after %d consecutive violations",
		misbehaviour.Peer, misbehaviour.Violations)

	s.closeOutbound(misbehaviour.Peer)
	if err := s.host.Network().ClosePeer(misbehaviour.Peer); err != nil {
		logger.Debugf("closing connections to peer %s: %s", misbehaviour.Peer, err)
	}
}

// ReportEquivocation logs the equivocation evidence.
func (*Service) ReportEquivocation(report parachaintypes.EquivocationReport) {
	equivocationsCounter.Inc()
	logger.Warnf("validator %s equivocated: %s", report.Validator.Short(), report)
}

// ReportRelayViewUnavailable logs the relay chain outage.
func (*Service) ReportRelayViewUnavailable(err error) {
	logger.Errorf("relay chain view unavailable, only provisional heads are tracked: %s", err)
}
