// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/blocksync"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	libp2pnetwork "github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-msgio"
)

// maxAnnouncementSize bounds a single framed announcement.
const maxAnnouncementSize = 1 << 17

// outboundStream is the announcement stream opened towards a peer.
type outboundStream struct {
	mutex  sync.Mutex
	stream libp2pnetwork.Stream
	writer msgio.WriteCloser
}

func (o *outboundStream) write(data []byte) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.writer.WriteMsg(data)
}

func (s *Service) handshake() Handshake {
	hs := Handshake{
		Roles:       s.cfg.Roles,
		GenesisHash: s.cfg.GenesisHash,
	}
	if hash, number, ok := s.cfg.Blocks.BestBlock(); ok {
		hs.BestHash, hs.BestNumber = hash, number
	}
	return hs
}

// exchangeHandshake writes our handshake and reads the remote one. The
// inbound side reads first.
func (s *Service) exchangeHandshake(stream libp2pnetwork.Stream, inbound bool) (Handshake, error) {
	if err := stream.SetDeadline(time.Now().Add(s.cfg.HandshakeTimeout)); err != nil {
		logger.Tracef("setting handshake deadline: %s", err)
	}
	defer func() { _ = stream.SetDeadline(time.Time{}) }()

	ours := s.handshake()
	encoded, err := ours.Encode()
	if err != nil {
		return Handshake{}, err
	}

	reader := msgio.NewVarintReaderSize(stream, handshakeSize)
	writer := msgio.NewVarintWriter(stream)

	if !inbound {
		if err = writer.WriteMsg(encoded); err != nil {
			return Handshake{}, fmt.Errorf("writing handshake: %w", err)
		}
	}

	data, err := reader.ReadMsg()
	if err != nil {
		return Handshake{}, fmt.Errorf("reading handshake: %w", err)
	}
	theirs, err := decodeHandshake(data, s.cfg.GenesisHash)
	if err != nil {
		return Handshake{}, err
	}

	if inbound {
		if err = writer.WriteMsg(encoded); err != nil {
			return Handshake{}, fmt.Errorf("writing handshake: %w", err)
		}
	}
	return theirs, nil
}

// handleAnnounceStream reads the announcements of a remote peer until the
// stream is closed.
func (s *Service) handleAnnounceStream(stream libp2pnetwork.Stream) {
	remote := stream.Conn().RemotePeer()

	hs, err := s.exchangeHandshake(stream, true)
	if err != nil {
		handshakeFailuresCounter.Inc()
		logger.Debugf("handshake with peer %s failed: %s", remote, err)
		_ = stream.Reset()
		return
	}
	logger.Debugf("inbound announcement stream from %s: %s", remote, hs)

	reader := msgio.NewVarintReaderSize(stream, maxAnnouncementSize)
	for {
		data, err := reader.ReadMsg()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debugf("reading announcement from %s: %s", remote, err)
				_ = stream.Reset()
				return
			}
			_ = stream.Close()
			return
		}
		announcementsReceivedCounter.Inc()

		err = s.handler.HandleRawAnnouncement(remote, data)
		switch {
		case err == nil:
		case errors.Is(err, blocksync.ErrStopped):
			_ = stream.Reset()
			return
		default:
			logger.Tracef("handling announcement from %s: %s", remote, err)
		}
	}
}

// outbound returns the announcement stream to the peer, opening it if needed.
func (s *Service) outbound(ctx context.Context, id peer.ID) (*outboundStream, error) {
	s.outboundMutex.Lock()
	out, ok := s.outboundStreams[id]
	s.outboundMutex.Unlock()
	if ok {
		return out, nil
	}

	stream, err := s.host.NewStream(ctx, id, s.announceProtocol)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	hs, err := s.exchangeHandshake(stream, false)
	if err != nil {
		handshakeFailuresCounter.Inc()
		_ = stream.Reset()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	logger.Debugf("outbound announcement stream to %s: %s", id, hs)

	out = &outboundStream{
		stream: stream,
		writer: msgio.NewVarintWriter(stream),
	}

	s.outboundMutex.Lock()
	defer s.outboundMutex.Unlock()
	if existing, ok := s.outboundStreams[id]; ok {
		_ = stream.Close()
		return existing, nil
	}
	s.outboundStreams[id] = out
	return out, nil
}

func (s *Service) closeOutbound(id peer.ID) {
	s.outboundMutex.Lock()
	out, ok := s.outboundStreams[id]
	delete(s.outboundStreams, id)
	s.outboundMutex.Unlock()

	if ok {
		_ = out.stream.Reset()
	}
}

// Announce sends the announcement to every connected peer. Peers failing to
// receive it are logged and skipped.
func (s *Service) Announce(ctx context.Context, msg parachaintypes.AnnouncementMessage) error {
	data, err := parachaintypes.EncodeAnnouncement(msg)
	if err != nil {
		return fmt.Errorf("encoding announcement: %w", err)
	}

	for _, id := range s.host.Network().Peers() {
		if err = ctx.Err(); err != nil {
			return err
		}

		out, err := s.outbound(ctx, id)
		if err != nil {
			logger.Debugf("announcing %s to peer %s: %s", msg.Header, id, err)
			continue
		}
		if err = out.write(data); err != nil {
			logger.Debugf("announcing %s to peer %s: %s", msg.Header, id, err)
			s.closeOutbound(id)
			continue
		}
		announcementsSentCounter.Inc()
	}
	return nil
}
