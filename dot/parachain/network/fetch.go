// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/blockstore"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/blocksync"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	libp2pnetwork "github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-msgio"
	"github.com/spacemeshos/go-scale"
)

// responseStatus is the first byte of a block response.
type responseStatus byte

const (
	statusSuccess        responseStatus = 0
	statusInvalidRequest responseStatus = 1
	statusServerError    responseStatus = 2
)

func (s responseStatus) String() string {
	switch s {
	case statusSuccess:
		return "success"
	case statusInvalidRequest:
		return "invalid request"
	case statusServerError:
		return "server error"
	default:
		return fmt.Sprintf("status(%d)", byte(s))
	}
}

const maxBlockRequestSize = common.HashLength + 5

var (
	errRequestRejected = errors.New("block request rejected by peer")
	errPeerServerError = errors.New("peer failed to serve block request")
)

// BlockRequest asks for up to Max blocks starting at From and walking
// towards the genesis.
type BlockRequest struct {
	From common.Hash
	Max  uint32
}

func (r BlockRequest) String() string {
	return fmt.Sprintf("BlockRequest from=%s max=%d", r.From.Short(), r.Max)
}

// EncodeScale implements scale.Encodable.
func (r *BlockRequest) EncodeScale(enc *scale.Encoder) (total int, err error) {
	n, err := scale.EncodeByteArray(enc, r.From[:])
	if err != nil {
		return total, err
	}
	total += n

	n, err = scale.EncodeCompact32(enc, r.Max)
	if err != nil {
		return total, err
	}
	return total + n, nil
}

// DecodeScale implements scale.Decodable.
func (r *BlockRequest) DecodeScale(dec *scale.Decoder) (total int, err error) {
	n, err := scale.DecodeByteArray(dec, r.From[:])
	if err != nil {
		return total, fmt.Errorf("decoding from: %w", err)
	}
	total += n

	r.Max, n, err = scale.DecodeCompact32(dec)
	if err != nil {
		return total, fmt.Errorf("decoding max: %w", err)
	}
	return total + n, nil
}

func decodeBlockRequest(data []byte) (req BlockRequest, err error) {
	n, err := req.DecodeScale(scale.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return req, err
	}
	if n != len(data) {
		return req, fmt.Errorf("%w: %d bytes", parachaintypes.ErrTrailingBytes, len(data)-n)
	}
	return req, nil
}

// handleBlockFetchStream serves a single block request.
func (s *Service) handleBlockFetchStream(stream libp2pnetwork.Stream) {
	defer func() {
		if err := stream.Close(); err != nil {
			logger.Tracef("closing block fetch stream: %s", err)
		}
	}()

	remote := stream.Conn().RemotePeer()
	if err := stream.SetDeadline(time.Now().Add(s.cfg.RequestTimeout)); err != nil {
		logger.Debugf("setting deadline on block fetch stream from %s: %s", remote, err)
	}

	status, payload := s.serveBlockRequest(remote, stream)
	fetchRequestsCounter.WithLabelValues(status.String()).Inc()

	response := make([]byte, 0, 1+len(payload))
	response = append(response, byte(status))
	response = append(response, payload...)
	if err := msgio.NewVarintWriter(stream).WriteMsg(response); err != nil {
		logger.Debugf("writing block response to %s: %s", remote, err)
		_ = stream.Reset()
	}
}

func (s *Service) serveBlockRequest(remote peer.ID, stream libp2pnetwork.Stream) (
	status responseStatus, payload []byte) {
	data, err := msgio.NewVarintReaderSize(stream, maxBlockRequestSize).ReadMsg()
	if err != nil {
		logger.Debugf("reading block request from %s: %s", remote, err)
		return statusInvalidRequest, nil
	}

	req, err := decodeBlockRequest(data)
	if err != nil {
		logger.Debugf("decoding block request from %s: %s", remote, err)
		return statusInvalidRequest, nil
	}
	if req.Max == 0 || req.Max > s.cfg.MaxBlockFetch {
		logger.Debugf("invalid %s from %s", req, remote)
		return statusInvalidRequest, nil
	}

	blocks, err := s.cfg.Blocks.Ancestry(req.From, req.Max)
	switch {
	case errors.Is(err, blockstore.ErrBlockNotFound):
		blocks = nil
	case err != nil:
		logger.Errorf("serving %s from %s: %s", req, remote, err)
		return statusServerError, nil
	}

	encoded, err := parachaintypes.EncodeBlocks(blocks)
	if err != nil {
		logger.Errorf("encoding blocks for %s: %s", req, err)
		return statusServerError, nil
	}
	payload, err = maybeCompress(encoded)
	if err != nil {
		logger.Errorf("compressing blocks for %s: %s", req, err)
		return statusServerError, nil
	}

	logger.Tracef("serving %d blocks for %s to %s", len(blocks), req, remote)
	return statusSuccess, payload
}

// FetchBlocks requests up to maxBlocks blocks from the peer, starting at
// start. Undecodable responses are wrapped with blocksync.ErrInvalidResponse.
func (s *Service) FetchBlocks(ctx context.Context, from peer.ID, start common.Hash, maxBlocks uint32) (
	[]parachaintypes.CandidateBlock, error) {
	stream, err := s.host.NewStream(ctx, from, s.fetchProtocol)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			logger.Tracef("closing block fetch stream: %s", err)
		}
	}()

	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetDeadline(deadline)
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = stream.Reset()
		case <-done:
		}
	}()

	req := BlockRequest{From: start, Max: maxBlocks}
	buf := bytes.NewBuffer(make([]byte, 0, maxBlockRequestSize))
	if _, err = req.EncodeScale(scale.NewEncoder(buf)); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", req, err)
	}
	if err = msgio.NewVarintWriter(stream).WriteMsg(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("writing %s: %w", req, err)
	}
	if err = stream.CloseWrite(); err != nil {
		return nil, fmt.Errorf("closing write side: %w", err)
	}

	response, err := msgio.NewVarintReaderSize(stream, s.maxResponseSize()).ReadMsg()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return decodeBlockResponse(response, maxBlocks, uint64(s.maxResponseSize()))
}

func decodeBlockResponse(response []byte, maxBlocks uint32, bombLimit uint64) (
	[]parachaintypes.CandidateBlock, error) {
	if len(response) == 0 {
		return nil, fmt.Errorf("%w: empty response", blocksync.ErrInvalidResponse)
	}

	switch status := responseStatus(response[0]); status {
	case statusSuccess:
	case statusInvalidRequest:
		return nil, errRequestRejected
	case statusServerError:
		return nil, errPeerServerError
	default:
		return nil, fmt.Errorf("%w: unknown %s", blocksync.ErrInvalidResponse, status)
	}

	payload, err := maybeDecompress(response[1:], bombLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", blocksync.ErrInvalidResponse, err)
	}
	blocks, err := parachaintypes.DecodeBlocks(payload, maxBlocks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", blocksync.ErrInvalidResponse, err)
	}
	return blocks, nil
}
