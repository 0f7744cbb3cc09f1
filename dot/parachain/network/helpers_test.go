// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/blockstore"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/libp2p/go-libp2p/core/peer"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	"github.com/stretchr/testify/require"
)

var testGenesis = common.Hash{0x01, 0x02}

type rawAnnouncement struct {
	from peer.ID
	data []byte
}

// recordingHandler records the events it receives.
type recordingHandler struct {
	mutex         sync.Mutex
	connected     map[peer.ID]int
	disconnected  map[peer.ID]int
	announcements chan rawAnnouncement
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		connected:     make(map[peer.ID]int),
		disconnected:  make(map[peer.ID]int),
		announcements: make(chan rawAnnouncement, 16),
	}
}

func (r *recordingHandler) PeerConnected(id peer.ID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.connected[id]++
	return nil
}

func (r *recordingHandler) PeerDisconnected(id peer.ID) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.disconnected[id]++
}

func (r *recordingHandler) HandleRawAnnouncement(id peer.ID, data []byte) error {
	r.announcements <- rawAnnouncement{from: id, data: data}
	return nil
}

func (r *recordingHandler) connections(id peer.ID) (connected, disconnected int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.connected[id], r.disconnected[id]
}

type testNode struct {
	service *Service
	handler *recordingHandler
	store   *blockstore.BlockStore
}

func newTestNode(t *testing.T, mn mocknet.Mocknet, genesis common.Hash) testNode {
	t.Helper()

	h, err := mn.GenPeer()
	require.NoError(t, err)

	store, err := blockstore.Open(t.TempDir(), true)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	service, err := NewService(Config{
		Host:             h,
		GenesisHash:      genesis,
		Blocks:           store,
		HandshakeTimeout: time.Second,
		RequestTimeout:   time.Second,
		MaxBlockFetch:    8,
	})
	require.NoError(t, err)

	handler := newRecordingHandler()
	service.SetAnnouncementHandler(handler)

	return testNode{service: service, handler: handler, store: store}
}

func (n testNode) start(t *testing.T) {
	t.Helper()
	require.NoError(t, n.service.Start(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, n.service.Stop())
	})
}

func newChain(length int, bodySize int) []parachaintypes.CandidateBlock {
	blocks := make([]parachaintypes.CandidateBlock, length)
	var parent common.Hash
	for i := range blocks {
		body := make([]byte, bodySize)
		for j := range body {
			body[j] = byte(i)
		}
		blocks[i] = parachaintypes.CandidateBlock{
			Header: parachaintypes.Header{
				ParentHash: parent,
				Number:     uint32(i),
				StateRoot:  common.Hash{byte(i)},
				Digest:     parachaintypes.Digest{{Type: parachaintypes.OtherDigest, Data: []byte{0xd1}}},
			},
			Body: body,
		}
		parent = blocks[i].Hash()
	}
	return blocks
}

func importChain(t *testing.T, store *blockstore.BlockStore, blocks []parachaintypes.CandidateBlock) {
	t.Helper()
	for _, block := range blocks {
		require.NoError(t, store.ImportBlock(context.Background(), block))
	}
}

func connectAll(t *testing.T, mn mocknet.Mocknet) {
	t.Helper()
	require.NoError(t, mn.LinkAll())
	require.NoError(t, mn.ConnectAllButSelf())
}
