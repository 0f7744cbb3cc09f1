// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

import (
	"context"
	"testing"
	"time"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/announcement"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/guard"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/ChainSafe/gossamer-collator/lib/crypto/sr25519"
	"github.com/jonboulle/clockwork"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	peer1 = peer.ID("peer-1")
	peer2 = peer.ID("peer-2")
)

type testEnv struct {
	view        *relayview.MemoryView
	relayParent relayview.BlockRef
	validator   *sr25519.Keypair
	clock       clockwork.FakeClock
	reporter    *MockReporter
	importer    *MockImporter
	fetcher     *MockFetcher
	store       *MockBlockStore
	cfg         Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	validator, err := sr25519.GenerateKeypair()
	require.NoError(t, err)

	relayParent := relayview.BlockRef{Hash: common.Hash{0xaa}, Number: 100}
	view := relayview.NewMemoryView(256)
	view.ImportBlock(relayParent, validator.Public().AsBytes())

	env := &testEnv{
		view:        view,
		relayParent: relayParent,
		validator:   validator,
		clock:       clockwork.NewFakeClock(),
		reporter:    NewMockReporter(ctrl),
		importer:    NewMockImporter(ctrl),
		fetcher:     NewMockFetcher(ctrl),
		store:       NewMockBlockStore(ctrl),
	}

	env.cfg = Config{
		Guard: guard.Config{
			AnnouncementsPerSecond:    10,
			AnnouncementBurst:         20,
			MaxUnauthorizedCandidates: 4,
			MaxConsecutiveRejections:  8,
			EquivocationCacheSize:     64,
		},
		InboxSize:         64,
		StallTimeout:      30 * time.Second,
		FetchTimeout:      20 * time.Second,
		AuthTableCapacity: 128,
		MaxAncestry:       16,
		Validator:         announcement.NewValidator(view),
		Reporter:          env.reporter,
		Importer:          env.importer,
		Fetcher:           env.fetcher,
		BlockStore:        env.store,
		Clock:             env.clock,
	}
	return env
}

// knowAllBlocks makes every block locally known so no fetch is scheduled.
func (e *testEnv) knowAllBlocks() {
	e.store.EXPECT().HasBlock(gomock.Any()).Return(true, nil).AnyTimes()
}

func (e *testEnv) newCoordinator(t *testing.T, peers ...peer.ID) *Coordinator {
	t.Helper()

	coordinator, err := NewCoordinator(e.cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		err := coordinator.Stop()
		require.NoError(t, err)
	})

	for _, id := range peers {
		err = coordinator.PeerConnected(id)
		require.NoError(t, err)
	}
	return coordinator
}

func (e *testEnv) attested(t *testing.T, header parachaintypes.Header) parachaintypes.AnnouncementMessage {
	t.Helper()
	return e.attestedCandidate(t, header, header.Hash())
}

func (e *testEnv) attestedCandidate(t *testing.T, header parachaintypes.Header,
	candidate common.Hash) parachaintypes.AnnouncementMessage {
	t.Helper()

	att, err := parachaintypes.SignAttestation(e.validator, e.relayParent.Hash, candidate)
	require.NoError(t, err)
	return parachaintypes.AnnouncementMessage{Header: header, Attestation: &att}
}

func provisional(header parachaintypes.Header) parachaintypes.AnnouncementMessage {
	return parachaintypes.AnnouncementMessage{Header: header}
}

func newHeader(number uint32, salt byte) parachaintypes.Header {
	return parachaintypes.Header{
		ParentHash: common.Hash{salt, byte(number)},
		Number:     number,
		StateRoot:  common.Hash{salt},
		Digest:     otherDigest(salt),
	}
}

func otherDigest(data ...byte) parachaintypes.Digest {
	return parachaintypes.Digest{{Type: parachaintypes.OtherDigest, Data: data}}
}

func newChain(length int, salt byte) []parachaintypes.CandidateBlock {
	blocks := make([]parachaintypes.CandidateBlock, length)
	var parent common.Hash
	for i := range blocks {
		blocks[i] = parachaintypes.CandidateBlock{
			Header: parachaintypes.Header{
				ParentHash: parent,
				Number:     uint32(i),
				StateRoot:  common.Hash{salt, byte(i)},
				Digest:     otherDigest(salt),
			},
			Body: []byte{byte(i)},
		}
		parent = blocks[i].Hash()
	}
	return blocks
}

func waitForView(t *testing.T, coordinator *Coordinator, id peer.ID,
	condition func(view PeerView) bool) PeerView {
	t.Helper()

	var view PeerView
	require.Eventually(t, func() bool {
		current, err := coordinator.PeerView(context.Background(), id)
		if err != nil {
			return false
		}
		view = current
		return condition(current)
	}, 5*time.Second, 5*time.Millisecond)
	return view
}

func processed(count uint64) func(view PeerView) bool {
	return func(view PeerView) bool {
		return view.Stats.Total() == count
	}
}

func headRef(header parachaintypes.Header, authorized bool) *HeadRef {
	return &HeadRef{Hash: header.Hash(), Number: header.Number, Authorized: authorized}
}
