// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

import (
	"context"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/announcement"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/libp2p/go-libp2p/core/peer"
)

// AnnouncementValidator validates announcements against the relay chain.
type AnnouncementValidator interface {
	Validate(ctx context.Context, msg parachaintypes.AnnouncementMessage) announcement.Outcome
}

// RelayHealth tells whether the relay chain view can be reached.
type RelayHealth interface {
	BestFinalized(ctx context.Context) (relayview.BlockRef, error)
}

// Announcer sends an announcement to every connected peer.
type Announcer interface {
	Announce(ctx context.Context, msg parachaintypes.AnnouncementMessage) error
}

// PeerMisbehaviour describes a peer that crossed the consecutive rejections bound.
type PeerMisbehaviour struct {
	Peer       peer.ID
	Violations uint32
}

// Reporter receives the events that must be surfaced out of the coordinator.
type Reporter interface {
	ReportEquivocation(report parachaintypes.EquivocationReport)
	ReportPeer(misbehaviour PeerMisbehaviour)
	ReportRelayViewUnavailable(err error)
}

// Importer hands fetched authorized blocks to the runtime.
type Importer interface {
	ImportBlock(ctx context.Context, block parachaintypes.CandidateBlock) error
}

// Fetcher requests blocks from a peer. Returned blocks start at from and
// each following block is the parent of the previous one.
type Fetcher interface {
	FetchBlocks(ctx context.Context, from peer.ID, start common.Hash, maxBlocks uint32) (
		[]parachaintypes.CandidateBlock, error)
}

// BlockStore answers whether a block is locally known.
type BlockStore interface {
	HasBlock(hash common.Hash) (bool, error)
}
