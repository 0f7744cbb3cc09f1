// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

import (
	"bytes"
	"fmt"

	"github.com/ChainSafe/gossamer-collator/lib/common"
)

// PeerState is the synchronisation state of a peer.
type PeerState uint8

const (
	// Unknown is the state of a peer that did not send an accepted announcement yet.
	Unknown PeerState = iota
	// Tracking is the state of a peer whose authorized head is followed.
	Tracking
	// Stalled is the state of a peer that misbehaved or went quiet.
	Stalled
)

func (s PeerState) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Tracking:
		return "tracking"
	case Stalled:
		return "stalled"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(s))
	}
}

// HeadRef references an announced parachain head.
type HeadRef struct {
	Hash   common.Hash
	Number uint32
	// Authorized is true for heads attested by an active validator or
	// included in the relay chain.
	Authorized bool
}

func (h HeadRef) String() string {
	if h.Authorized {
		return fmt.Sprintf("#%d (%s)", h.Number, h.Hash.Short())
	}
	return fmt.Sprintf("#%d (%s, provisional)", h.Number, h.Hash.Short())
}

// better returns true if h is preferred over other. The greater number wins,
// then an authorized head wins over a provisional one, then the lower hash.
func (h HeadRef) better(other HeadRef) bool {
	if h.Number != other.Number {
		return h.Number > other.Number
	}
	if h.Authorized != other.Authorized {
		return h.Authorized
	}
	return bytes.Compare(h.Hash[:], other.Hash[:]) < 0
}

// Stats counts the outcomes of the announcements received from a peer.
type Stats struct {
	Accepted    uint64
	Provisional uint64
	Rejected    uint64
	RateLimited uint64
	// Dropped counts the announcements dropped because the peer inbox was full.
	Dropped uint64
	// Malformed counts the announcements that could not be decoded.
	Malformed uint64
}

// Total returns the number of announcements received.
func (s Stats) Total() uint64 {
	return s.Accepted + s.Provisional + s.Rejected + s.RateLimited + s.Dropped + s.Malformed
}

// PeerView is the synchronisation state kept for a connected peer.
type PeerView struct {
	State PeerState
	// BestHead is the authorized best head, nil until one is accepted.
	BestHead *HeadRef
	// ProvisionalHead is the last provisional head announced.
	ProvisionalHead *HeadRef
	// Provisional holds the tracked provisional candidates, oldest first.
	Provisional     []HeadRef
	LastRelayParent *common.Hash
	// PendingFetch is the head being fetched, if any.
	PendingFetch *HeadRef
	Violations   uint32
	Stats        Stats
}
