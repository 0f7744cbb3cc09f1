// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package relayview

import (
	"context"
	"errors"
	"fmt"

	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/lib/common"
)

var (
	// ErrNotFound is returned when a relay block is unknown or was pruned.
	ErrNotFound = errors.New("relay parent not found")
	// ErrUnavailable is returned when the relay chain client cannot be reached.
	ErrUnavailable = errors.New("relay chain view unavailable")
	// ErrTimeout is returned together with ErrNotFound when a lookup did not
	// resolve in time.
	ErrTimeout = errors.New("relay chain lookup timed out")
)

// BlockRef references a relay chain block.
type BlockRef struct {
	Hash   common.Hash
	Number uint32
}

func (b BlockRef) String() string {
	return fmt.Sprintf("#%d (%s)", b.Number, b.Hash.Short())
}

// ValidatorSet is the set of validators assigned to the parachain.
type ValidatorSet map[parachaintypes.ValidatorID]struct{}

// NewValidatorSet creates a validator set from the given validator ids.
func NewValidatorSet(validators ...parachaintypes.ValidatorID) ValidatorSet {
	set := make(ValidatorSet, len(validators))
	for _, validator := range validators {
		set[validator] = struct{}{}
	}
	return set
}

// Contains returns true if the validator is part of the set.
func (s ValidatorSet) Contains(validator parachaintypes.ValidatorID) bool {
	_, ok := s[validator]
	return ok
}

// RelayParentContext is the validator assignment as of a relay block.
type RelayParentContext struct {
	RelayParent BlockRef
	Validators  ValidatorSet
}

// Inclusion notifies that a candidate was included in the relay chain.
type Inclusion struct {
	CandidateHash common.Hash
	RelayBlock    BlockRef
}

// View is the read only view of the relay chain.
type View interface {
	// ValidatorsAt returns the parachain validators active at the relay parent.
	// It returns an error wrapping ErrNotFound if the relay parent is unknown or pruned.
	ValidatorsAt(ctx context.Context, relayParent common.Hash) (RelayParentContext, error)
	// IsFinalized returns true if the relay block is finalized.
	IsFinalized(ctx context.Context, relayParent common.Hash) (bool, error)
	// BestFinalized returns the latest finalized relay block.
	BestFinalized(ctx context.Context) (BlockRef, error)
}

// InclusionFeed delivers candidate inclusion notifications.
// The returned channel is closed once the context is done.
type InclusionFeed interface {
	SubscribeInclusions(ctx context.Context) (<-chan Inclusion, error)
}
