// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blocksync

import (
	"errors"
	"fmt"

	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/lib/common"
)

// ErrInvalidResponse is returned by fetchers, and by the ancestry checks,
// for a block response the peer should not have sent. It counts as a
// peer violation.
var ErrInvalidResponse = errors.New("invalid block response")

var (
	errEmptyResponse  = errors.New("no block in response")
	errTooManyBlocks  = errors.New("too many blocks in response")
	errUnexpectedHead = errors.New("response does not start at the requested block")
	errBrokenAncestry = errors.New("block is not the parent of the previous block")
)

// verifyAncestry checks the blocks start at the requested hash and that each
// block is the parent of the previous one.
func verifyAncestry(start common.Hash, maxBlocks uint32, blocks []parachaintypes.CandidateBlock) error {
	switch {
	case len(blocks) == 0:
		return fmt.Errorf("%w: %w", ErrInvalidResponse, errEmptyResponse)
	case uint64(len(blocks)) > uint64(maxBlocks):
		return fmt.Errorf("%w: %w: %d > %d", ErrInvalidResponse, errTooManyBlocks, len(blocks), maxBlocks)
	}

	hash := blocks[0].Hash()
	if hash != start {
		return fmt.Errorf("%w: %w: expected %s, got %s",
			ErrInvalidResponse, errUnexpectedHead, start.Short(), hash.Short())
	}

	for i := 1; i < len(blocks); i++ {
		child := blocks[i-1].Header
		parentHash := blocks[i].Hash()
		if child.ParentHash != parentHash || blocks[i].Header.Number+1 != child.Number {
			return fmt.Errorf("%w: %w: #%d (%s)",
				ErrInvalidResponse, errBrokenAncestry, blocks[i].Header.Number, parentHash.Short())
		}
	}
	return nil
}
