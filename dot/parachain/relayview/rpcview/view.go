// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package rpcview

import (
	"context"
	"fmt"

	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/internal/log"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	lru "github.com/hashicorp/golang-lru/v2"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "rpcview"))

// View is a relay chain view backed by a relay chain node RPC endpoint.
type View struct {
	client     Client
	paraID     uint32
	pruneDepth uint32
	contexts   *lru.Cache[common.Hash, relayview.RelayParentContext]
}

var (
	_ relayview.View          = (*View)(nil)
	_ relayview.InclusionFeed = (*View)(nil)
)

// New creates a relay chain view for the parachain using the RPC client.
// Relay parents more than pruneDepth blocks behind the finalized block are
// reported as not found.
func New(client Client, paraID, pruneDepth uint32, cacheSize int) (*View, error) {
	contexts, err := lru.New[common.Hash, relayview.RelayParentContext](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating relay parent cache: %w", err)
	}

	return &View{
		client:     client,
		paraID:     paraID,
		pruneDepth: pruneDepth,
		contexts:   contexts,
	}, nil
}

// ValidatorsAt implements relayview.View.
func (v *View) ValidatorsAt(ctx context.Context, relayParent common.Hash) (
	relayParentContext relayview.RelayParentContext, err error) {
	relayParentContext, cached := v.contexts.Get(relayParent)
	if !cached {
		header, err := v.header(relayParent)
		if err != nil {
			return relayParentContext, err
		}

		keys, ok, err := v.client.ActiveValidatorKeys(types.Hash(relayParent))
		if err != nil {
			return relayParentContext, fmt.Errorf("%w: %w", relayview.ErrUnavailable, err)
		} else if !ok {
			return relayParentContext, fmt.Errorf("%w: no validator keys at %s", relayview.ErrNotFound, relayParent)
		}

		validators := make(relayview.ValidatorSet, len(keys))
		for _, key := range keys {
			validators[parachaintypes.ValidatorID(key)] = struct{}{}
		}
		relayParentContext = relayview.RelayParentContext{
			RelayParent: relayview.BlockRef{Hash: relayParent, Number: uint32(header.Number)},
			Validators:  validators,
		}
	}

	finalized, err := v.BestFinalized(ctx)
	if err != nil {
		return relayParentContext, err
	}
	if v.pruned(relayParentContext.RelayParent.Number, finalized.Number) {
		v.contexts.Remove(relayParent)
		return relayview.RelayParentContext{}, fmt.Errorf("%w: %s pruned behind finalized %s",
			relayview.ErrNotFound, relayParentContext.RelayParent, finalized)
	}

	if !cached {
		v.contexts.Add(relayParent, relayParentContext)
	}
	return relayParentContext, nil
}

// IsFinalized implements relayview.View.
func (v *View) IsFinalized(ctx context.Context, relayParent common.Hash) (bool, error) {
	header, err := v.header(relayParent)
	if err != nil {
		return false, err
	}

	finalized, err := v.BestFinalized(ctx)
	if err != nil {
		return false, err
	}

	number := uint32(header.Number)
	if number > finalized.Number {
		return false, nil
	}

	canonical, err := v.client.BlockHash(uint64(number))
	if err != nil {
		return false, fmt.Errorf("%w: %w", relayview.ErrUnavailable, err)
	}
	return common.Hash(canonical) == relayParent, nil
}

// BestFinalized implements relayview.View.
func (v *View) BestFinalized(context.Context) (relayview.BlockRef, error) {
	hash, err := v.client.FinalizedHead()
	if err != nil {
		return relayview.BlockRef{}, fmt.Errorf("%w: %w", relayview.ErrUnavailable, err)
	}

	header, err := v.header(common.Hash(hash))
	if err != nil {
		return relayview.BlockRef{}, err
	}

	return relayview.BlockRef{Hash: common.Hash(hash), Number: uint32(header.Number)}, nil
}

// SubscribeInclusions implements relayview.InclusionFeed. It watches the
// parachain head stored in the relay chain state of every finalized relay
// block and notifies each change.
func (v *View) SubscribeInclusions(ctx context.Context) (<-chan relayview.Inclusion, error) {
	headers, err := v.client.FinalizedHeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", relayview.ErrUnavailable, err)
	}

	inclusions := make(chan relayview.Inclusion)
	go func() {
		defer close(inclusions)

		var lastIncluded common.Hash
		for header := range headers {
			inclusion, err := v.inclusionAt(header)
			if err != nil {
				logger.Debugf("reading para head at relay block #%d: %s", header.Number, err)
				continue
			}
			if inclusion.CandidateHash == lastIncluded {
				continue
			}
			lastIncluded = inclusion.CandidateHash

			select {
			case inclusions <- inclusion:
			case <-ctx.Done():
				return
			}
		}
	}()

	return inclusions, nil
}

func (v *View) inclusionAt(header types.Header) (inclusion relayview.Inclusion, err error) {
	hash, err := v.client.BlockHash(uint64(header.Number))
	if err != nil {
		return inclusion, fmt.Errorf("getting block hash: %w", err)
	}

	head, ok, err := v.client.ParaHead(hash, v.paraID)
	if err != nil {
		return inclusion, err
	} else if !ok {
		return inclusion, fmt.Errorf("no head for para %d", v.paraID)
	}

	candidateHash, err := common.Blake2bHash(head)
	if err != nil {
		return inclusion, fmt.Errorf("hashing para head: %w", err)
	}

	return relayview.Inclusion{
		CandidateHash: candidateHash,
		RelayBlock:    relayview.BlockRef{Hash: common.Hash(hash), Number: uint32(header.Number)},
	}, nil
}

func (v *View) header(hash common.Hash) (*types.Header, error) {
	header, err := v.client.Header(types.Hash(hash))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", relayview.ErrUnavailable, err)
	} else if header == nil {
		return nil, fmt.Errorf("%w: %s", relayview.ErrNotFound, hash)
	}
	return header, nil
}

func (v *View) pruned(number, finalizedNumber uint32) bool {
	return finalizedNumber > v.pruneDepth && number < finalizedNumber-v.pruneDepth
}
