// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package parachaintypes

import (
	"errors"
	"fmt"
	"math"

	"github.com/spacemeshos/go-scale"
)

const (
	// MaxDigestItems is the maximum number of items in a header digest.
	MaxDigestItems = 64
	// MaxDigestSize is the maximum size of a digest item payload.
	MaxDigestSize = 1 << 16
)

var (
	// ErrInvalidDigest is returned for a digest exceeding the limits or holding
	// an item that cannot be encoded.
	ErrInvalidDigest = errors.New("invalid digest")
	// ErrUnknownDigestItem is returned for a digest item type not understood.
	ErrUnknownDigestItem = errors.New("unknown digest item type")
)

// ConsensusEngineID is a 4-character identifier of the consensus engine that produced a digest item.
type ConsensusEngineID [4]byte

// AuraEngineID is the aura consensus engine id used by collators.
var AuraEngineID = ConsensusEngineID{'a', 'u', 'r', 'a'}

// DigestItemType is the index of a digest item variant.
type DigestItemType byte

const (
	// OtherDigest is an item with an opaque payload.
	OtherDigest DigestItemType = 0
	// ConsensusDigest is a message from the runtime to the consensus engine.
	ConsensusDigest DigestItemType = 4
	// SealDigest is a seal put by the block author.
	SealDigest DigestItemType = 5
	// PreRuntimeDigest is a pre-runtime message from the consensus engine.
	PreRuntimeDigest DigestItemType = 6
	// RuntimeEnvironmentUpdatedDigest signals a runtime code or heap pages change.
	RuntimeEnvironmentUpdatedDigest DigestItemType = 8
)

func (t DigestItemType) String() string {
	switch t {
	case OtherDigest:
		return "other"
	case ConsensusDigest:
		return "consensus"
	case SealDigest:
		return "seal"
	case PreRuntimeDigest:
		return "pre-runtime"
	case RuntimeEnvironmentUpdatedDigest:
		return "runtime-environment-updated"
	default:
		return fmt.Sprintf("digest-item(%d)", byte(t))
	}
}

func (t DigestItemType) known() bool {
	switch t {
	case OtherDigest, ConsensusDigest, SealDigest, PreRuntimeDigest, RuntimeEnvironmentUpdatedDigest:
		return true
	default:
		return false
	}
}

func (t DigestItemType) hasEngine() bool {
	return t == ConsensusDigest || t == SealDigest || t == PreRuntimeDigest
}

// DigestItem is a single header digest item.
type DigestItem struct {
	Type DigestItemType
	// Engine is only encoded for consensus, seal and pre-runtime items.
	Engine ConsensusEngineID
	// Data is empty for runtime environment updated items.
	Data []byte
}

// Digest is the list of items of a header digest, encoded as a SCALE vector.
type Digest []DigestItem

// Validate returns an error wrapping ErrInvalidDigest if the digest cannot
// be put on the wire.
func (d Digest) Validate() error {
	if len(d) > MaxDigestItems {
		return fmt.Errorf("%w: %d items exceed %d", ErrInvalidDigest, len(d), MaxDigestItems)
	}
	for i, item := range d {
		switch {
		case !item.Type.known():
			return fmt.Errorf("%w: item %d: %w: %d", ErrInvalidDigest, i, ErrUnknownDigestItem, byte(item.Type))
		case len(item.Data) > MaxDigestSize:
			return fmt.Errorf("%w: item %d payload of %d bytes exceeds %d",
				ErrInvalidDigest, i, len(item.Data), MaxDigestSize)
		case item.Type == RuntimeEnvironmentUpdatedDigest && len(item.Data) > 0:
			return fmt.Errorf("%w: item %d: %s item with a payload", ErrInvalidDigest, i, item.Type)
		}
	}
	return nil
}

// encode writes the digest. Unbounded encoding skips the limits and is
// only used to hash headers.
func (d Digest) encode(enc *scale.Encoder, bounded bool) (int, error) {
	if bounded {
		if err := d.Validate(); err != nil {
			return 0, err
		}
	}

	total, err := scale.EncodeCompact32(enc, uint32(len(d)))
	if err != nil {
		return total, err
	}
	for i := range d {
		n, err := d[i].encode(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (d *Digest) decode(dec *scale.Decoder) (int, error) {
	count, total, err := scale.DecodeLen(dec, MaxDigestItems)
	if err != nil {
		return total, fmt.Errorf("decoding item count: %w", err)
	}

	if count == 0 {
		*d = nil
		return total, nil
	}

	items := make(Digest, count)
	for i := range items {
		n, err := items[i].decode(dec)
		total += n
		if err != nil {
			return total, fmt.Errorf("decoding item %d: %w", i, err)
		}
	}
	*d = items
	return total, nil
}

func (item *DigestItem) encode(enc *scale.Encoder) (int, error) {
	total, err := scale.EncodeByte(enc, byte(item.Type))
	if err != nil {
		return total, err
	}
	if item.Type.hasEngine() {
		n, err := scale.EncodeByteArray(enc, item.Engine[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	if item.Type == RuntimeEnvironmentUpdatedDigest {
		return total, nil
	}
	n, err := scale.EncodeByteSliceWithLimit(enc, item.Data, math.MaxUint32)
	if err != nil {
		return total, err
	}
	return total + n, nil
}

func (item *DigestItem) decode(dec *scale.Decoder) (int, error) {
	kind, total, err := scale.DecodeByte(dec)
	if err != nil {
		return total, fmt.Errorf("decoding type: %w", err)
	}
	item.Type = DigestItemType(kind)
	if !item.Type.known() {
		return total, fmt.Errorf("%w: %d", ErrUnknownDigestItem, kind)
	}

	if item.Type.hasEngine() {
		n, err := scale.DecodeByteArray(dec, item.Engine[:])
		total += n
		if err != nil {
			return total, fmt.Errorf("decoding engine id: %w", err)
		}
	}
	if item.Type == RuntimeEnvironmentUpdatedDigest {
		return total, nil
	}

	data, n, err := scale.DecodeByteSliceWithLimit(dec, MaxDigestSize)
	total += n
	if err != nil {
		return total, fmt.Errorf("decoding payload: %w", err)
	}
	item.Data = data
	return total, nil
}
