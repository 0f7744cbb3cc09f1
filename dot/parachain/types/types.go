// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package parachaintypes

import (
	"bytes"
	"fmt"

	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/ChainSafe/gossamer-collator/lib/crypto/sr25519"
)

const (
	// MaxBodySize is the maximum size of a candidate block body.
	MaxBodySize = 1 << 24
)

// ValidatorID is the sr25519 public key of a relay chain validator.
type ValidatorID [sr25519.PublicKeyLength]byte

// String returns the hex representation of the validator id
func (v ValidatorID) String() string {
	return fmt.Sprintf("0x%x", v[:])
}

// Short returns the first and last 4 bytes of the validator id.
func (v ValidatorID) Short() string {
	return common.Hash(v).Short()
}

// ValidatorSignature is a sr25519 signature produced by a relay chain validator.
type ValidatorSignature [sr25519.SignatureLength]byte

// String returns the hex representation of the signature
func (v ValidatorSignature) String() string {
	return fmt.Sprintf("0x%x", v[:])
}

// Header is the header of a parachain candidate block.
type Header struct {
	ParentHash     common.Hash
	Number         uint32
	StateRoot      common.Hash
	ExtrinsicsRoot common.Hash
	Digest         Digest
}

// Hash returns the blake2b hash of the SCALE encoded header.
// Headers exceeding the wire limits still hash, see Validate.
func (h Header) Hash() common.Hash {
	buf := bytes.NewBuffer(nil)
	// writes to a bytes.Buffer and unbounded lengths cannot fail
	_, _ = h.encode(newEncoder(buf), false)
	return common.MustBlake2bHash(buf.Bytes())
}

// Validate returns an error if the header cannot be put on the wire.
func (h Header) Validate() error {
	if err := h.Digest.Validate(); err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	return nil
}

func (h Header) String() string {
	return fmt.Sprintf("#%d (parent %s)", h.Number, h.ParentHash.Short())
}

// CandidateBlock is a parachain block produced by a collator.
type CandidateBlock struct {
	Header Header
	// Body is the opaque runtime specific block body.
	Body []byte
}

// Hash returns the hash of the block header.
func (b CandidateBlock) Hash() common.Hash {
	return b.Header.Hash()
}
