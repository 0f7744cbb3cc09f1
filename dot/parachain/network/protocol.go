// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/spacemeshos/go-scale"
)

const (
	announceProtocolFormat   = "/%s/para-announce/1"
	blockFetchProtocolFormat = "/%s/para-block-fetch/1"

	handshakeSize = 1 + 4 + 2*common.HashLength
)

var (
	errGenesisMismatch  = errors.New("genesis hash mismatch")
	errInvalidHandshake = errors.New("invalid handshake")
)

func announceProtocol(genesis common.Hash) protocol.ID {
	return protocol.ID(fmt.Sprintf(announceProtocolFormat, hex.EncodeToString(genesis[:])))
}

func blockFetchProtocol(genesis common.Hash) protocol.ID {
	return protocol.ID(fmt.Sprintf(blockFetchProtocolFormat, hex.EncodeToString(genesis[:])))
}

// Roles are the roles a node announces in its handshake.
type Roles byte

const (
	// RoleFull is a full node.
	RoleFull Roles = 1
	// RoleLight is a light client.
	RoleLight Roles = 2
	// RoleAuthority is a collator authoring blocks.
	RoleAuthority Roles = 4
)

func (r Roles) String() string {
	switch r {
	case RoleFull:
		return "full"
	case RoleLight:
		return "light"
	case RoleAuthority:
		return "authority"
	default:
		return fmt.Sprintf("roles(%d)", byte(r))
	}
}

// Handshake is exchanged when an announcement stream is opened.
type Handshake struct {
	Roles       Roles
	BestNumber  uint32
	BestHash    common.Hash
	GenesisHash common.Hash
}

func (h Handshake) String() string {
	return fmt.Sprintf("Handshake roles=%s best=#%d (%s) genesis=%s",
		h.Roles, h.BestNumber, h.BestHash.Short(), h.GenesisHash.Short())
}

// EncodeScale implements scale.Encodable.
func (h *Handshake) EncodeScale(enc *scale.Encoder) (total int, err error) {
	n, err := scale.EncodeByte(enc, byte(h.Roles))
	if err != nil {
		return total, err
	}
	total += n

	n, err = scale.EncodeUint32(enc, h.BestNumber)
	if err != nil {
		return total, err
	}
	total += n

	n, err = scale.EncodeByteArray(enc, h.BestHash[:])
	if err != nil {
		return total, err
	}
	total += n

	n, err = scale.EncodeByteArray(enc, h.GenesisHash[:])
	if err != nil {
		return total, err
	}
	return total + n, nil
}

// DecodeScale implements scale.Decodable.
func (h *Handshake) DecodeScale(dec *scale.Decoder) (total int, err error) {
	roles, n, err := scale.DecodeByte(dec)
	if err != nil {
		return total, fmt.Errorf("decoding roles: %w", err)
	}
	total += n
	h.Roles = Roles(roles)

	h.BestNumber, n, err = scale.DecodeUint32(dec)
	if err != nil {
		return total, fmt.Errorf("decoding best number: %w", err)
	}
	total += n

	n, err = scale.DecodeByteArray(dec, h.BestHash[:])
	if err != nil {
		return total, fmt.Errorf("decoding best hash: %w", err)
	}
	total += n

	n, err = scale.DecodeByteArray(dec, h.GenesisHash[:])
	if err != nil {
		return total, fmt.Errorf("decoding genesis hash: %w", err)
	}
	return total + n, nil
}

// Encode returns the SCALE encoding of the handshake.
func (h *Handshake) Encode() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, handshakeSize))
	if _, err := h.EncodeScale(scale.NewEncoder(buf)); err != nil {
		return nil, fmt.Errorf("encoding handshake: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeHandshake decodes a handshake and checks it was made for the given genesis.
func decodeHandshake(data []byte, genesis common.Hash) (hs Handshake, err error) {
	if len(data) != handshakeSize {
		return hs, fmt.Errorf("%w: %d bytes", errInvalidHandshake, len(data))
	}
	if _, err = hs.DecodeScale(scale.NewDecoder(bytes.NewReader(data))); err != nil {
		return hs, fmt.Errorf("%w: %w", errInvalidHandshake, err)
	}
	if hs.GenesisHash != genesis {
		return hs, fmt.Errorf("%w: expected %s, got %s", errGenesisMismatch, genesis, hs.GenesisHash)
	}
	return hs, nil
}
