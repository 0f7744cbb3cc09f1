// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"testing"

	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_protocolIDs(t *testing.T) {
	t.Parallel()

	genesis := common.Hash{0xab}
	assert.Equal(t,
		"/ab00000000000000000000000000000000000000000000000000000000000000/para-announce/1",
		string(announceProtocol(genesis)))
	assert.Equal(t,
		"/ab00000000000000000000000000000000000000000000000000000000000000/para-block-fetch/1",
		string(blockFetchProtocol(genesis)))
}

func TestHandshake_Encode(t *testing.T) {
	t.Parallel()

	hs := Handshake{
		Roles:       RoleAuthority,
		BestNumber:  0x01020304,
		BestHash:    common.Hash{0xbb},
		GenesisHash: testGenesis,
	}

	encoded, err := hs.Encode()
	require.NoError(t, err)
	require.Len(t, encoded, handshakeSize)
	assert.Equal(t, []byte{4, 0x04, 0x03, 0x02, 0x01, 0xbb}, encoded[:6])

	decoded, err := decodeHandshake(encoded, testGenesis)
	require.NoError(t, err)
	assert.Equal(t, hs, decoded)
}

func Test_decodeHandshake_errors(t *testing.T) {
	t.Parallel()

	valid, err := (&Handshake{Roles: RoleFull, GenesisHash: testGenesis}).Encode()
	require.NoError(t, err)

	testCases := map[string]struct {
		data        []byte
		genesis     common.Hash
		errSentinel error
	}{
		"empty": {
			genesis:     testGenesis,
			errSentinel: errInvalidHandshake,
		},
		"truncated": {
			data:        valid[:handshakeSize-1],
			genesis:     testGenesis,
			errSentinel: errInvalidHandshake,
		},
		"trailing_byte": {
			data:        append(append([]byte{}, valid...), 0),
			genesis:     testGenesis,
			errSentinel: errInvalidHandshake,
		},
		"genesis_mismatch": {
			data:        valid,
			genesis:     common.Hash{0xff},
			errSentinel: errGenesisMismatch,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeHandshake(testCase.data, testCase.genesis)
			assert.ErrorIs(t, err, testCase.errSentinel)
		})
	}
}

func TestRoles_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "full", RoleFull.String())
	assert.Equal(t, "authority", RoleAuthority.String())
	assert.Equal(t, "roles(3)", Roles(3).String())
}
