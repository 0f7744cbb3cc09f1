// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package dot

import (
	"context"
	"testing"
	"time"

	"github.com/ChainSafe/gossamer-collator/config"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/network"
	"github.com/ChainSafe/gossamer-collator/dot/parachain/relayview"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.BasePath = t.TempDir()
	cfg.RelayMode = config.RelayModeMemory
	cfg.PublishMetrics = false
	cfg.Network.GenesisHash = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
	cfg.Network.ListenAddresses = []string{"/ip4/127.0.0.1/tcp/0"}
	cfg.Network.NodeKeySeed = 1
	return cfg
}

func Test_parseRoles(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		roles      string
		expected   network.Roles
		errWrapped error
	}{
		"full": {
			roles:    "full",
			expected: network.RoleFull,
		},
		"light": {
			roles:    "light",
			expected: network.RoleLight,
		},
		"authority": {
			roles:    "authority",
			expected: network.RoleAuthority,
		},
		"unknown": {
			roles:      "archive",
			errWrapped: errUnknownRoles,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			roles, err := parseRoles(testCase.roles)
			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.expected, roles)
		})
	}
}

func TestNewNode_invalidConfig(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.Network.GenesisHash = ""

	node, err := NewNode(cfg)
	assert.EqualError(t, err, "validating configuration: network config: genesis-hash must be set")
	assert.Nil(t, node)
}

func TestNewNode(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.Pprof.Enabled = true
	cfg.Pprof.ListeningAddress = "127.0.0.1:0"

	node, err := NewNode(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, node.Stop())
	})

	assert.Equal(t, config.DefaultName, node.Name)
	assert.Equal(t, []string{"pprof", "blocksync", "network"}, node.Services.Names())
	assert.NotNil(t, node.Coordinator())
	assert.NotEmpty(t, node.Network().ID())
}

func TestNewNode_persistsNodeKey(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.Network.NodeKeySeed = 0

	first, err := NewNode(cfg)
	require.NoError(t, err)
	id := first.Network().ID()
	require.NoError(t, first.Stop())

	second, err := NewNode(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, second.Stop())
	})
	assert.Equal(t, id, second.Network().ID())
}

func TestNode_Start(t *testing.T) {
	t.Parallel()

	node, err := NewNode(newTestConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() {
		errCh <- node.Start(ctx)
	}()

	select {
	case <-node.Started():
	case err := <-errCh:
		t.Fatalf("node stopped before being started: %s", err)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for node to start")
	}

	_, ok := node.Coordinator().BestHead()
	assert.False(t, ok)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for node to stop")
	}

	assert.NoError(t, node.Stop())
}

func Test_createRelayView_memory(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	view, err := createRelayView(cfg)
	require.NoError(t, err)

	// Without relay chain client nothing feeds the view, attested
	// announcements must not be rejected as having an unknown relay parent.
	_, err = view.ValidatorsAt(context.Background(), common.Hash{1})
	assert.ErrorIs(t, err, relayview.ErrUnavailable)
	assert.ErrorIs(t, err, errRelayViewNotFed)
	_, err = view.BestFinalized(context.Background())
	assert.ErrorIs(t, err, relayview.ErrUnavailable)
}

func Test_createRelayView_unknownMode(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.RelayMode = "carrier-pigeon"

	_, err := createRelayView(cfg)
	assert.ErrorIs(t, err, errUnknownRelayMode)
}
