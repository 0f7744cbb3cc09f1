// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"fmt"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
)

// DefaultListenAddress is the address the host listens on if none is configured.
const DefaultListenAddress = "/ip4/0.0.0.0/tcp/30333"

// HostConfig holds the libp2p host configuration.
type HostConfig struct {
	PrivateKey      crypto.PrivKey
	ListenAddresses []string
}

// NewHost creates a libp2p host. A nil private key lets libp2p generate
// an ephemeral identity.
func NewHost(cfg HostConfig) (host.Host, error) {
	listenAddresses := cfg.ListenAddresses
	if len(listenAddresses) == 0 {
		listenAddresses = []string{DefaultListenAddress}
	}

	opts := []libp2p.Option{
		libp2p.ListenAddrStrings(listenAddresses...),
		libp2p.DisableRelay(),
	}
	if cfg.PrivateKey != nil {
		opts = append(opts, libp2p.Identity(cfg.PrivateKey))
	}

	h, err := libp2p.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating libp2p host: %w", err)
	}
	return h, nil
}
