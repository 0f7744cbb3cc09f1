// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	crand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	mrand "math/rand"
	"os"
	"path/filepath"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// DefaultKeyFile is the name of the file holding the node key in the base path.
const DefaultKeyFile = "node.key"

// stringToAddrInfo converts a multiaddr string ending with /p2p/<peer id> to an AddrInfo.
func stringToAddrInfo(s string) (peer.AddrInfo, error) {
	maddr, err := multiaddr.NewMultiaddr(s)
	if err != nil {
		return peer.AddrInfo{}, fmt.Errorf("parsing multiaddr %s: %w", s, err)
	}
	p, err := peer.AddrInfoFromP2pAddr(maddr)
	if err != nil {
		return peer.AddrInfo{}, fmt.Errorf("parsing peer info %s: %w", s, err)
	}
	return *p, nil
}

// stringsToAddrInfos converts bootnode strings to AddrInfos
func stringsToAddrInfos(peers []string) ([]peer.AddrInfo, error) {
	pinfos := make([]peer.AddrInfo, len(peers))
	for i, p := range peers {
		pinfo, err := stringToAddrInfo(p)
		if err != nil {
			return nil, err
		}
		pinfos[i] = pinfo
	}
	return pinfos, nil
}

// LoadOrGenerateKey loads the ed25519 node key from the base path, generating
// and saving a new one if none exists. A non zero seed generates a
// deterministic key which is never saved.
func LoadOrGenerateKey(basePath string, seed int64) (crypto.PrivKey, error) {
	if seed != 0 {
		return generateKey(seed, basePath)
	}

	key, err := loadKey(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading node key: %w", err)
	}
	if key != nil {
		return key, nil
	}
	return generateKey(0, basePath)
}

// generateKey generates an ed25519 private key and writes it to the base path
// if the seed is zero.
func generateKey(seed int64, basePath string) (crypto.PrivKey, error) {
	var r io.Reader
	if seed == 0 {
		r = crand.Reader
	} else {
		r = mrand.New(mrand.NewSource(seed)) //nolint:gosec
	}

	key, _, err := crypto.GenerateEd25519Key(r)
	if err != nil {
		return nil, fmt.Errorf("generating node key: %w", err)
	}

	if seed == 0 {
		if err = os.MkdirAll(basePath, os.ModePerm); err != nil {
			return nil, fmt.Errorf("creating base path: %w", err)
		}
		if err = saveKey(key, basePath); err != nil {
			return nil, fmt.Errorf("saving node key: %w", err)
		}
	}
	return key, nil
}

// loadKey returns a nil key if no key file exists
func loadKey(basePath string) (crypto.PrivKey, error) {
	keyData, err := os.ReadFile(filepath.Join(filepath.Clean(basePath), DefaultKeyFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	dec := make([]byte, hex.DecodedLen(len(keyData)))
	if _, err = hex.Decode(dec, keyData); err != nil {
		return nil, fmt.Errorf("decoding hex: %w", err)
	}
	return crypto.UnmarshalEd25519PrivateKey(dec)
}

func saveKey(priv crypto.PrivKey, basePath string) error {
	raw, err := priv.Raw()
	if err != nil {
		return err
	}

	enc := make([]byte, hex.EncodedLen(len(raw)))
	hex.Encode(enc, raw)
	return os.WriteFile(filepath.Join(filepath.Clean(basePath), DefaultKeyFile), enc, 0o600)
}
