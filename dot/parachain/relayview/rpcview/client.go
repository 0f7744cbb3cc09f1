// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package rpcview

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Client is the subset of relay chain RPC calls the view relies on.
type Client interface {
	// Header returns the header of the block, or nil if the block is unknown.
	Header(blockHash types.Hash) (*types.Header, error)
	BlockHash(number uint64) (types.Hash, error)
	FinalizedHead() (types.Hash, error)
	// ActiveValidatorKeys returns the ParasShared::ActiveValidatorKeys storage
	// value at the block. ok is false if the state is not available.
	ActiveValidatorKeys(blockHash types.Hash) (keys [][32]byte, ok bool, err error)
	// ParaHead returns the Paras::Heads storage value for the parachain at the block.
	ParaHead(blockHash types.Hash, paraID uint32) (head []byte, ok bool, err error)
	// FinalizedHeads streams finalized headers until the context is done.
	FinalizedHeads(ctx context.Context) (<-chan types.Header, error)
}

type substrateClient struct {
	api *gsrpc.SubstrateAPI

	metadataMutex sync.Mutex
	metadata      *types.Metadata
}

// Dial connects to the relay chain node RPC endpoint.
// Subscriptions need a websocket url.
func Dial(url string) (Client, error) {
	api, err := gsrpc.NewSubstrateAPI(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to relay chain rpc %s: %w", url, err)
	}
	return &substrateClient{api: api}, nil
}

func (c *substrateClient) Header(blockHash types.Hash) (*types.Header, error) {
	header, err := c.api.RPC.Chain.GetHeader(blockHash)
	if err != nil {
		return nil, err
	}

	// unknown blocks come back as a null header
	if header == nil || header.StateRoot == (types.Hash{}) {
		return nil, nil //nolint:nilnil
	}
	return header, nil
}

func (c *substrateClient) BlockHash(number uint64) (types.Hash, error) {
	return c.api.RPC.Chain.GetBlockHash(number)
}

func (c *substrateClient) FinalizedHead() (types.Hash, error) {
	return c.api.RPC.Chain.GetFinalizedHead()
}

func (c *substrateClient) latestMetadata() (*types.Metadata, error) {
	c.metadataMutex.Lock()
	defer c.metadataMutex.Unlock()

	if c.metadata != nil {
		return c.metadata, nil
	}

	metadata, err := c.api.RPC.State.GetMetadataLatest()
	if err != nil {
		return nil, fmt.Errorf("getting metadata: %w", err)
	}
	c.metadata = metadata
	return metadata, nil
}

func (c *substrateClient) storage(blockHash types.Hash, target interface{},
	prefix, method string, args ...[]byte) (ok bool, err error) {
	metadata, err := c.latestMetadata()
	if err != nil {
		return false, err
	}

	key, err := types.CreateStorageKey(metadata, prefix, method, args...)
	if err != nil {
		return false, fmt.Errorf("creating %s.%s storage key: %w", prefix, method, err)
	}

	ok, err = c.api.RPC.State.GetStorage(key, target, blockHash)
	if err != nil {
		return false, fmt.Errorf("getting %s.%s storage: %w", prefix, method, err)
	}
	return ok, nil
}

func (c *substrateClient) ActiveValidatorKeys(blockHash types.Hash) (keys [][32]byte, ok bool, err error) {
	ok, err = c.storage(blockHash, &keys, "ParasShared", "ActiveValidatorKeys")
	return keys, ok, err
}

func (c *substrateClient) ParaHead(blockHash types.Hash, paraID uint32) (head []byte, ok bool, err error) {
	paraIDKey := make([]byte, 4)
	binary.LittleEndian.PutUint32(paraIDKey, paraID)

	var headData types.Bytes
	ok, err = c.storage(blockHash, &headData, "Paras", "Heads", paraIDKey)
	return headData, ok, err
}

func (c *substrateClient) FinalizedHeads(ctx context.Context) (<-chan types.Header, error) {
	sub, err := c.api.RPC.Chain.SubscribeFinalizedHeads()
	if err != nil {
		return nil, fmt.Errorf("subscribing to finalized heads: %w", err)
	}

	headers := make(chan types.Header)
	go func() {
		defer close(headers)
		defer sub.Unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				logger.Warnf("finalized heads subscription ended: %s", err)
				return
			case header := <-sub.Chan():
				select {
				case headers <- header:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return headers, nil
}
