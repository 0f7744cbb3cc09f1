// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// An arbitrary prefix indicating the rest of the payload is zstd compressed.
// A SCALE encoded vector of blocks never starts with these bytes since the
// compact length prefix would announce more blocks than can be fetched.
var zstdPrefix = []byte{82, 188, 83, 118, 70, 219, 142, 5}

// compressionThreshold is the payload size from which block responses are compressed.
const compressionThreshold = 1 << 12

func maybeCompress(payload []byte) ([]byte, error) {
	if len(payload) < compressionThreshold {
		return payload, nil
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	defer encoder.Close()

	blob := make([]byte, 0, len(zstdPrefix)+len(payload)/2)
	blob = append(blob, zstdPrefix...)
	return encoder.EncodeAll(payload, blob), nil
}

// maybeDecompress returns the payload as is if it does not start with the
// zstd prefix. Decompressed payloads larger than bombLimit are refused.
func maybeDecompress(blob []byte, bombLimit uint64) ([]byte, error) {
	if !bytes.HasPrefix(blob, zstdPrefix) {
		return blob, nil
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(bombLimit))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	payload, err := decoder.DecodeAll(blob[len(zstdPrefix):], nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	return payload, nil
}
