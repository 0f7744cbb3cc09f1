// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package blockstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/ChainSafe/chaindb"
	parachaintypes "github.com/ChainSafe/gossamer-collator/dot/parachain/types"
	"github.com/ChainSafe/gossamer-collator/internal/log"
	"github.com/ChainSafe/gossamer-collator/lib/common"
	"github.com/spacemeshos/go-scale"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "blockstore"))

// DefaultDatabaseDir is the directory inside the base path holding the database.
const DefaultDatabaseDir = "db"

const blockPrefix = "para"

var (
	headerPrefix = []byte("hdr")
	bodyPrefix   = []byte("blk")
	bestBlockKey = []byte("best_block")
)

func headerKey(hash common.Hash) []byte {
	return bytes.Join([][]byte{headerPrefix, hash.ToBytes()}, nil)
}

func bodyKey(hash common.Hash) []byte {
	return bytes.Join([][]byte{bodyPrefix, hash.ToBytes()}, nil)
}

var (
	ErrBlockNotFound = errors.New("block not found")
	ErrEmptyRange    = errors.New("ancestry range is empty")
)

// BlockStore persists the parachain blocks known locally.
// All methods are safe for concurrent use.
type BlockStore struct {
	mutex    sync.RWMutex
	database chaindb.Database
	db       chaindb.Database

	bestHash   common.Hash
	bestNumber uint32
	hasBest    bool
}

// Open opens the badger database located in the base path.
func Open(basePath string, inMemory bool) (*BlockStore, error) {
	db, err := chaindb.NewBadgerDB(&chaindb.Config{
		DataDir:  filepath.Join(basePath, DefaultDatabaseDir),
		InMemory: inMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New creates a block store on top of the given database.
func New(db chaindb.Database) (*BlockStore, error) {
	s := &BlockStore{
		database: db,
		db:       chaindb.NewTable(db, blockPrefix),
	}

	best, err := s.db.Get(bestBlockKey)
	switch {
	case errors.Is(err, chaindb.ErrKeyNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading best block: %w", err)
	case len(best) != common.HashLength+4:
		return nil, fmt.Errorf("reading best block: invalid length %d", len(best))
	}

	s.bestHash = common.NewHash(best[:common.HashLength])
	s.bestNumber = binary.LittleEndian.Uint32(best[common.HashLength:])
	s.hasBest = true
	return s, nil
}

// Close closes the underlying database.
func (s *BlockStore) Close() error {
	return s.database.Close()
}

// HasBlock returns true if the block is stored.
func (s *BlockStore) HasBlock(hash common.Hash) (bool, error) {
	has, err := s.db.Has(headerKey(hash))
	if err != nil {
		return false, fmt.Errorf("checking header %s: %w", hash, err)
	}
	return has, nil
}

// Header returns the stored header of the block.
func (s *BlockStore) Header(hash common.Hash) (parachaintypes.Header, error) {
	var header parachaintypes.Header
	data, err := s.db.Get(headerKey(hash))
	if err != nil {
		if errors.Is(err, chaindb.ErrKeyNotFound) {
			return header, fmt.Errorf("%w: %s", ErrBlockNotFound, hash)
		}
		return header, fmt.Errorf("getting header %s: %w", hash, err)
	}

	_, err = header.DecodeScale(scale.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return header, fmt.Errorf("decoding header %s: %w", hash, err)
	}
	return header, nil
}

// Block returns the stored block.
func (s *BlockStore) Block(hash common.Hash) (parachaintypes.CandidateBlock, error) {
	header, err := s.Header(hash)
	if err != nil {
		return parachaintypes.CandidateBlock{}, err
	}

	body, err := s.db.Get(bodyKey(hash))
	if err != nil && !errors.Is(err, chaindb.ErrKeyNotFound) {
		return parachaintypes.CandidateBlock{}, fmt.Errorf("getting body %s: %w", hash, err)
	}

	return parachaintypes.CandidateBlock{Header: header, Body: body}, nil
}

// ImportBlock stores the block. Importing an already stored block is a no-op.
// The parent does not need to be known.
func (s *BlockStore) ImportBlock(ctx context.Context, block parachaintypes.CandidateBlock) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	hash := block.Hash()
	var encoded bytes.Buffer
	_, err := block.Header.EncodeScale(scale.NewEncoder(&encoded))
	if err != nil {
		return fmt.Errorf("encoding header %s: %w", hash, err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	has, err := s.HasBlock(hash)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	batch := s.db.NewBatch()
	if err := batch.Put(headerKey(hash), encoded.Bytes()); err != nil {
		return fmt.Errorf("writing header %s: %w", hash, err)
	}
	if len(block.Body) > 0 {
		if err := batch.Put(bodyKey(hash), block.Body); err != nil {
			return fmt.Errorf("writing body %s: %w", hash, err)
		}
	}

	newBest := !s.hasBest || block.Header.Number > s.bestNumber
	if newBest {
		best := make([]byte, common.HashLength+4)
		copy(best, hash[:])
		binary.LittleEndian.PutUint32(best[common.HashLength:], block.Header.Number)
		if err := batch.Put(bestBlockKey, best); err != nil {
			return fmt.Errorf("writing best block: %w", err)
		}
	}

	if err := batch.Flush(); err != nil {
		batch.Reset()
		return fmt.Errorf("flushing block %s: %w", hash, err)
	}

	if newBest {
		s.bestHash = hash
		s.bestNumber = block.Header.Number
		s.hasBest = true
	}
	logger.Debugf("imported block #%d (%s)", block.Header.Number, hash.Short())
	return nil
}

// BestBlock returns the hash and number of the highest stored block.
// It returns false if the store is empty.
func (s *BlockStore) BestBlock() (hash common.Hash, number uint32, ok bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.bestHash, s.bestNumber, s.hasBest
}

// Ancestry returns up to maxBlocks stored blocks starting at from and walking
// towards the genesis, each block being the parent of the previous one.
// The walk stops at the first parent not stored.
func (s *BlockStore) Ancestry(from common.Hash, maxBlocks uint32) ([]parachaintypes.CandidateBlock, error) {
	if maxBlocks == 0 {
		return nil, ErrEmptyRange
	}

	blocks := make([]parachaintypes.CandidateBlock, 0, maxBlocks)
	hash := from
	for uint32(len(blocks)) < maxBlocks {
		block, err := s.Block(hash)
		if err != nil {
			if errors.Is(err, ErrBlockNotFound) && len(blocks) > 0 {
				break
			}
			return nil, err
		}
		blocks = append(blocks, block)
		if block.Header.Number == 0 {
			break
		}
		hash = block.Header.ParentHash
	}
	return blocks, nil
}
