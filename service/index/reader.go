// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package index

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/dgraph-io/ristretto"

	"github.com/optakt/flow-pow/models/ledger"
	"github.com/optakt/flow-pow/service/storage"
)

// Reader reads sealed blocks from the Badger database. Decoded blocks are
// kept in a cache, and every block it returns is a copy the caller owns.
type Reader struct {
	db    *badger.DB
	lib   *storage.Library
	cache *ristretto.Cache
}

// NewReader creates a new index reader on the given Badger database.
func NewReader(db *badger.DB, lib *storage.Library, options ...func(*Config)) (*Reader, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	// Ristretto refuses a zero number of counters or a zero maximum cost, so
	// tiny cache sizes are rounded up to a cache that holds next to nothing.
	maxCost := cfg.CacheSize
	if maxCost < 1 {
		maxCost = 1
	}
	counters := maxCost / 1000 * 10
	if counters < 1 {
		counters = 1
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: counters,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize cache: %w", err)
	}

	r := Reader{
		db:    db,
		lib:   lib,
		cache: cache,
	}

	return &r, nil
}

// Length returns the number of blocks in the chain, genesis included.
func (r *Reader) Length() (uint64, error) {
	var last uint64
	err := r.db.View(r.lib.RetrieveLast(&last))
	if errors.Is(err, ledger.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not retrieve last height: %w", err)
	}
	return last + 1, nil
}

// Tip returns the last block of the chain.
func (r *Reader) Tip() (*ledger.Block, error) {
	var last uint64
	err := r.db.View(r.lib.RetrieveLast(&last))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve last height: %w", err)
	}
	return r.Block(last)
}

// Block returns the block at the given height.
func (r *Reader) Block(height uint64) (*ledger.Block, error) {

	cached, ok := r.cache.Get(height)
	if ok {
		return cached.(*ledger.Block).Copy(), nil
	}

	var block ledger.Block
	err := r.db.View(r.lib.RetrieveBlock(height, &block))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve block (height: %d): %w", height, err)
	}

	r.cache.Set(height, block.Copy(), cost(&block))

	return &block, nil
}

// BlockByHash returns the block with the given hash.
func (r *Reader) BlockByHash(hash string) (*ledger.Block, error) {

	var heights []uint64
	err := r.db.View(r.lib.LookupHeightsForHash(hash, &heights))
	if err != nil {
		return nil, fmt.Errorf("could not look up heights for hash (hash: %s): %w", hash, err)
	}

	for _, height := range heights {
		block, err := r.Block(height)
		if err != nil {
			return nil, err
		}
		if block.Hash == hash {
			return block, nil
		}
	}

	return nil, fmt.Errorf("unknown block hash (hash: %s): %w", hash, ledger.ErrNotFound)
}

// Blocks returns all blocks of the chain in order, starting with genesis.
func (r *Reader) Blocks() ([]*ledger.Block, error) {
	var blocks []*ledger.Block
	err := r.db.View(r.lib.IterateBlocks(func(block *ledger.Block) error {
		blocks = append(blocks, block)
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("could not iterate blocks: %w", err)
	}
	return blocks, nil
}

// cost roughly estimates the memory used by a decoded block, so that the
// cache size setting can be expressed in bytes.
func cost(block *ledger.Block) int64 {
	size := int64(128 + len(block.Hash) + len(block.PreviousHash))
	for _, tx := range block.Transactions {
		size += int64(64 * (len(tx) + 1))
	}
	return size
}
