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

package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/OneOfOne/xxhash"
	"github.com/dgraph-io/badger/v2"

	"github.com/optakt/flow-pow/models/ledger"
)

// SaveLast is an operation that writes the height of the chain tip.
func (l *Library) SaveLast(height uint64) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixLast), height)
}

// SaveBlock is an operation that writes the given sealed block at its height.
func (l *Library) SaveBlock(block *ledger.Block) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixBlock, block.Index), block)
}

// IndexHeightForHash is an operation that indexes the height of a block for
// its hash. Block hashes are bucketed by their xxhash checksum, and the
// height is part of the key, so colliding checksums never overwrite each
// other.
func (l *Library) IndexHeightForHash(hash string, height uint64) func(*badger.Txn) error {
	bucket := xxhash.ChecksumString64(hash)
	return l.save(EncodeKey(PrefixHeightForHash, bucket, height), height)
}

// RetrieveLast retrieves the height of the chain tip.
func (l *Library) RetrieveLast(height *uint64) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixLast), height)
}

// RetrieveBlock retrieves the block at the given height.
func (l *Library) RetrieveBlock(height uint64, block *ledger.Block) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixBlock, height), block)
}

// LookupHeightsForHash retrieves the heights of all blocks whose hash falls
// into the same checksum bucket as the given hash. Callers need to compare
// the hashes of the blocks at those heights to find the exact match.
func (l *Library) LookupHeightsForHash(hash string, heights *[]uint64) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		bucket := xxhash.ChecksumString64(hash)
		prefix := EncodeKey(PrefixHeightForHash, bucket)
		opts := badger.DefaultIteratorOptions
		// NOTE: this is an optimization only, it does not enforce that all
		// results in the iteration have this prefix.
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			height := binary.BigEndian.Uint64(key[1+8:])
			*heights = append(*heights, height)
		}

		return nil
	}
}

// IterateBlocks steps through all blocks in ascending height order and calls
// the given callback for each of them.
func (l *Library) IterateBlocks(process func(block *ledger.Block) error) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		prefix := EncodeKey(PrefixBlock)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {

			// The block needs to be declared inside of the loop, so that every
			// callback gets its own independent value.
			var block ledger.Block
			err := it.Item().Value(func(val []byte) error {
				return l.codec.Unmarshal(val, &block)
			})
			if err != nil {
				return fmt.Errorf("could not decode block (key: %x): %w", it.Item().Key(), err)
			}

			err = process(&block)
			if err != nil {
				return fmt.Errorf("could not process block (height: %d): %w", block.Index, err)
			}
		}

		return nil
	}
}
