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
	"sync"

	"github.com/dgraph-io/badger/v2"

	"github.com/optakt/flow-pow/models/ledger"
	"github.com/optakt/flow-pow/service/storage"
)

// Writer appends sealed blocks to the Badger database.
type Writer struct {
	db    *badger.DB
	lib   *storage.Library
	mutex *sync.Mutex
}

// NewWriter creates a new index writer that writes blocks to the given
// Badger database.
func NewWriter(db *badger.DB, lib *storage.Library) *Writer {

	w := Writer{
		db:    db,
		lib:   lib,
		mutex: &sync.Mutex{},
	}

	return &w
}

// Append writes the block, its hash index entry and the new tip height in a
// single Badger transaction. The block has to be the genesis block on an
// empty index, or directly follow the current tip otherwise; either all of
// the writes happen or none of them do.
func (w *Writer) Append(block *ledger.Block) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	err := w.db.Update(func(tx *badger.Txn) error {

		var last uint64
		err := w.lib.RetrieveLast(&last)(tx)
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			if block.Index != ledger.GenesisIndex {
				return fmt.Errorf("first block must have genesis index (index: %d)", block.Index)
			}
		case err != nil:
			return fmt.Errorf("could not retrieve last height: %w", err)
		case block.Index != last+1:
			return fmt.Errorf("block does not extend tip (index: %d, last: %d)", block.Index, last)
		}

		return storage.Combine(
			w.lib.SaveBlock(block),
			w.lib.IndexHeightForHash(block.Hash, block.Index),
			w.lib.SaveLast(block.Index),
		)(tx)
	})
	if err != nil {
		return fmt.Errorf("could not append block (index: %d): %w", block.Index, err)
	}

	return nil
}
