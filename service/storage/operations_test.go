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

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/flow-pow/models/ledger"
	"github.com/optakt/flow-pow/testing/helpers"
	"github.com/optakt/flow-pow/testing/mocks"
)

func TestSaveAndRetrieve_Last(t *testing.T) {
	db := helpers.InMemoryDB(t)
	lib := helpers.Library(t)

	t.Run("missing last height", func(t *testing.T) {
		var got uint64
		err := db.View(lib.RetrieveLast(&got))

		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})

	t.Run("save last height", func(t *testing.T) {
		err := db.Update(lib.SaveLast(42))
		assert.NoError(t, err)
	})

	t.Run("retrieve last height", func(t *testing.T) {
		var got uint64
		err := db.View(lib.RetrieveLast(&got))

		assert.NoError(t, err)
		assert.Equal(t, uint64(42), got)
	})
}

func TestSaveAndRetrieve_Block(t *testing.T) {
	db := helpers.InMemoryDB(t)
	lib := helpers.Library(t)

	block := mocks.GenericBlock()

	t.Run("save block", func(t *testing.T) {
		err := db.Update(lib.SaveBlock(block))
		assert.NoError(t, err)
	})

	t.Run("retrieve block", func(t *testing.T) {
		var got ledger.Block
		err := db.View(lib.RetrieveBlock(block.Index, &got))

		require.NoError(t, err)
		assert.Equal(t, block.Index, got.Index)
		assert.Equal(t, block.Hash, got.Hash)
		assert.Equal(t, block.PreviousHash, got.PreviousHash)
		assert.Equal(t, block.Nonce, got.Nonce)
		assert.True(t, block.Timestamp.Equal(got.Timestamp))
		assert.Equal(t, block.Transactions, got.Transactions)
	})

	t.Run("retrieve missing block", func(t *testing.T) {
		var got ledger.Block
		err := db.View(lib.RetrieveBlock(block.Index+1, &got))

		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestIndexAndLookup_HeightsForHash(t *testing.T) {
	db := helpers.InMemoryDB(t)
	lib := helpers.Library(t)

	t.Run("index heights", func(t *testing.T) {
		err := db.Update(lib.IndexHeightForHash("aaaa", 1))
		require.NoError(t, err)
		err = db.Update(lib.IndexHeightForHash("bbbb", 2))
		require.NoError(t, err)
	})

	t.Run("lookup known hash", func(t *testing.T) {
		var got []uint64
		err := db.View(lib.LookupHeightsForHash("bbbb", &got))

		assert.NoError(t, err)
		assert.Equal(t, []uint64{2}, got)
	})

	t.Run("lookup unknown hash", func(t *testing.T) {
		var got []uint64
		err := db.View(lib.LookupHeightsForHash("cccc", &got))

		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestIterateBlocks(t *testing.T) {
	db := helpers.InMemoryDB(t)
	lib := helpers.Library(t)

	// Insert out of order to check that iteration follows the height.
	for _, index := range []uint64{2, 0, 1, 256} {
		block := mocks.GenericBlock()
		block.Index = index
		require.NoError(t, db.Update(lib.SaveBlock(block)))
	}

	var got []uint64
	err := db.View(lib.IterateBlocks(func(block *ledger.Block) error {
		got = append(got, block.Index)
		return nil
	}))

	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1, 2, 256}, got)

	t.Run("callback failure stops iteration", func(t *testing.T) {
		calls := 0
		err := db.View(lib.IterateBlocks(func(block *ledger.Block) error {
			calls++
			return mocks.GenericError
		}))

		assert.ErrorIs(t, err, mocks.GenericError)
		assert.Equal(t, 1, calls)
	})
}
