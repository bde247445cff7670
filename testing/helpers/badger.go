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

package helpers

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/require"

	"github.com/optakt/flow-pow/codec/zbor"
	"github.com/optakt/flow-pow/service/index"
	"github.com/optakt/flow-pow/service/storage"
)

// InMemoryDB opens an in-memory Badger database that is closed when the test
// ends.
func InMemoryDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := badger.Open(index.InMemoryOptions())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// Library creates a storage library with the default codec.
func Library(t *testing.T) *storage.Library {
	t.Helper()

	codec, err := zbor.NewCodec()
	require.NoError(t, err)

	return storage.New(codec)
}

// InMemoryStore creates an empty block store on an in-memory database.
func InMemoryStore(t *testing.T) *index.Store {
	t.Helper()

	store, err := index.NewStore(InMemoryDB(t), Library(t))
	require.NoError(t, err)

	return store
}
