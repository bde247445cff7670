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
	"github.com/dgraph-io/badger/v2"

	"github.com/optakt/flow-pow/service/storage"
)

// Store combines a reader and a writer on the same database into a
// complete block store for the ledger.
type Store struct {
	*Reader
	*Writer
}

// NewStore creates a block store on the given Badger database.
func NewStore(db *badger.DB, lib *storage.Library, options ...func(*Config)) (*Store, error) {

	read, err := NewReader(db, lib, options...)
	if err != nil {
		return nil, err
	}

	s := Store{
		Reader: read,
		Writer: NewWriter(db, lib),
	}

	return &s, nil
}

// InMemoryOptions returns the Badger options for the block database. The
// chain only lives as long as the process, so the database never touches
// the disk.
func InMemoryOptions() badger.Options {
	return badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)
}
