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

package ledger

import (
	"context"

	"github.com/optakt/flow-pow/models/ledger"
)

// Ledger represents the ledger operations exposed over the API.
type Ledger interface {
	AddTransaction(tx ledger.Transaction)
	Mine(ctx context.Context) (uint64, error)
	Chain() ([]*ledger.Block, error)
	Pending() []ledger.Transaction
	Block(index uint64) (*ledger.Block, error)
	BlockByHash(hash string) (*ledger.Block, error)
}

// Validator represents something that checks submitted transactions before
// they are forwarded to the ledger.
type Validator interface {
	Transaction(tx ledger.Transaction) error
}
