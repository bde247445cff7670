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

package mocks

import (
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/optakt/flow-pow/models/ledger"
)

// Global variables that can be used for testing. They are non-nil valid values
// for the types commonly needed to test ledger components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	GenericIndex = uint64(42)

	GenericHash = "00a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f"

	GenericTimestamp = time.Date(1972, 11, 12, 13, 14, 15, 16, time.UTC)

	GenericTransaction = ledger.Transaction{
		"author":    "alice",
		"content":   "hello",
		"timestamp": 92927655.000000016,
	}
)

// GenericTransactions returns the given number of distinct transactions.
func GenericTransactions(number int) []ledger.Transaction {
	transactions := make([]ledger.Transaction, 0, number)
	for i := 0; i < number; i++ {
		tx := GenericTransaction.Copy()
		tx["sequence"] = float64(i)
		transactions = append(transactions, tx)
	}
	return transactions
}

// GenericBlock returns a sealed block at the generic index. It is not a
// valid block of any chain.
func GenericBlock() *ledger.Block {
	b := ledger.Block{
		Index:        GenericIndex,
		Transactions: GenericTransactions(2),
		Timestamp:    GenericTimestamp,
		PreviousHash: GenericHash,
		Nonce:        1337,
		Hash:         GenericHash,
	}
	return &b
}
