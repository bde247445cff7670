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
	"testing"

	"github.com/optakt/flow-pow/models/ledger"
)

type Pool struct {
	AddFunc      func(tx ledger.Transaction)
	SnapshotFunc func() []ledger.Transaction
	DropFunc     func(n int)
	LenFunc      func() int
}

func BaselinePool(t *testing.T) *Pool {
	t.Helper()

	p := Pool{
		AddFunc: func(tx ledger.Transaction) {},
		SnapshotFunc: func() []ledger.Transaction {
			return GenericTransactions(3)
		},
		DropFunc: func(n int) {},
		LenFunc: func() int {
			return 3
		},
	}

	return &p
}

func (p *Pool) Add(tx ledger.Transaction) {
	p.AddFunc(tx)
}

func (p *Pool) Snapshot() []ledger.Transaction {
	return p.SnapshotFunc()
}

func (p *Pool) Drop(n int) {
	p.DropFunc(n)
}

func (p *Pool) Len() int {
	return p.LenFunc()
}
