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
	"context"
	"testing"

	"github.com/optakt/flow-pow/models/ledger"
)

type Ledger struct {
	AddTransactionFunc func(tx ledger.Transaction)
	MineFunc           func(ctx context.Context) (uint64, error)
	ChainFunc          func() ([]*ledger.Block, error)
	PendingFunc        func() []ledger.Transaction
	BlockFunc          func(index uint64) (*ledger.Block, error)
	BlockByHashFunc    func(hash string) (*ledger.Block, error)
}

func BaselineLedger(t *testing.T) *Ledger {
	t.Helper()

	l := Ledger{
		AddTransactionFunc: func(tx ledger.Transaction) {},
		MineFunc: func(ctx context.Context) (uint64, error) {
			return GenericIndex, nil
		},
		ChainFunc: func() ([]*ledger.Block, error) {
			return []*ledger.Block{GenericBlock()}, nil
		},
		PendingFunc: func() []ledger.Transaction {
			return GenericTransactions(2)
		},
		BlockFunc: func(index uint64) (*ledger.Block, error) {
			return GenericBlock(), nil
		},
		BlockByHashFunc: func(hash string) (*ledger.Block, error) {
			return GenericBlock(), nil
		},
	}

	return &l
}

func (l *Ledger) AddTransaction(tx ledger.Transaction) {
	l.AddTransactionFunc(tx)
}

func (l *Ledger) Mine(ctx context.Context) (uint64, error) {
	return l.MineFunc(ctx)
}

func (l *Ledger) Chain() ([]*ledger.Block, error) {
	return l.ChainFunc()
}

func (l *Ledger) Pending() []ledger.Transaction {
	return l.PendingFunc()
}

func (l *Ledger) Block(index uint64) (*ledger.Block, error) {
	return l.BlockFunc(index)
}

func (l *Ledger) BlockByHash(hash string) (*ledger.Block, error) {
	return l.BlockByHashFunc(hash)
}
