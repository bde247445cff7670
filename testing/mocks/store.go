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

type Store struct {
	AppendFunc      func(block *ledger.Block) error
	LengthFunc      func() (uint64, error)
	TipFunc         func() (*ledger.Block, error)
	BlockFunc       func(index uint64) (*ledger.Block, error)
	BlockByHashFunc func(hash string) (*ledger.Block, error)
	BlocksFunc      func() ([]*ledger.Block, error)
}

func BaselineStore(t *testing.T) *Store {
	t.Helper()

	s := Store{
		AppendFunc: func(block *ledger.Block) error {
			return nil
		},
		LengthFunc: func() (uint64, error) {
			return GenericIndex + 1, nil
		},
		TipFunc: func() (*ledger.Block, error) {
			return GenericBlock(), nil
		},
		BlockFunc: func(index uint64) (*ledger.Block, error) {
			return GenericBlock(), nil
		},
		BlockByHashFunc: func(hash string) (*ledger.Block, error) {
			return GenericBlock(), nil
		},
		BlocksFunc: func() ([]*ledger.Block, error) {
			return []*ledger.Block{GenericBlock()}, nil
		},
	}

	return &s
}

func (s *Store) Append(block *ledger.Block) error {
	return s.AppendFunc(block)
}

func (s *Store) Length() (uint64, error) {
	return s.LengthFunc()
}

func (s *Store) Tip() (*ledger.Block, error) {
	return s.TipFunc()
}

func (s *Store) Block(index uint64) (*ledger.Block, error) {
	return s.BlockFunc(index)
}

func (s *Store) BlockByHash(hash string) (*ledger.Block, error) {
	return s.BlockByHashFunc(hash)
}

func (s *Store) Blocks() ([]*ledger.Block, error) {
	return s.BlocksFunc()
}
