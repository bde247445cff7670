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

// Hasher computes the content hash of a block, as lowercase hexadecimal.
type Hasher interface {
	Hash(candidate *Candidate) (string, error)
}

// Store represents something that holds the sealed blocks of a chain.
type Store interface {
	Append(block *Block) error

	Length() (uint64, error)
	Tip() (*Block, error)
	Block(index uint64) (*Block, error)
	BlockByHash(hash string) (*Block, error)
	Blocks() ([]*Block, error)
}

// Pool represents the buffer of transactions that were accepted but not yet
// sealed into a block.
type Pool interface {
	Add(tx Transaction)
	Snapshot() []Transaction
	Drop(n int)
	Len() int
}
