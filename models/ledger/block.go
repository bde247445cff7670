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
	"time"
)

// Candidate is a block that is still being mined. Its nonce changes during
// the proof-of-work search, which is why it never carries a hash of its own.
// A candidate only becomes part of the chain by being sealed into a Block.
type Candidate struct {
	Index        uint64
	Transactions []Transaction
	Timestamp    time.Time
	PreviousHash string
	Nonce        uint64
}

// Seal turns the candidate into a sealed block with the given hash. The
// transactions are copied, so later changes to the candidate do not leak into
// the sealed block.
func (c *Candidate) Seal(hash string) *Block {
	b := Block{
		Index:        c.Index,
		Transactions: copyTransactions(c.Transactions),
		Timestamp:    c.Timestamp,
		PreviousHash: c.PreviousHash,
		Nonce:        c.Nonce,
		Hash:         hash,
	}
	return &b
}

// Block is a sealed block of the chain. Blocks handed out by the ledger are
// always copies; the chain itself is never mutated after sealing.
type Block struct {
	Index        uint64        `json:"index"`
	Transactions []Transaction `json:"transactions"`
	Timestamp    time.Time     `json:"timestamp"`
	PreviousHash string        `json:"previous_hash"`
	Nonce        uint64        `json:"nonce"`
	Hash         string        `json:"hash"`
}

// Candidate returns the block contents without the hash, which is the input
// used to recompute and verify the block hash.
func (b *Block) Candidate() *Candidate {
	c := Candidate{
		Index:        b.Index,
		Transactions: copyTransactions(b.Transactions),
		Timestamp:    b.Timestamp,
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
	}
	return &c
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	dup := *b
	dup.Transactions = copyTransactions(b.Transactions)
	return &dup
}

func copyTransactions(transactions []Transaction) []Transaction {
	dup := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		dup = append(dup, tx.Copy())
	}
	return dup
}
