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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/optakt/flow-pow/models/ledger"
	"github.com/optakt/flow-pow/service/pow"
)

// Ledger manages a chain of blocks secured by proof-of-work. It owns the
// block store, the buffer of pending transactions and the difficulty.
//
// Mining and appending are serialized, so two blocks can never be built on
// the same tip. Submitting transactions only touches the pending buffer and
// is never blocked by a running proof-of-work search.
type Ledger struct {
	log        zerolog.Logger
	hasher     ledger.Hasher
	store      ledger.Store
	pool       ledger.Pool
	difficulty uint
	clock      func() time.Time
	mutex      *sync.Mutex
}

// New creates a new ledger on the given block store. If the store is empty,
// the genesis block is created and appended right away; otherwise, the
// store's first block has to be a valid genesis block.
func New(log zerolog.Logger, hasher ledger.Hasher, store ledger.Store, pool ledger.Pool, options ...func(*Config)) (*Ledger, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	l := Ledger{
		log:        log.With().Str("component", "ledger").Logger(),
		hasher:     hasher,
		store:      store,
		pool:       pool,
		difficulty: cfg.Difficulty,
		clock:      cfg.Clock,
		mutex:      &sync.Mutex{},
	}

	length, err := store.Length()
	if err != nil {
		return nil, fmt.Errorf("could not get chain length: %w", err)
	}

	if length > 0 {
		genesis, err := store.Block(ledger.GenesisIndex)
		if err != nil {
			return nil, fmt.Errorf("could not get genesis block: %w", err)
		}
		err = l.checkGenesis(genesis)
		if err != nil {
			return nil, fmt.Errorf("invalid genesis block in store: %w", err)
		}
		return &l, nil
	}

	genesis, err := l.genesis()
	if err != nil {
		return nil, fmt.Errorf("could not create genesis block: %w", err)
	}
	err = store.Append(genesis)
	if err != nil {
		return nil, fmt.Errorf("could not append genesis block: %w", err)
	}

	l.log.Info().Str("hash", genesis.Hash).Uint("difficulty", l.difficulty).Msg("genesis block created")

	return &l, nil
}

// AddTransaction appends the transaction to the pending buffer. The
// transaction is not validated in any way.
func (l *Ledger) AddTransaction(tx ledger.Transaction) {
	l.pool.Add(tx)
	l.log.Debug().Int("pending", l.pool.Len()).Msg("transaction added")
}

// Mine seals all pending transactions into a new block on top of the current
// tip and returns the index of that block. If no transactions are pending, it
// returns `ErrNothingToMine` and leaves the chain untouched.
//
// Only the transactions that were included in the block are removed from the
// pending buffer; transactions submitted while mining are kept for the next
// block. If the block can not be appended, the buffer remains as it was.
func (l *Ledger) Mine(ctx context.Context) (uint64, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	transactions := l.pool.Snapshot()
	if len(transactions) == 0 {
		return 0, ledger.ErrNothingToMine
	}

	tip, err := l.store.Tip()
	if err != nil {
		return 0, fmt.Errorf("could not get chain tip: %w", err)
	}

	candidate := ledger.Candidate{
		Index:        tip.Index + 1,
		Transactions: transactions,
		Timestamp:    l.clock(),
		PreviousHash: tip.Hash,
	}

	start := time.Now()
	nonce, hash, err := pow.Search(ctx, l.hasher, &candidate, l.difficulty)
	if err != nil {
		return 0, fmt.Errorf("could not find proof of work: %w", err)
	}

	block, err := l.validateAndAppend(&candidate, hash)
	if err != nil {
		return 0, fmt.Errorf("could not append mined block: %w", err)
	}

	l.pool.Drop(len(transactions))

	l.log.Info().
		Uint64("index", block.Index).
		Str("hash", block.Hash).
		Uint64("nonce", nonce).
		Int("transactions", len(block.Transactions)).
		Dur("duration", time.Since(start)).
		Msg("block mined")

	return block.Index, nil
}

// ValidateAndAppend checks that the candidate extends the current tip and
// that the proof is a valid hash of the candidate, and if so, seals the
// candidate with the proof and appends it to the chain. On any failure, the
// chain is left unchanged.
func (l *Ledger) ValidateAndAppend(candidate *ledger.Candidate, proof string) (*ledger.Block, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.validateAndAppend(candidate, proof)
}

func (l *Ledger) validateAndAppend(candidate *ledger.Candidate, proof string) (*ledger.Block, error) {

	tip, err := l.store.Tip()
	if err != nil {
		return nil, fmt.Errorf("could not get chain tip: %w", err)
	}

	if candidate.PreviousHash != tip.Hash {
		return nil, fmt.Errorf("candidate does not link to tip (previous: %s, tip: %s): %w", candidate.PreviousHash, tip.Hash, ledger.ErrChainLinkage)
	}
	if candidate.Index != tip.Index+1 {
		return nil, fmt.Errorf("candidate index does not follow tip (index: %d, tip: %d): %w", candidate.Index, tip.Index, ledger.ErrChainLinkage)
	}

	err = l.checkProof(candidate, proof)
	if err != nil {
		return nil, err
	}

	block := candidate.Seal(proof)
	err = l.store.Append(block)
	if err != nil {
		return nil, fmt.Errorf("could not store block: %w", err)
	}

	return block.Copy(), nil
}

func (l *Ledger) checkProof(candidate *ledger.Candidate, proof string) error {

	if !pow.Satisfies(proof, l.difficulty) {
		return fmt.Errorf("proof does not satisfy difficulty (proof: %s, difficulty: %d): %w", proof, l.difficulty, ledger.ErrProofInvalid)
	}

	hash, err := l.hasher.Hash(candidate)
	if err != nil {
		return fmt.Errorf("could not hash candidate: %w", err)
	}
	if hash != proof {
		return fmt.Errorf("proof does not match block hash (proof: %s, hash: %s): %w", proof, hash, ledger.ErrProofInvalid)
	}

	return nil
}

// Verify checks the entire chain: every block hash has to match the block's
// contents, every block has to link to its predecessor, and every block
// after genesis has to satisfy the difficulty. All violations are collected,
// so the returned error lists every invalid block of the chain.
func (l *Ledger) Verify() error {

	blocks, err := l.store.Blocks()
	if err != nil {
		return fmt.Errorf("could not get blocks: %w", err)
	}
	if len(blocks) == 0 {
		return errors.New("chain has no genesis block")
	}

	var merr *multierror.Error
	err = l.checkGenesis(blocks[0])
	if err != nil {
		merr = multierror.Append(merr, fmt.Errorf("invalid genesis block: %w", err))
	}

	for i := 1; i < len(blocks); i++ {
		block := blocks[i]
		parent := blocks[i-1]
		if block.Index != parent.Index+1 {
			merr = multierror.Append(merr, fmt.Errorf("block index out of order (position: %d, index: %d): %w", i, block.Index, ledger.ErrChainLinkage))
		}
		if block.PreviousHash != parent.Hash {
			merr = multierror.Append(merr, fmt.Errorf("block does not link to parent (index: %d): %w", block.Index, ledger.ErrChainLinkage))
		}
		err = l.checkProof(block.Candidate(), block.Hash)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("invalid block (index: %d): %w", block.Index, err))
		}
	}

	return merr.ErrorOrNil()
}

// Chain returns copies of all sealed blocks, starting with genesis.
func (l *Ledger) Chain() ([]*ledger.Block, error) {
	return l.store.Blocks()
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() (uint64, error) {
	return l.store.Length()
}

// Tip returns the last block of the chain.
func (l *Ledger) Tip() (*ledger.Block, error) {
	return l.store.Tip()
}

// Block returns the block at the given index.
func (l *Ledger) Block(index uint64) (*ledger.Block, error) {
	return l.store.Block(index)
}

// BlockByHash returns the block with the given hash.
func (l *Ledger) BlockByHash(hash string) (*ledger.Block, error) {
	return l.store.BlockByHash(hash)
}

// Pending returns the transactions that are waiting to be mined.
func (l *Ledger) Pending() []ledger.Transaction {
	return l.pool.Snapshot()
}

// Difficulty returns the difficulty of the ledger.
func (l *Ledger) Difficulty() uint {
	return l.difficulty
}

// genesis creates the genesis block. It is exempt from proof-of-work, so its
// nonce stays at zero and its hash does not need to satisfy the difficulty.
func (l *Ledger) genesis() (*ledger.Block, error) {

	candidate := ledger.Candidate{
		Index:        ledger.GenesisIndex,
		Transactions: []ledger.Transaction{},
		Timestamp:    l.clock(),
		PreviousHash: ledger.GenesisPreviousHash,
		Nonce:        0,
	}

	hash, err := l.hasher.Hash(&candidate)
	if err != nil {
		return nil, fmt.Errorf("could not hash genesis block: %w", err)
	}

	return candidate.Seal(hash), nil
}

func (l *Ledger) checkGenesis(genesis *ledger.Block) error {

	if genesis.Index != ledger.GenesisIndex {
		return fmt.Errorf("wrong genesis index (index: %d)", genesis.Index)
	}
	if genesis.PreviousHash != ledger.GenesisPreviousHash {
		return fmt.Errorf("wrong genesis previous hash (previous: %s): %w", genesis.PreviousHash, ledger.ErrChainLinkage)
	}

	hash, err := l.hasher.Hash(genesis.Candidate())
	if err != nil {
		return fmt.Errorf("could not hash genesis block: %w", err)
	}
	if hash != genesis.Hash {
		return fmt.Errorf("genesis hash does not match contents (hash: %s, computed: %s): %w", genesis.Hash, hash, ledger.ErrProofInvalid)
	}

	return nil
}
