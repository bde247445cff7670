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

package mempool

import (
	"sync"

	"github.com/gammazero/deque"

	"github.com/optakt/flow-pow/models/ledger"
)

// Pool is the FIFO buffer of pending transactions. It is safe for concurrent
// use. Transactions are copied on the way in and on the way out, so neither
// the submitter nor a reader can change a buffered transaction.
type Pool struct {
	mutex *sync.Mutex
	queue *deque.Deque
}

// New creates a new empty transaction pool.
func New() *Pool {
	p := Pool{
		mutex: &sync.Mutex{},
		queue: deque.New(),
	}
	return &p
}

// Add appends a transaction to the back of the pool.
func (p *Pool) Add(tx ledger.Transaction) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.queue.PushBack(tx.Copy())
}

// Snapshot returns copies of all pending transactions in arrival order.
func (p *Pool) Snapshot() []ledger.Transaction {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	transactions := make([]ledger.Transaction, 0, p.queue.Len())
	for i := 0; i < p.queue.Len(); i++ {
		tx := p.queue.At(i).(ledger.Transaction)
		transactions = append(transactions, tx.Copy())
	}

	return transactions
}

// Drop removes the `n` oldest transactions from the pool. Since transactions
// only ever get added to the back, the dropped transactions are exactly the
// first `n` transactions of any earlier snapshot, while transactions added
// after that snapshot are kept.
func (p *Pool) Drop(n int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for i := 0; i < n && p.queue.Len() > 0; i++ {
		_ = p.queue.PopFront()
	}
}

// Len returns the number of pending transactions.
func (p *Pool) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.queue.Len()
}
