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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optakt/flow-pow/models/ledger"
)

// MetricsStore wraps a block store and records metrics for the blocks that
// it appends.
type MetricsStore struct {
	ledger.Store

	blocks       prometheus.Counter
	transactions prometheus.Counter
	height       prometheus.Gauge
}

// NewMetricsStore creates a new block store that forwards to the given store
// and registers its metrics with the given registerer.
func NewMetricsStore(store ledger.Store, registerer prometheus.Registerer) *MetricsStore {

	factory := promauto.With(registerer)

	blockOpts := prometheus.CounterOpts{
		Name: "indexed_blocks",
		Help: "the number of indexed blocks",
	}
	blocks := factory.NewCounter(blockOpts)

	transactionOpts := prometheus.CounterOpts{
		Name: "indexed_transactions",
		Help: "the number of transactions in indexed blocks",
	}
	transactions := factory.NewCounter(transactionOpts)

	heightOpts := prometheus.GaugeOpts{
		Name: "indexed_height",
		Help: "the height of the last indexed block",
	}
	height := factory.NewGauge(heightOpts)

	s := MetricsStore{
		Store: store,

		blocks:       blocks,
		transactions: transactions,
		height:       height,
	}

	return &s
}

// Append appends the block and, if it succeeded, records it.
func (s *MetricsStore) Append(block *ledger.Block) error {
	err := s.Store.Append(block)
	if err != nil {
		return err
	}
	s.blocks.Inc()
	s.transactions.Add(float64(len(block.Transactions)))
	s.height.Set(float64(block.Index))
	return nil
}
