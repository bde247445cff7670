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
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/flow-pow/models/ledger"
	"github.com/optakt/flow-pow/service/mempool"
	"github.com/optakt/flow-pow/testing/mocks"
)

func TestMetricsLedger(t *testing.T) {
	t.Run("mining and intake", func(t *testing.T) {
		m := NewMetricsLedger(baselineLedger(t, WithDifficulty(1)), prometheus.NewRegistry())

		_, err := m.Mine(context.Background())
		require.ErrorIs(t, err, ledger.ErrNothingToMine)

		m.AddTransaction(mocks.GenericTransaction)
		m.AddTransaction(mocks.GenericTransaction)
		assert.Equal(t, float64(2), testutil.ToFloat64(m.pending))

		_, err = m.Mine(context.Background())
		require.NoError(t, err)

		assert.Equal(t, float64(2), testutil.ToFloat64(m.submitted))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.mined))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.skipped))
		assert.Zero(t, testutil.ToFloat64(m.pending))
		assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
		assert.Equal(t, 1, testutil.CollectAndCount(m.attempts))
	})

	t.Run("rejections by reason", func(t *testing.T) {
		l := baselineLedger(t, WithDifficulty(1))
		m := NewMetricsLedger(l, prometheus.NewRegistry())

		candidate := nextCandidate(t, l)
		candidate.PreviousHash = mocks.GenericHash
		_, err := m.ValidateAndAppend(candidate, mocks.GenericHash)
		require.ErrorIs(t, err, ledger.ErrChainLinkage)

		candidate = nextCandidate(t, l)
		_, err = m.ValidateAndAppend(candidate, mocks.GenericHash)
		require.ErrorIs(t, err, ledger.ErrProofInvalid)

		assert.Equal(t, float64(1), testutil.ToFloat64(m.rejected.WithLabelValues(reasonLinkage)))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.rejected.WithLabelValues(reasonProof)))
		assert.Zero(t, testutil.ToFloat64(m.rejected.WithLabelValues(reasonOther)))
	})

	t.Run("cancelled search is counted as aborted", func(t *testing.T) {
		l := baselineLedger(t, WithDifficulty(64))
		m := NewMetricsLedger(l, prometheus.NewRegistry())
		m.AddTransaction(mocks.GenericTransaction)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := m.Mine(ctx)
		require.ErrorIs(t, err, context.Canceled)

		assert.Equal(t, float64(1), testutil.ToFloat64(m.aborted))
		assert.Zero(t, testutil.ToFloat64(m.mined))
		assert.Zero(t, testutil.ToFloat64(m.rejected.WithLabelValues(reasonOther)))
	})

	t.Run("mined block lookup failure does not fail mining", func(t *testing.T) {
		store := mocks.BaselineStore(t)
		store.BlockFunc = func(uint64) (*ledger.Block, error) {
			return nil, mocks.GenericError
		}
		l := Ledger{
			log:        mocks.NoopLogger,
			hasher:     realHasher(t),
			store:      store,
			pool:       mempool.New(),
			difficulty: 1,
			clock:      time.Now,
			mutex:      &sync.Mutex{},
		}
		m := NewMetricsLedger(&l, prometheus.NewRegistry())
		m.AddTransaction(mocks.GenericTransaction)

		index, err := m.Mine(context.Background())
		require.NoError(t, err)

		assert.Equal(t, mocks.GenericIndex+1, index)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.mined))
	})
}
