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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optakt/flow-pow/models/ledger"
)

const (
	labelReason = "reason"

	reasonLinkage = "linkage"
	reasonProof   = "proof"
	reasonOther   = "other"
)

// MetricsLedger wraps the ledger and records metrics for transaction intake,
// mining and appends.
type MetricsLedger struct {
	*Ledger

	submitted prometheus.Counter
	mined     prometheus.Counter
	skipped   prometheus.Counter
	aborted   prometheus.Counter
	rejected  *prometheus.CounterVec
	pending   prometheus.GaugeFunc
	duration  prometheus.Histogram
	attempts  prometheus.Histogram
}

// NewMetricsLedger creates a new ledger that forwards to the given ledger and
// registers its metrics with the given registerer.
func NewMetricsLedger(l *Ledger, registerer prometheus.Registerer) *MetricsLedger {

	factory := promauto.With(registerer)

	submittedOpts := prometheus.CounterOpts{
		Name: "ledger_submitted_transactions",
		Help: "the number of transactions added to the pending buffer",
	}
	submitted := factory.NewCounter(submittedOpts)

	minedOpts := prometheus.CounterOpts{
		Name: "ledger_mined_blocks",
		Help: "the number of blocks mined and appended",
	}
	mined := factory.NewCounter(minedOpts)

	skippedOpts := prometheus.CounterOpts{
		Name: "ledger_skipped_mining",
		Help: "the number of mining requests without pending transactions",
	}
	skipped := factory.NewCounter(skippedOpts)

	abortedOpts := prometheus.CounterOpts{
		Name: "ledger_aborted_mining",
		Help: "the number of proof-of-work searches aborted by cancellation",
	}
	aborted := factory.NewCounter(abortedOpts)

	rejectedOpts := prometheus.CounterOpts{
		Name: "ledger_rejected_blocks",
		Help: "the number of candidate blocks rejected on append",
	}
	rejected := factory.NewCounterVec(rejectedOpts, []string{labelReason})

	pendingOpts := prometheus.GaugeOpts{
		Name: "ledger_pending_transactions",
		Help: "the number of transactions waiting to be mined",
	}
	pending := factory.NewGaugeFunc(pendingOpts, func() float64 {
		return float64(l.pool.Len())
	})

	durationOpts := prometheus.HistogramOpts{
		Name:    "ledger_mining_seconds",
		Help:    "the time spent mining a block",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}
	duration := factory.NewHistogram(durationOpts)

	attemptsOpts := prometheus.HistogramOpts{
		Name:    "ledger_mining_attempts",
		Help:    "the number of nonces tried to mine a block",
		Buckets: prometheus.ExponentialBuckets(1, 4, 12),
	}
	attempts := factory.NewHistogram(attemptsOpts)

	m := MetricsLedger{
		Ledger: l,

		submitted: submitted,
		mined:     mined,
		skipped:   skipped,
		aborted:   aborted,
		rejected:  rejected,
		pending:   pending,
		duration:  duration,
		attempts:  attempts,
	}

	return &m
}

// AddTransaction adds the transaction to the pending buffer and counts it.
func (m *MetricsLedger) AddTransaction(tx ledger.Transaction) {
	m.submitted.Inc()
	m.Ledger.AddTransaction(tx)
}

// Mine mines a block and records how long it took and how many nonces were
// needed.
func (m *MetricsLedger) Mine(ctx context.Context) (uint64, error) {
	start := time.Now()
	index, err := m.Ledger.Mine(ctx)
	if errors.Is(err, ledger.ErrNothingToMine) {
		m.skipped.Inc()
		return index, err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		m.aborted.Inc()
		return index, err
	}
	if err != nil {
		m.reject(err)
		return index, err
	}

	m.mined.Inc()
	m.duration.Observe(time.Since(start).Seconds())
	block, err := m.Ledger.Block(index)
	if err != nil {
		m.log.Warn().Err(err).Uint64("index", index).Msg("could not get mined block for metrics")
		return index, nil
	}
	m.attempts.Observe(float64(block.Nonce + 1))

	return index, nil
}

// ValidateAndAppend validates and appends the candidate, counting rejections
// by reason.
func (m *MetricsLedger) ValidateAndAppend(candidate *ledger.Candidate, proof string) (*ledger.Block, error) {
	block, err := m.Ledger.ValidateAndAppend(candidate, proof)
	if err != nil {
		m.reject(err)
	}
	return block, err
}

func (m *MetricsLedger) reject(err error) {
	reason := reasonOther
	switch {
	case errors.Is(err, ledger.ErrChainLinkage):
		reason = reasonLinkage
	case errors.Is(err, ledger.ErrProofInvalid):
		reason = reasonProof
	}
	m.rejected.With(prometheus.Labels{labelReason: reason}).Inc()
}
