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

package miner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/optakt/flow-pow/models/ledger"
)

// Ledger represents the part of the ledger that the miner drives.
type Ledger interface {
	Mine(ctx context.Context) (uint64, error)
}

// Miner periodically mines the pending transactions of a ledger.
type Miner struct {
	log      zerolog.Logger
	ledger   Ledger
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       *sync.WaitGroup
}

// New creates a new miner that triggers mining on every interval.
func New(log zerolog.Logger, ledger Ledger, interval time.Duration) *Miner {
	ctx, cancel := context.WithCancel(context.Background())
	m := Miner{
		log:      log.With().Str("component", "miner").Logger(),
		ledger:   ledger,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		wg:       &sync.WaitGroup{},
	}
	return &m
}

// Run starts the mining loop in the background.
func (m *Miner) Run() {
	m.wg.Add(1)
	go m.loop()
}

// Stop stops the mining loop. A proof-of-work search that is in progress is
// aborted, and its transactions stay pending.
func (m *Miner) Stop() {
	m.cancel()
	m.wg.Wait()
}

func (m *Miner) loop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.mine()
		}
	}
}

func (m *Miner) mine() {
	index, err := m.ledger.Mine(m.ctx)
	switch {
	case errors.Is(err, ledger.ErrNothingToMine):
		m.log.Debug().Msg("no pending transactions")
	case errors.Is(err, context.Canceled):
		m.log.Debug().Msg("mining aborted")
	case err != nil:
		m.log.Error().Err(err).Msg("could not mine block")
	default:
		m.log.Info().Uint64("index", index).Msg("mined block")
	}
}
