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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/dgraph-io/badger/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/ziflex/lecho/v2"

	api "github.com/optakt/flow-pow/api/ledger"
	"github.com/optakt/flow-pow/codec/zbor"
	"github.com/optakt/flow-pow/models/ledger"
	"github.com/optakt/flow-pow/service/index"
	chain "github.com/optakt/flow-pow/service/ledger"
	"github.com/optakt/flow-pow/service/mempool"
	"github.com/optakt/flow-pow/service/metrics"
	"github.com/optakt/flow-pow/service/miner"
	"github.com/optakt/flow-pow/service/pow"
	"github.com/optakt/flow-pow/service/profiler"
	"github.com/optakt/flow-pow/service/storage"
	"github.com/optakt/flow-pow/service/validator"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Signal catching for clean shutdown.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	// Command line parameter initialization.
	var (
		flagCache      uint64
		flagDifficulty uint
		flagInterval   time.Duration
		flagLevel      string
		flagMetrics    string
		flagPort       uint16
		flagProfiler   string
	)

	pflag.Uint64VarP(&flagCache, "cache", "e", uint64(64*datasize.MB), "maximum cache size for block reads in bytes")
	pflag.UintVarP(&flagDifficulty, "difficulty", "d", ledger.DefaultDifficulty, "number of leading zeros required in block hashes")
	pflag.DurationVarP(&flagInterval, "interval", "i", 0, "interval for automatic mining of pending transactions (0 to disable)")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "m", "", "address on which to expose metrics (no metrics are exposed when left empty)")
	pflag.Uint16VarP(&flagPort, "port", "p", 8000, "port to host the ledger API on")
	pflag.StringVar(&flagProfiler, "profiler", "", "address for net/http/pprof profiler (profiler is disabled if left empty)")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)
	elog := lecho.From(log)

	// The chain only lives in memory; it starts over from genesis on every
	// restart.
	db, err := badger.Open(index.InMemoryOptions())
	if err != nil {
		log.Error().Err(err).Msg("could not open block database")
		return failure
	}
	defer func() {
		err := db.Close()
		if err != nil {
			log.Error().Err(err).Msg("could not close block database")
		}
	}()

	// Initialize storage library.
	codec, err := zbor.NewCodec()
	if err != nil {
		log.Error().Err(err).Msg("could not initialize storage codec")
		return failure
	}
	lib := storage.New(codec)

	// Initialize the block store and the ledger on top of it.
	store, err := index.NewStore(db, lib, index.WithCacheSize(int64(flagCache)))
	if err != nil {
		log.Error().Err(err).Msg("could not initialize block store")
		return failure
	}
	hasher, err := pow.NewHasher()
	if err != nil {
		log.Error().Err(err).Msg("could not initialize block hasher")
		return failure
	}
	pool := mempool.New()
	core, err := chain.New(log, hasher, index.NewMetricsStore(store, prometheus.DefaultRegisterer), pool,
		chain.WithDifficulty(flagDifficulty),
	)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize ledger")
		return failure
	}
	metered := chain.NewMetricsLedger(core, prometheus.DefaultRegisterer)

	// Ledger API initialization.
	ctrl := api.NewController(metered, validator.New())

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Logger = elog
	server.Use(lecho.Middleware(lecho.Config{Logger: elog}))
	ctrl.Register(server)

	// Metrics of the ledger, the block store and the database are registered
	// with the default registry and exposed on their own address.
	var metricsServer *metrics.Server
	if flagMetrics != "" {
		err = metrics.RegisterBadgerMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			log.Error().Err(err).Msg("could not register database metrics")
			return failure
		}
		metricsServer = metrics.NewServer(log, flagMetrics, prometheus.DefaultGatherer)
	}
	var profilerServer *profiler.Server
	if flagProfiler != "" {
		profilerServer = profiler.NewServer(log, flagProfiler)
	}

	// Automatic mining is optional; without it, blocks are only mined on
	// request.
	var mine *miner.Miner
	if flagInterval > 0 {
		mine = miner.New(log, metered, flagInterval)
	}

	// This section launches the main executing components in their own
	// goroutine, so they can run concurrently. Afterwards, we wait for an
	// interrupt signal in order to proceed with the next section.
	done := make(chan struct{})
	failed := make(chan struct{})
	go func() {
		log.Info().Uint16("port", flagPort).Uint("difficulty", flagDifficulty).Msg("Flow PoW Server starting")
		err := server.Start(fmt.Sprint(":", flagPort))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Msg("Flow PoW Server failed")
			close(failed)
		} else {
			close(done)
		}
		log.Info().Msg("Flow PoW Server stopped")
	}()
	go func() {
		if metricsServer == nil {
			return
		}
		err := metricsServer.Start()
		if err != nil {
			log.Warn().Err(err).Msg("metrics server failed")
		}
		log.Info().Msg("metrics server stopped")
	}()
	go func() {
		if profilerServer == nil {
			return
		}
		err := profilerServer.Start()
		if err != nil {
			log.Warn().Err(err).Msg("profiler server failed")
		}
		log.Info().Msg("profiler server stopped")
	}()
	if mine != nil {
		mine.Run()
		log.Info().Dur("interval", flagInterval).Msg("automatic mining enabled")
	}

	select {
	case <-sig:
		log.Info().Msg("Flow PoW Server stopping")
	case <-done:
		log.Info().Msg("Flow PoW Server done")
	case <-failed:
		log.Warn().Msg("Flow PoW Server aborted")
		if mine != nil {
			mine.Stop()
		}
		return failure
	}
	go func() {
		<-sig
		log.Warn().Msg("forcing exit")
		os.Exit(1)
	}()

	// Stopping the miner aborts any proof-of-work search it has in progress.
	if mine != nil {
		mine.Stop()
	}

	// The following code starts a shut down with a certain timeout and makes
	// sure that the server is shutting down within the allocated shutdown
	// time. Otherwise, we will force the shutdown and log an error.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = server.Shutdown(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not shut down ledger API")
		return failure
	}
	if metricsServer != nil {
		err = metricsServer.Stop(ctx)
		if err != nil {
			log.Error().Err(err).Msg("could not shut down metrics server")
			return failure
		}
	}
	if profilerServer != nil {
		err = profilerServer.Stop(ctx)
		if err != nil {
			log.Error().Err(err).Msg("could not shut down profiler")
			return failure
		}
	}

	return success
}
