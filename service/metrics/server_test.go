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

package metrics_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/flow-pow/service/metrics"
	"github.com/optakt/flow-pow/testing/mocks"
)

func TestServer(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "test_counter",
		Help: "counter for testing",
	})
	counter.Inc()

	address := freeAddress(t)
	server := metrics.NewServer(mocks.NoopLogger, address, registry)

	stopped := make(chan error, 1)
	go func() {
		stopped <- server.Start()
	}()

	var body string
	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + address + "/metrics")
		if err != nil {
			return false
		}
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		if err != nil {
			return false
		}
		body = string(data)
		return res.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	assert.Contains(t, body, "test_counter 1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))
	assert.NoError(t, <-stopped)
}

func TestRegisterBadgerMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	err := metrics.RegisterBadgerMetrics(registry)
	require.NoError(t, err)

	err = metrics.RegisterBadgerMetrics(registry)
	assert.Error(t, err)
}

func freeAddress(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := listener.Addr().String()
	require.NoError(t, listener.Close())

	return address
}
