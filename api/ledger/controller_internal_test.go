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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/flow-pow/models/ledger"
	"github.com/optakt/flow-pow/service/validator"
	"github.com/optakt/flow-pow/testing/mocks"
)

func TestNewController(t *testing.T) {
	l := mocks.BaselineLedger(t)
	v := mocks.BaselineValidator(t)

	c := NewController(l, v)

	assert.Equal(t, l, c.ledger)
	assert.Equal(t, v, c.validate)
	assert.NotNil(t, c.clock)
}

func TestController_NewTransaction(t *testing.T) {
	now := time.Unix(1600000000, 500000000)

	tests := []struct {
		name string
		body string

		wantStatus int
		wantBody   string
		wantAdded  bool
	}{
		{
			name:       "valid transaction",
			body:       `{"author":"a","content":"hi"}`,
			wantStatus: http.StatusCreated,
			wantBody:   MsgSuccess,
			wantAdded:  true,
		},
		{
			name:       "extra fields are kept",
			body:       `{"author":"a","content":"hi","extra":[1,2]}`,
			wantStatus: http.StatusCreated,
			wantBody:   MsgSuccess,
			wantAdded:  true,
		},
		{
			name:       "missing author",
			body:       `{"content":"hi"}`,
			wantStatus: http.StatusNotFound,
			wantBody:   MsgInvalidTransaction,
		},
		{
			name:       "empty content",
			body:       `{"author":"a","content":""}`,
			wantStatus: http.StatusNotFound,
			wantBody:   MsgInvalidTransaction,
		},
		{
			name:       "null body",
			body:       `null`,
			wantStatus: http.StatusNotFound,
			wantBody:   MsgInvalidTransaction,
		},
		{
			name:       "malformed body",
			body:       `{"author":`,
			wantStatus: http.StatusNotFound,
			wantBody:   MsgInvalidTransaction,
		},
		{
			name:       "not an object",
			body:       `["author","content"]`,
			wantStatus: http.StatusNotFound,
			wantBody:   MsgInvalidTransaction,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var added ledger.Transaction
			l := mocks.BaselineLedger(t)
			l.AddTransactionFunc = func(tx ledger.Transaction) {
				added = tx
			}

			c := NewController(l, validator.New())
			c.clock = func() time.Time { return now }

			req := httptest.NewRequest(http.MethodPost, "/new_transaction", strings.NewReader(test.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			ctx := echo.New().NewContext(req, rec)

			err := c.NewTransaction(ctx)
			require.NoError(t, err)

			assert.Equal(t, test.wantStatus, rec.Code)
			assert.Equal(t, test.wantBody, rec.Body.String())

			if !test.wantAdded {
				assert.Nil(t, added)
				return
			}

			require.NotNil(t, added)
			assert.Equal(t, "a", added["author"])
			assert.Equal(t, "hi", added["content"])
			assert.InDelta(t, 1600000000.5, added["timestamp"], 1e-6)
		})
	}
}

func TestController_Mine(t *testing.T) {
	t.Run("block mined", func(t *testing.T) {
		l := mocks.BaselineLedger(t)
		c := NewController(l, mocks.BaselineValidator(t))

		rec, ctx := request(http.MethodGet, "/mine")
		err := c.Mine(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var res MineResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, mocks.GenericIndex, res.Index)
		assert.Equal(t, fmt.Sprintf("Block #%d is mined.", mocks.GenericIndex), res.Message)
	})

	t.Run("nothing to mine", func(t *testing.T) {
		l := mocks.BaselineLedger(t)
		l.MineFunc = func(context.Context) (uint64, error) {
			return 0, ledger.ErrNothingToMine
		}
		c := NewController(l, mocks.BaselineValidator(t))

		rec, ctx := request(http.MethodGet, "/mine")
		err := c.Mine(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, MsgNothingToMine, rec.Body.String())
	})

	t.Run("mining failure", func(t *testing.T) {
		l := mocks.BaselineLedger(t)
		l.MineFunc = func(context.Context) (uint64, error) {
			return 0, mocks.GenericError
		}
		c := NewController(l, mocks.BaselineValidator(t))

		_, ctx := request(http.MethodGet, "/mine")
		err := c.Mine(ctx)

		assertHTTPError(t, err, http.StatusInternalServerError)
	})
}

func TestController_Chain(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		c := NewController(mocks.BaselineLedger(t), mocks.BaselineValidator(t))

		rec, ctx := request(http.MethodGet, "/chain")
		err := c.Chain(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var res struct {
			Length int `json:"length"`
			Chain  []struct {
				Index        uint64 `json:"index"`
				PreviousHash string `json:"previous_hash"`
				Hash         string `json:"hash"`
			} `json:"chain"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Length)
		require.Len(t, res.Chain, 1)
		assert.Equal(t, mocks.GenericIndex, res.Chain[0].Index)
		assert.Equal(t, mocks.GenericHash, res.Chain[0].Hash)
	})

	t.Run("ledger failure", func(t *testing.T) {
		l := mocks.BaselineLedger(t)
		l.ChainFunc = func() ([]*ledger.Block, error) {
			return nil, mocks.GenericError
		}
		c := NewController(l, mocks.BaselineValidator(t))

		_, ctx := request(http.MethodGet, "/chain")
		err := c.Chain(ctx)

		assertHTTPError(t, err, http.StatusInternalServerError)
	})
}

func TestController_Pending(t *testing.T) {
	c := NewController(mocks.BaselineLedger(t), mocks.BaselineValidator(t))

	rec, ctx := request(http.MethodGet, "/pending_tx")
	err := c.Pending(ctx)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var res []ledger.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, mocks.GenericTransactions(2), res)
}

func TestController_Block(t *testing.T) {
	t.Run("by index", func(t *testing.T) {
		var got uint64
		l := mocks.BaselineLedger(t)
		l.BlockFunc = func(index uint64) (*ledger.Block, error) {
			got = index
			return mocks.GenericBlock(), nil
		}
		c := NewController(l, mocks.BaselineValidator(t))

		rec, ctx := request(http.MethodGet, "/block/:id")
		ctx.SetParamNames("id")
		ctx.SetParamValues("42")

		err := c.Block(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint64(42), got)
	})

	t.Run("by hash", func(t *testing.T) {
		var got string
		l := mocks.BaselineLedger(t)
		l.BlockByHashFunc = func(hash string) (*ledger.Block, error) {
			got = hash
			return mocks.GenericBlock(), nil
		}
		c := NewController(l, mocks.BaselineValidator(t))

		rec, ctx := request(http.MethodGet, "/block/:id")
		ctx.SetParamNames("id")
		ctx.SetParamValues(mocks.GenericHash)

		err := c.Block(ctx)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, mocks.GenericHash, got)
	})

	t.Run("unknown block", func(t *testing.T) {
		l := mocks.BaselineLedger(t)
		l.BlockFunc = func(uint64) (*ledger.Block, error) {
			return nil, fmt.Errorf("could not retrieve block: %w", ledger.ErrNotFound)
		}
		c := NewController(l, mocks.BaselineValidator(t))

		_, ctx := request(http.MethodGet, "/block/:id")
		ctx.SetParamNames("id")
		ctx.SetParamValues("7")

		err := c.Block(ctx)

		assertHTTPError(t, err, http.StatusNotFound)
	})

	t.Run("ledger failure", func(t *testing.T) {
		l := mocks.BaselineLedger(t)
		l.BlockByHashFunc = func(string) (*ledger.Block, error) {
			return nil, mocks.GenericError
		}
		c := NewController(l, mocks.BaselineValidator(t))

		_, ctx := request(http.MethodGet, "/block/:id")
		ctx.SetParamNames("id")
		ctx.SetParamValues("abc")

		err := c.Block(ctx)

		assertHTTPError(t, err, http.StatusInternalServerError)
	})
}

func TestController_Register(t *testing.T) {
	server := echo.New()
	c := NewController(mocks.BaselineLedger(t), validator.New())
	c.Register(server)

	req := httptest.NewRequest(http.MethodPost, "/new_transaction", strings.NewReader(`{"author":"a","content":"hi"}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	for _, path := range []string{"/mine", "/chain", "/pending_tx", "/block/1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func request(method string, target string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(req, rec)
	return rec, ctx
}

func assertHTTPError(t *testing.T, err error, status int) {
	t.Helper()

	require.Error(t, err)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.Code)
}
