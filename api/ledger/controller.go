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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/optakt/flow-pow/models/ledger"
)

// Controller serves the HTTP API of the ledger.
type Controller struct {
	ledger   Ledger
	validate Validator
	clock    func() time.Time
}

// NewController creates a new API controller for the given ledger.
func NewController(ledger Ledger, validate Validator) *Controller {
	c := Controller{
		ledger:   ledger,
		validate: validate,
		clock:    time.Now,
	}
	return &c
}

// NewTransaction accepts a new transaction as a JSON object. The transaction
// needs a non-empty `author` and `content`; otherwise, it is rejected with a
// 404 status, which is kept for compatibility with existing clients. Accepted
// transactions get their `timestamp` field set to the current time in
// seconds and are answered with a 201 status.
func (c *Controller) NewTransaction(ctx echo.Context) error {

	var tx ledger.Transaction
	err := json.NewDecoder(ctx.Request().Body).Decode(&tx)
	if err != nil {
		ctx.Logger().Debugf("could not decode transaction: %s", err)
		return ctx.String(http.StatusNotFound, MsgInvalidTransaction)
	}

	err = c.validate.Transaction(tx)
	if err != nil {
		ctx.Logger().Debugf("rejected transaction: %s", err)
		return ctx.String(http.StatusNotFound, MsgInvalidTransaction)
	}

	now := c.clock()
	tx["timestamp"] = float64(now.UnixNano()) / float64(time.Second)

	c.ledger.AddTransaction(tx)

	return ctx.String(http.StatusCreated, MsgSuccess)
}

// Mine seals the pending transactions into a new block.
func (c *Controller) Mine(ctx echo.Context) error {

	index, err := c.ledger.Mine(ctx.Request().Context())
	if errors.Is(err, ledger.ErrNothingToMine) {
		return ctx.String(http.StatusOK, MsgNothingToMine)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}

	res := MineResponse{
		Index:   index,
		Message: fmt.Sprintf("Block #%d is mined.", index),
	}

	return ctx.JSON(http.StatusOK, res)
}

// Chain returns every block of the chain, starting with genesis.
func (c *Controller) Chain(ctx echo.Context) error {

	blocks, err := c.ledger.Chain()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}

	res := ChainResponse{
		Length: len(blocks),
		Chain:  blocks,
	}

	return ctx.JSON(http.StatusOK, res)
}

// Pending returns the transactions that are waiting to be mined.
func (c *Controller) Pending(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.ledger.Pending())
}

// Block returns a single block, identified either by its index or by its
// hash.
func (c *Controller) Block(ctx echo.Context) error {

	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing block identifier")
	}

	var block *ledger.Block
	index, err := strconv.ParseUint(id, 10, 64)
	if err == nil {
		block, err = c.ledger.Block(index)
	} else {
		block, err = c.ledger.BlockByHash(id)
	}
	if errors.Is(err, ledger.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown block").SetInternal(err)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}

	return ctx.JSON(http.StatusOK, block)
}

// Register registers the API routes on the given server.
func (c *Controller) Register(server *echo.Echo) {
	server.POST("/new_transaction", c.NewTransaction)
	server.GET("/mine", c.Mine)
	server.GET("/chain", c.Chain)
	server.GET("/pending_tx", c.Pending)
	server.GET("/block/:id", c.Block)
}
