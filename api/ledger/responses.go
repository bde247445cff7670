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
	"github.com/optakt/flow-pow/models/ledger"
)

const (
	// MsgSuccess is the body of the answer to an accepted transaction.
	MsgSuccess = "Success"

	// MsgInvalidTransaction is the body of the answer to a rejected
	// transaction.
	MsgInvalidTransaction = "Invalid transaction data"

	// MsgNothingToMine is the body of the answer to a mining request without
	// pending transactions.
	MsgNothingToMine = "No transactions to mine"
)

// ChainResponse is the answer to a chain inspection request.
type ChainResponse struct {
	Length int             `json:"length"`
	Chain  []*ledger.Block `json:"chain"`
}

// MineResponse is the answer to a successful mining request.
type MineResponse struct {
	Index   uint64 `json:"index"`
	Message string `json:"message"`
}
