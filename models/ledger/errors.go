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
	"errors"
)

var (
	// ErrInvalidTransaction is returned at the intake boundary when a submitted
	// transaction lacks one of its required fields. It never reaches the chain.
	ErrInvalidTransaction = errors.New("invalid transaction data")

	// ErrChainLinkage is returned when a candidate's previous hash does not
	// match the hash of the current chain tip.
	ErrChainLinkage = errors.New("previous hash does not match chain tip")

	// ErrProofInvalid is returned when a proof does not satisfy the difficulty
	// or does not match the recomputed hash of the candidate.
	ErrProofInvalid = errors.New("invalid proof of work")

	// ErrNothingToMine signals that mining was requested without pending
	// transactions. It is a no-op, not a failure.
	ErrNothingToMine = errors.New("no transactions to mine")

	ErrNotFound = errors.New("not found")
)
