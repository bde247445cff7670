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

package pow

import (
	"context"
	"fmt"
	"strings"

	"github.com/optakt/flow-pow/models/ledger"
)

// Satisfies checks whether the hexadecimal hash starts with at least
// `difficulty` zero characters. The check works on the characters of the hex
// string, not on the numeric value of the digest.
func Satisfies(hash string, difficulty uint) bool {
	if uint(len(hash)) < difficulty {
		return false
	}
	return strings.HasPrefix(hash, strings.Repeat("0", int(difficulty)))
}

// Search looks for the first nonce, starting at zero, for which the hash of
// the candidate satisfies the difficulty. It sets the candidate's nonce to
// the result and returns it together with the matching hash.
//
// The search has no upper bound. It only stops early if the context is
// canceled, which is checked before every attempt.
func Search(ctx context.Context, hasher ledger.Hasher, candidate *ledger.Candidate, difficulty uint) (uint64, string, error) {

	candidate.Nonce = 0
	for {
		err := ctx.Err()
		if err != nil {
			return 0, "", fmt.Errorf("proof-of-work search aborted (index: %d, nonce: %d): %w", candidate.Index, candidate.Nonce, err)
		}

		hash, err := hasher.Hash(candidate)
		if err != nil {
			return 0, "", fmt.Errorf("could not hash candidate (nonce: %d): %w", candidate.Nonce, err)
		}

		if Satisfies(hash, difficulty) {
			return candidate.Nonce, hash, nil
		}

		candidate.Nonce++
	}
}
