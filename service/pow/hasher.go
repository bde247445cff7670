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
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/optakt/flow-pow/models/ledger"
)

// content is the hashed representation of a block. The canonical CBOR
// encoding sorts its keys, as well as the keys of every transaction, so two
// logically identical blocks always produce the same bytes, no matter in
// which order their transaction fields were inserted.
type content struct {
	Index        uint64               `cbor:"index"`
	Transactions []ledger.Transaction `cbor:"transactions"`
	Timestamp    int64                `cbor:"timestamp"`
	PreviousHash string               `cbor:"previous_hash"`
	Nonce        uint64               `cbor:"nonce"`
}

// Hasher computes block hashes as the lowercase hexadecimal SHA-256 digest of
// the block's canonical CBOR encoding.
type Hasher struct {
	encoder cbor.EncMode
}

// NewHasher creates a new block hasher.
func NewHasher() (*Hasher, error) {

	// Time values inside transactions are encoded the same way as in the
	// storage codec, so that a block hashes the same before and after it was
	// stored.
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	encoder, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("could not initialize canonical encoder: %w", err)
	}

	h := Hasher{
		encoder: encoder,
	}

	return &h, nil
}

// Hash returns the hash of the given candidate. The timestamp is hashed with
// nanosecond precision and independently of its time zone.
func (h *Hasher) Hash(candidate *ledger.Candidate) (string, error) {

	// A nil slice would be encoded as CBOR null, while a decoded empty block
	// has an empty slice, so both are normalized to an empty array.
	transactions := candidate.Transactions
	if transactions == nil {
		transactions = []ledger.Transaction{}
	}

	c := content{
		Index:        candidate.Index,
		Transactions: transactions,
		Timestamp:    candidate.Timestamp.UnixNano(),
		PreviousHash: candidate.PreviousHash,
		Nonce:        candidate.Nonce,
	}
	data, err := h.encoder.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("could not encode block content (index: %d): %w", candidate.Index, err)
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}
