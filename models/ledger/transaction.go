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

// Transaction is an opaque record submitted to the ledger. Its structure is
// owned by whoever submits it; the ledger only copies, stores and hashes it.
type Transaction map[string]interface{}

// Copy returns a deep copy of the transaction. Nested maps and slices are
// copied as well, so the copy can be handed out without exposing the
// original's memory.
func (t Transaction) Copy() Transaction {
	if t == nil {
		return nil
	}
	dup := make(Transaction, len(t))
	for key, val := range t {
		dup[key] = copyValue(val)
	}
	return dup
}

func copyValue(val interface{}) interface{} {
	switch v := val.(type) {
	case map[string]interface{}:
		dup := make(map[string]interface{}, len(v))
		for key, inner := range v {
			dup[key] = copyValue(inner)
		}
		return dup
	case Transaction:
		return v.Copy()
	case []interface{}:
		dup := make([]interface{}, 0, len(v))
		for _, inner := range v {
			dup = append(dup, copyValue(inner))
		}
		return dup
	case []byte:
		dup := make([]byte, len(v))
		copy(dup, v)
		return dup
	default:
		return v
	}
}
