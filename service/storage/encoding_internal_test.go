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

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeKey(t *testing.T) {
	t.Run("prefix only", func(t *testing.T) {
		assert.Equal(t, []byte{PrefixLast}, EncodeKey(PrefixLast))
	})

	t.Run("heights are big-endian", func(t *testing.T) {
		got := EncodeKey(PrefixBlock, uint64(258))
		assert.Equal(t, []byte{PrefixBlock, 0, 0, 0, 0, 0, 0, 1, 2}, got)
	})

	t.Run("multiple segments", func(t *testing.T) {
		got := EncodeKey(PrefixHeightForHash, uint64(1), []byte{0xff})
		assert.Equal(t, []byte{PrefixHeightForHash, 0, 0, 0, 0, 0, 0, 0, 1, 0xff}, got)
	})

	t.Run("unknown segment type", func(t *testing.T) {
		assert.Panics(t, func() {
			EncodeKey(PrefixBlock, "string")
		})
	})
}
