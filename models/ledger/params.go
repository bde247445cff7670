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

const (
	// DefaultDifficulty is the number of leading hexadecimal zeros a block hash
	// needs when no other difficulty is configured.
	DefaultDifficulty = 2

	// GenesisPreviousHash is the sentinel previous hash of the genesis block.
	// It is not the hash of any block.
	GenesisPreviousHash = "0"

	GenesisIndex = 0
)
