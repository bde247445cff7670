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
	"time"

	"github.com/optakt/flow-pow/models/ledger"
)

// DefaultConfig is the default configuration for the ledger.
var DefaultConfig = Config{
	Difficulty: ledger.DefaultDifficulty,
	Clock:      func() time.Time { return time.Now().UTC() },
}

// Config contains optional parameters for the ledger.
type Config struct {
	Difficulty uint
	Clock      func() time.Time
}

// WithDifficulty sets the number of leading hexadecimal zeros that the hash
// of every mined block needs to have. It is fixed for the lifetime of the
// ledger.
func WithDifficulty(difficulty uint) func(*Config) {
	return func(cfg *Config) {
		cfg.Difficulty = difficulty
	}
}

// WithClock sets the function used to timestamp new blocks.
func WithClock(clock func() time.Time) func(*Config) {
	return func(cfg *Config) {
		cfg.Clock = clock
	}
}
