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

package zbor

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Codec is a structure that combines CBOR-encoding and Zstandard compression.
// Values are encoded canonically, so the same block always results in the
// same bytes, and generic maps are decoded with string keys, so opaque
// transactions survive a round-trip unchanged.
type Codec struct {
	// encoder configures the way data gets CBOR-encoded.
	encoder cbor.EncMode

	// decoder configures the way data gets CBOR-decoded.
	decoder cbor.DecMode

	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

// NewCodec creates a new Codec.
func NewCodec() (*Codec, error) {

	encOpts := cbor.CanonicalEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano
	encoder, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("could not initialize encoder: %w", err)
	}

	decOpts := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}{}),
	}
	decoder, err := decOpts.DecMode()
	if err != nil {
		return nil, fmt.Errorf("could not initialize decoder: %w", err)
	}

	compressor, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		return nil, fmt.Errorf("could not initialize compressor: %w", err)
	}

	decompressor, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("could not initialize decompressor: %w", err)
	}

	c := Codec{
		encoder:      encoder,
		decoder:      decoder,
		compressor:   compressor,
		decompressor: decompressor,
	}

	return &c, nil
}

// Marshal encodes and compresses the given value.
func (c *Codec) Marshal(v interface{}) ([]byte, error) {
	b, err := c.encoder.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("unable to encode value: %w", err)
	}

	return c.compressor.EncodeAll(b, nil), nil
}

// Unmarshal decompresses and decodes the given bytes into the value.
func (c *Codec) Unmarshal(b []byte, v interface{}) error {
	val, err := c.decompressor.DecodeAll(b, nil)
	if err != nil {
		return fmt.Errorf("unable to decompress value: %w", err)
	}

	err = c.decoder.Unmarshal(val, v)
	if err != nil {
		return fmt.Errorf("unable to decode value: %w", err)
	}

	return nil
}
