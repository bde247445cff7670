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

package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/optakt/flow-pow/models/ledger"
)

const (
	// tagPresent marks fields that need to hold a value which is not empty.
	tagPresent = "present"
)

// transactionRequest holds the fields every submitted transaction needs.
// The fields are interfaces because transactions are opaque: a field only
// needs to be present and not empty, whatever its type.
type transactionRequest struct {
	Author  interface{} `json:"author" validate:"present"`
	Content interface{} `json:"content" validate:"present"`
}

// Validator checks transactions at the intake boundary, before they are
// handed to the ledger.
type Validator struct {
	validate *validator.Validate
}

// New creates a new transaction validator.
func New() *Validator {

	validate := validator.New()

	// Report fields under the names they have in the submitted JSON.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// The registration only fails for an empty tag or a nil function.
	_ = validate.RegisterValidation(tagPresent, present)

	v := Validator{
		validate: validate,
	}

	return &v
}

// Transaction checks that the transaction has a non-empty author and a
// non-empty content. Any failure wraps `ErrInvalidTransaction`.
func (v *Validator) Transaction(tx ledger.Transaction) error {

	req := transactionRequest{
		Author:  tx["author"],
		Content: tx["content"],
	}

	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("could not validate transaction: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, verr := range verrs {
		fields = append(fields, verr.Field())
	}

	return fmt.Errorf("missing or empty fields (%s): %w", strings.Join(fields, ", "), ledger.ErrInvalidTransaction)
}

// present reports whether the field holds a value that is not empty. Zero
// numbers, false, empty strings and empty collections all count as empty.
func present(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Invalid:
		return false
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return field.Len() > 0
	case reflect.Bool:
		return field.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return field.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return field.Float() != 0
	case reflect.Ptr, reflect.Interface:
		return !field.IsNil()
	default:
		return true
	}
}
