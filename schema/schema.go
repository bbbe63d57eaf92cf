package schema

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Schema is a structured value exchanged with a language model or a tool
type Schema interface {
	// Validate checks field level constraints of the value
	Validate() error
}

// ErrEmptyInput is returned when a required free text input is blank
var ErrEmptyInput = errors.New("empty input")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared struct validator
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates v against its `validate` struct tags
func ValidateStruct(v any) error {
	return Validator().Struct(v)
}

// Stringify returns the textual presentation of v, strings are returned as is, anything else is JSON encoded
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	bs, _ := json.Marshal(v)
	return string(bs)
}
