package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownSetting indicates a key that no setting recognises.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidValue indicates a value of the right type that is not allowed.
	ErrInvalidValue = errors.New("invalid value")
)

// ValidationError describes a rejected setting.
type ValidationError struct {
	// Key is the setting key, e.g. "line-length".
	Key string
	// Value is the rejected value.
	Value any
	// Reason describes the problem.
	Reason string
	// Err is one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Key, e.Reason, e.Value)
}

// Unwrap returns the sentinel category.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// typeName returns a short name for v's dynamic type.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32, float64:
		return "float"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
