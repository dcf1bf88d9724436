package config

import (
	"errors"
	"fmt"
)

// ErrValidation matches every configuration error returned by this package.
var ErrValidation = errors.New("config: validation failed")

// ValidationError reports a missing or invalid configuration value.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	msg := "config: " + e.Msg
	if e.Field != "" {
		msg = fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// FormatError reports a config file that could not be parsed or whose
// extension is not supported. It also matches ErrValidation.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("config: parse %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is makes every FormatError match ErrValidation.
func (e *FormatError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
