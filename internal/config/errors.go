// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigIO is the sentinel error wrapped by ConfigIOError.
	ErrConfigIO = errors.New("config file I/O failed")
	// ErrConfigParse is the sentinel error wrapped by ConfigParseError.
	ErrConfigParse = errors.New("config file invalid")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
	// ErrUnsupportedFormat is returned for file extensions and dump formats
	// modctl cannot read or write.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

type (
	// ConfigIOError is returned when a configuration file is missing or
	// cannot be read or written.
	//
	//nolint:revive // ConfigIOError reads better than IOError at call sites
	ConfigIOError struct {
		Path string
		Err  error
	}

	// ConfigParseError is returned when a configuration file has a syntax
	// error, violates the schema, or decodes to invalid values.
	//
	//nolint:revive // ConfigParseError reads better than ParseError at call sites
	ConfigParseError struct {
		Path string
		Err  error
	}

	// InvalidLoadOptionsError collects field-level errors of LoadOptions.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *ConfigIOError) Error() string {
	return fmt.Sprintf("config file %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrConfigIO and the underlying cause, so errors.Is
// matches either (for example os.ErrNotExist).
func (e *ConfigIOError) Unwrap() []error { return []error{ErrConfigIO, e.Err} }

// Error implements the error interface.
func (e *ConfigParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("config file %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrConfigParse and the underlying cause.
func (e *ConfigParseError) Unwrap() []error { return []error{ErrConfigParse, e.Err} }

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }
