// Package errors provides custom error types for the schedcheck system.
// These errors enable programmatic error checking and carry enough context
// to identify the source file, row, or API call at fault.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the schedcheck system
var (
	// ErrUnknownSource indicates a source identifier with no registered parser
	ErrUnknownSource = errors.New("unknown source")

	// ErrNoData indicates that an input file yielded no usable rows
	ErrNoData = errors.New("no data")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrDesync indicates the time disambiguation pass lost track of the date
	ErrDesync = errors.New("disambiguation out of sync")

	// ErrUpstream indicates a non-success response from the schedule API
	ErrUpstream = errors.New("upstream fetch failed")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")
)

// ConfigError represents a configuration error, such as a request to parse
// or compare an unrecognized source. It is surfaced before any work begins.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// UnknownSourceError creates a ConfigError for an unrecognized source identifier.
func UnknownSourceError(source string) *ConfigError {
	return &ConfigError{
		Component: "sources",
		Message:   fmt.Sprintf("unknown source %q", source),
		Err:       ErrUnknownSource,
	}
}

// APIError represents a non-success response from the schedule API.
// A failed day is logged and recorded as absent; the batch continues.
type APIError struct {
	Source     string
	StatusCode int
	Endpoint   string
	Body       string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Source, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("API error from %s: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	return target == ErrUpstream
}

// NewAPIError creates a new APIError
func NewAPIError(source string, statusCode int, body string) *APIError {
	return &APIError{Source: source, StatusCode: statusCode, Body: body}
}

// ExtractionError represents a failure to extract usable rows from an input
// file. Individual bad rows are skipped with a diagnostic instead; this error
// is for files that cannot be read or yield nothing at all.
type ExtractionError struct {
	Source  string
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("extraction error in %s file %s: %s", e.Source, e.File, e.Message)
	}
	return fmt.Sprintf("%s extraction error: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ExtractionError) Is(target error) bool {
	return target == ErrNoData
}

// NewExtractionError creates a new ExtractionError
func NewExtractionError(source, file, message string, err error) *ExtractionError {
	return &ExtractionError{Source: source, File: file, Message: message, Err: err}
}

// DesyncError reports that the time disambiguation pass drifted more than one
// calendar day ahead of a row's own nominal date. The pass aborts and no
// output is persisted, since downstream reconciliation assumes chronological
// validity.
type DesyncError struct {
	Row     int
	Current time.Time
	Nominal time.Time
	IsAM    bool
}

// Error implements the error interface
func (e *DesyncError) Error() string {
	return fmt.Sprintf("date tracking out of sync at row %d: tracking %s, column says %s (am=%t)",
		e.Row, e.Current.Format("2006-01-02"), e.Nominal.Format("2006-01-02"), e.IsAM)
}

// Is implements errors.Is support
func (e *DesyncError) Is(target error) bool {
	return target == ErrDesync
}

// IOError represents a file system operation failure
type IOError struct {
	Operation string
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "csv", "pdf", "mhtml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// Helper functions for error checking

// IsUnknownSource checks if an error stems from an unrecognized source identifier
func IsUnknownSource(err error) bool {
	return errors.Is(err, ErrUnknownSource)
}

// IsDesync checks if an error is a disambiguation desync
func IsDesync(err error) bool {
	return errors.Is(err, ErrDesync)
}

// IsUpstream checks if an error is an upstream fetch failure
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsNoData checks if an error indicates an input with no usable rows
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
