// Package errors defines the structured error kinds used by the export
// pipeline. Validation problems are never represented as errors; they are
// collected into a kit.Report. The types here cover the genuinely fatal or
// recoverable conditions: missing configuration, build failures, and
// expected-absence lookups.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeBuild    ErrorType = "build"
	ErrorTypeNotFound ErrorType = "not_found"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeInternal ErrorType = "internal"
)

// KitError is a structured error type with context.
type KitError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Template    string
	Recoverable bool
}

// Error implements the error interface.
func (e *KitError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Template != "" {
		parts = append(parts, "template:"+e.Template)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *KitError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *KitError) Is(target error) bool {
	var t *KitError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithTemplate adds the owning template's name to the error.
func (e *KitError) WithTemplate(name string) *KitError {
	e.Template = name

	return e
}

// Common error codes.
const (
	ErrCodeNoBuilder        = "ERR_NO_PAGE_BUILDER"
	ErrCodeUnknownBuilder   = "ERR_UNKNOWN_PAGE_BUILDER"
	ErrCodeMissingKitName   = "ERR_MISSING_KIT_NAME"
	ErrCodeExportFailed     = "ERR_EXPORT_FAILED"
	ErrCodeArchiveFailed    = "ERR_ARCHIVE_FAILED"
	ErrCodeNoScreenshot     = "ERR_NO_SCREENSHOT"
	ErrCodeNoBuilderTree    = "ERR_NO_BUILDER_TREE"
	ErrCodeDocumentMissing  = "ERR_DOCUMENT_MISSING"
	ErrCodeStoreUnavailable = "ERR_STORE_UNAVAILABLE"
)

// NewConfigError creates a configuration error. Configuration errors abort
// any export-capable operation and are not recoverable.
func NewConfigError(code, message string) *KitError {
	return &KitError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewBuildError creates a build error. Build errors abort the current build
// call after temporary files are cleaned up.
func NewBuildError(code, message string, cause error) *KitError {
	return &KitError{
		Type:        ErrorTypeBuild,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewNotFoundError creates an expected-absence error. Callers treat these as
// "not available" rather than aborting.
func NewNotFoundError(code, message string) *KitError {
	return &KitError{
		Type:        ErrorTypeNotFound,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *KitError {
	return &KitError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *KitError {
	return &KitError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsNotFound checks whether an error represents expected absence.
func IsNotFound(err error) bool {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Type == ErrorTypeNotFound
	}

	return false
}

// IsBuildError checks if an error is build-related.
func IsBuildError(err error) bool {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Type == ErrorTypeBuild
	}

	return false
}

// IsConfigError checks if an error is configuration-related.
func IsConfigError(err error) bool {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Type == ErrorTypeConfig
	}

	return false
}

// ErrNoPageBuilder is returned when an export-capable operation runs before
// a page builder has been chosen.
func ErrNoPageBuilder() *KitError {
	return NewConfigError(ErrCodeNoBuilder, "no page builder chosen for this template kit")
}

// ErrUnknownPageBuilder is returned when settings name a builder this tool
// does not support.
func ErrUnknownPageBuilder(id string) *KitError {
	return NewConfigError(ErrCodeUnknownBuilder, "unknown page builder: "+id)
}

// ErrNoScreenshot is returned when a template has no thumbnail attachment.
func ErrNoScreenshot(templateName string) *KitError {
	return NewNotFoundError(ErrCodeNoScreenshot, "no screenshot available").WithTemplate(templateName)
}

// ErrExportFailed is returned when a builder cannot produce an export
// payload for a template. This aborts the whole build.
func ErrExportFailed(templateName string, cause error) *KitError {
	return NewBuildError(ErrCodeExportFailed, "cannot produce export payload", cause).WithTemplate(templateName)
}
