package refgen

import (
	"errors"
	"fmt"
	"time"
)

// Reference and request validation errors. These are detected before any
// network call is made.
var (
	ErrEmptyReferencePath        = errors.New("reference path cannot be empty")
	ErrReferenceNotFound         = errors.New("reference image not found")
	ErrReferenceUnreadable       = errors.New("reference image cannot be decoded")
	ErrReferenceCountExceeded    = errors.New("too many reference images")
	ErrNoReferencesProvided      = errors.New("at least one reference image is required")
	ErrReferenceDirectoryMissing = errors.New("reference directory not found")
	ErrNoReferencesFound         = errors.New("no reference images found")
	ErrCredentialMissing         = errors.New("API credential not configured")
	ErrInvalidBatchCount         = errors.New("invalid batch count")
)

// Generation errors. Within a batch these fail a single iteration only.
var (
	ErrGenerationTransport = errors.New("generation request failed")
	ErrNoImageInResponse   = errors.New("no image in model response")
)

// ErrStorageNotConfigured is returned when storage operations are attempted
// without a configured storage backend.
var ErrStorageNotConfigured = errors.New("storage not configured")

// ReferenceError identifies the input image that failed validation.
type ReferenceError struct {
	Path string
	Err  error // ErrReferenceNotFound or ErrReferenceUnreadable
	// Cause is the underlying I/O or decode error, if any.
	Cause error
}

func (e *ReferenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Err, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Path)
}

func (e *ReferenceError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// DirectoryError is returned when a reference directory cannot supply images.
type DirectoryError struct {
	Dir string
	Err error // ErrReferenceDirectoryMissing or ErrNoReferencesFound
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Dir)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// TransportError wraps any failure of the remote call (network, auth, quota).
// It matches ErrGenerationTransport with errors.Is.
type TransportError struct {
	Model string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s (model %s): %v", ErrGenerationTransport, e.Model, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrGenerationTransport
}

// NoImageError is returned when the model answered without an inline image.
type NoImageError struct {
	// Text is whatever text the model returned instead, possibly empty.
	Text         string
	FinishReason string
}

func (e *NoImageError) Error() string {
	msg := ErrNoImageInResponse.Error()
	if e.FinishReason != "" {
		msg += " (finish reason: " + e.FinishReason + ")"
	}
	if e.Text != "" {
		msg += ": " + e.Text
	}
	return msg
}

func (e *NoImageError) Is(target error) bool {
	return target == ErrNoImageInResponse
}

// RateLimitError is returned when a rate limit is hit.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string
	Model      string
	Err        error // Underlying error from the provider
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s limit, retry after %v",
		e.Model, e.LimitType, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if an error is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// IsValidationError reports whether err was raised while checking inputs,
// i.e. before anything was sent to the remote service.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmptyPrompt,
		ErrEmptyReferencePath,
		ErrReferenceNotFound,
		ErrReferenceUnreadable,
		ErrReferenceCountExceeded,
		ErrNoReferencesProvided,
		ErrReferenceDirectoryMissing,
		ErrNoReferencesFound,
		ErrCredentialMissing,
		ErrUnsupportedAspectRatio,
		ErrUnsupportedResolution,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
