// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Model service errors
	ErrModelUnavailable = &Error{Code: "MODEL_UNAVAILABLE", Message: "model service unavailable"}
	ErrTrainFailed      = &Error{Code: "TRAIN_FAILED", Message: "model training failed"}
	ErrPredictFailed    = &Error{Code: "PREDICT_FAILED", Message: "prediction request failed"}
	ErrModelReported    = &Error{Code: "MODEL_REPORTED", Message: "model service reported an error"}

	// View state errors
	ErrTrainingInProgress = &Error{Code: "TRAINING_IN_PROGRESS", Message: "training already in progress"}
	ErrInvalidHorizon     = &Error{Code: "INVALID_HORIZON", Message: "prediction horizon out of range"}
	ErrNotFound           = &Error{Code: "NOT_FOUND", Message: "resource not found"}

	// Side-channel errors
	ErrArchiveFailed  = &Error{Code: "ARCHIVE_FAILED", Message: "archiving snapshot failed"}
	ErrNotifierFailed = &Error{Code: "NOTIFIER_FAILED", Message: "notifier failed"}
	ErrLLMFailed      = &Error{Code: "LLM_FAILED", Message: "LLM request failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}
)
