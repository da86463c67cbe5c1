// internal/core/errors_test.go
package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	err := WrapError(ErrTrainFailed, errors.New("status 500"))
	want := "[TRAIN_FAILED] model training failed: status 500"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should return cause")
	}
}

func TestError_Is(t *testing.T) {
	wrapped := WrapError(ErrTrainingInProgress, nil)
	if !errors.Is(wrapped, ErrTrainingInProgress) {
		t.Error("wrapped error should match by code")
	}
	if errors.Is(wrapped, ErrTrainFailed) {
		t.Error("different codes should not match")
	}
}

func TestError_IsThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("calling model: %w", WrapError(ErrModelUnavailable, errors.New("dial tcp")))
	if !errors.Is(err, ErrModelUnavailable) {
		t.Error("expected match through fmt.Errorf wrapping")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("original")
	wrapped := WrapError(ErrPredictFailed, cause)
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrPredictFailed.Code {
		t.Error("code not preserved")
	}
}
