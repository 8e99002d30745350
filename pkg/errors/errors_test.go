package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/dotsctl/dotsctl/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "source does not exist",
			wantStr: "[NOT_FOUND] source does not exist",
		},
		{
			name:    "duplicate_source_error",
			code:    errors.ErrDuplicateSource,
			message: "source resolved twice",
			wantStr: "[DUPLICATE_SOURCE] source resolved twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := errors.Wrap(cause, errors.ErrFileAccess, "cannot read source")

	if got := err.Error(); got != "[FILE_ACCESS] cannot read source: permission denied" {
		t.Errorf("Error() = %q", got)
	}

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should satisfy errors.Is on the cause")
	}

	if errors.Wrap(nil, errors.ErrFileAccess, "x") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestIsByCode(t *testing.T) {
	err := errors.Newf(errors.ErrUnitCycle, "unit %s already planned", "/a/b")

	if !stderrors.Is(err, errors.New(errors.ErrUnitCycle, "any message")) {
		t.Error("errors with the same code should match via errors.Is")
	}

	if stderrors.Is(err, errors.New(errors.ErrConflict, "any message")) {
		t.Error("errors with different codes should not match")
	}
}

func TestIsErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", errors.New(errors.ErrUnknownDistro, "no match"))

	if !errors.IsErrorCode(wrapped, errors.ErrUnknownDistro) {
		t.Error("IsErrorCode should see through plain wrapping")
	}

	if errors.IsErrorCode(fmt.Errorf("plain"), errors.ErrUnknownDistro) {
		t.Error("IsErrorCode should be false for non-DotsError")
	}

	if errors.GetErrorCode(fmt.Errorf("plain")) != errors.ErrUnknown {
		t.Error("GetErrorCode should default to ErrUnknown")
	}
}

func TestGetMessage(t *testing.T) {
	plain := errors.New(errors.ErrNotFound, "no such file")
	if got := errors.GetMessage(plain); got != "no such file" {
		t.Errorf("GetMessage() = %q, want %q", got, "no such file")
	}

	chained := errors.Wrap(plain, errors.ErrSourcesLoad, "loading registry")
	if got := errors.GetMessage(chained); got != "loading registry: no such file" {
		t.Errorf("GetMessage() = %q", got)
	}

	if got := errors.GetMessage(fmt.Errorf("bare")); got != "bare" {
		t.Errorf("GetMessage() = %q, want %q", got, "bare")
	}

	if errors.GetMessage(nil) != "" {
		t.Error("GetMessage(nil) should be empty")
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrConflict, "path is not a directory").
		WithDetail("path", "/tmp/x")

	if err.Details["path"] != "/tmp/x" {
		t.Errorf("WithDetail() = %v", err.Details)
	}
}
