package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "fincheck/internal/errors"
)

// AssertAppError fails unless err wraps an *AppError carrying expectedCode.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("expected error %s, got nil", expectedCode)
	case !errors.As(err, &appErr):
		t.Fatalf("expected an app error %s, got %T: %v", expectedCode, err, err)
	case appErr.Code != expectedCode:
		t.Errorf("expected error %s, got %s (%s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError stops the test on any error.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal compares a money amount with its decimal string form, so
// "12.5" matches 12.50.
func AssertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", label, want, got)
	}
}
