// Package errors defines the AppError type returned by every service and
// rendered by the handlers as {"error":{"code","message"}}.
package errors

import "net/http"

// AppError is a client-facing error. Internal carries the underlying cause
// for logging and is never serialized.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError with the same code, so a sentinel still matches
// after Wrap or WithMessage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap attaches an internal cause to a copy of sentinel.
func Wrap(sentinel *AppError, internal error) *AppError {
	wrapped := *sentinel
	wrapped.Internal = internal
	return &wrapped
}

// WithMessage returns a copy of sentinel with a custom client message.
func WithMessage(sentinel *AppError, message string) *AppError {
	copied := *sentinel
	copied.Message = message
	return &copied
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound    = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail  = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrOAuthFailed     = &AppError{Code: "OAUTH_FAILED", Message: "Could not sign in with the external provider", StatusCode: http.StatusUnauthorized}
	ErrOAuthDisabled   = &AppError{Code: "OAUTH_NOT_CONFIGURED", Message: "External sign-in is not configured", StatusCode: http.StatusServiceUnavailable}
	ErrPremiumRequired = &AppError{Code: "PREMIUM_REQUIRED", Message: "This feature requires a premium subscription", StatusCode: http.StatusForbidden}
)

// Category errors.
var (
	ErrCategoryNotFound      = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategoryName = &AppError{Code: "DUPLICATE_CATEGORY_NAME", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
	ErrAlreadyOverridden     = &AppError{Code: "ALREADY_OVERRIDDEN", Message: "This default category is already customized", StatusCode: http.StatusConflict}
	ErrNotAnOverride         = &AppError{Code: "NOT_AN_OVERRIDE", Message: "Category does not override a default category", StatusCode: http.StatusBadRequest}
)

// Monthly finance errors.
var (
	ErrFinanceNotFound     = &AppError{Code: "FINANCE_NOT_FOUND", Message: "No finances found for this month", StatusCode: http.StatusNotFound}
	ErrBudgetItemNotFound  = &AppError{Code: "BUDGET_ITEM_NOT_FOUND", Message: "Budget item not found", StatusCode: http.StatusNotFound}
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrEmptyBudget         = &AppError{Code: "INVALID_INPUT", Message: "A monthly budget must contain at least one item", StatusCode: http.StatusBadRequest}
	ErrInvalidPeriod       = &AppError{Code: "INVALID_INPUT", Message: `Only "month" or "year" periodType is supported`, StatusCode: http.StatusBadRequest}
)

// Export errors.
var (
	ErrNoReportData     = &AppError{Code: "NO_REPORT_DATA", Message: "No data found for the selected period", StatusCode: http.StatusNotFound}
	ErrExportNotEnabled = &AppError{Code: "EXPORT_NOT_CONFIGURED", Message: "This export format is not configured", StatusCode: http.StatusServiceUnavailable}
)

// Payment errors.
var (
	ErrCheckoutNotEnabled = &AppError{Code: "CHECKOUT_NOT_CONFIGURED", Message: "Checkout is not configured", StatusCode: http.StatusServiceUnavailable}
	ErrUnknownEvent       = &AppError{Code: "UNKNOWN_EVENT", Message: "Unsupported webhook event", StatusCode: http.StatusBadRequest}
)
