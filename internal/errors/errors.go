// Package errors provides custom error types for the monedero API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// Expense errors.
var (
	ErrExpenseNotFound   = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrInvalidUtility    = &AppError{Code: "INVALID_UTILITY", Message: "Utility must be 'aligned' or 'regret'", StatusCode: http.StatusBadRequest}
	ErrResetNotConfirmed = &AppError{Code: "CONFIRMATION_REQUIRED", Message: "Resetting all utilities requires confirm=true", StatusCode: http.StatusBadRequest}
)

// Goal errors.
var (
	ErrGoalNotFound  = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
	ErrNoCurrentGoal = &AppError{Code: "NO_CURRENT_GOAL", Message: "No goals registered for this user", StatusCode: http.StatusNotFound}
	ErrNoExpenses    = &AppError{Code: "NO_EXPENSES", Message: "No expenses registered for this user", StatusCode: http.StatusNotFound}
)

// Oracle errors. The oracle is an external collaborator, so its failures
// map to 502 rather than 500: the server itself is healthy.
var (
	ErrOracleUnavailable = &AppError{Code: "ORACLE_UNAVAILABLE", Message: "The generative model could not be reached", StatusCode: http.StatusBadGateway}
	ErrOracleBadReply    = &AppError{Code: "ORACLE_BAD_REPLY", Message: "The generative model returned an unusable reply", StatusCode: http.StatusBadGateway}
)
