package services

import (
	"errors"
	"sort"
	"strings"

	"budgetron/internal/repositories"
)

// Not found and conflict errors are shared with the repository layer so that
// handlers only need to match on the services package.
var (
	ErrUserNotFound          = repositories.ErrUserNotFound
	ErrUserAlreadyExists     = repositories.ErrUserAlreadyExists
	ErrRoleNotFound          = repositories.ErrRoleNotFound
	ErrRoleAlreadyExists     = repositories.ErrRoleAlreadyExists
	ErrRoleInUse             = repositories.ErrRoleInUse
	ErrCategoryNotFound      = repositories.ErrCategoryNotFound
	ErrCategoryAlreadyExists = repositories.ErrCategoryAlreadyExists
	ErrCategoryInUse         = repositories.ErrCategoryInUse
	ErrTransactionNotFound   = repositories.ErrTransactionNotFound
	ErrBudgetNotFound        = repositories.ErrBudgetNotFound
	ErrBudgetAlreadyExists   = repositories.ErrBudgetAlreadyExists
	ErrReportNotFound        = repositories.ErrReportNotFound
)

var (
	ErrForbidden           = errors.New("operation not permitted")
	ErrRoleProtected       = errors.New("built-in roles cannot be renamed or deleted")
	ErrReportFormat        = errors.New("report format not supported")
	ErrNoTransactions      = errors.New("no transactions found for the requested month")
	ErrReportStorageFailed = errors.New("failed to store report artifact")
)

// ValidationError carries field level messages from cross-record checks
// (uniqueness, existence). Handlers render it like a request validation error.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ConflictError reports a uniqueness violation on one field. It unwraps to
// the resource's AlreadyExists sentinel.
type ConflictError struct {
	Err     error
	Field   string
	Message string
}

func conflict(err error, field, message string) error {
	return &ConflictError{Err: err, Field: field, Message: message}
}

func (e *ConflictError) Error() string {
	return e.Err.Error() + ": " + e.Field + " " + e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
