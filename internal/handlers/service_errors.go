package handlers

import (
	stderrors "errors"

	"budgetron/internal/errors"
	"budgetron/internal/services"

	"github.com/labstack/echo/v4"
)

var sentinelCodes = []struct {
	err  error
	code errors.ErrorCode
}{
	{services.ErrUserNotFound, errors.UserNotFound},
	{services.ErrUserAlreadyExists, errors.UserAlreadyExists},
	{services.ErrRoleNotFound, errors.RoleNotFound},
	{services.ErrRoleAlreadyExists, errors.RoleAlreadyExists},
	{services.ErrRoleInUse, errors.RoleInUse},
	{services.ErrCategoryNotFound, errors.CategoryNotFound},
	{services.ErrCategoryAlreadyExists, errors.CategoryAlreadyExists},
	{services.ErrCategoryInUse, errors.CategoryInUse},
	{services.ErrTransactionNotFound, errors.TransactionNotFound},
	{services.ErrBudgetNotFound, errors.BudgetNotFound},
	{services.ErrBudgetAlreadyExists, errors.BudgetAlreadyExists},
	{services.ErrReportNotFound, errors.ReportNotFound},
	{services.ErrReportFormat, errors.ReportFormatNotSupported},
	{services.ErrNoTransactions, errors.ReportNoTransactions},
	{services.ErrReportStorageFailed, errors.ReportStorageFailed},
	{services.ErrForbidden, errors.AuthInsufficientPermission},
	{services.ErrInvalidCredentials, errors.AuthInvalidCredentials},
	{services.ErrInvalidRefreshToken, errors.AuthInvalidRefreshToken},
	{services.ErrExpiredToken, errors.AuthExpiredToken},
	{services.ErrTokenRevoked, errors.AuthInvalidTokenFormat},
	{services.ErrInvalidToken, errors.AuthInvalidTokenFormat},
	{services.ErrInvalidTokenType, errors.AuthInvalidTokenFormat},
	{services.ErrInvalidIssuer, errors.AuthInvalidTokenFormat},
}

// handleServiceError renders an error returned by the services package.
func handleServiceError(c echo.Context, err error) error {
	if ve, ok := services.AsValidationError(err); ok {
		return SendError(c, errors.ValidationGeneral, errors.WithFields(ve.Fields))
	}

	var conflictErr *services.ConflictError
	if stderrors.As(err, &conflictErr) {
		code := codeFor(conflictErr.Err)
		if code == "" {
			code = errors.ValidationGeneral
		}
		return SendError(c, code, errors.WithFields(map[string]string{conflictErr.Field: conflictErr.Message}))
	}

	if stderrors.Is(err, services.ErrRoleProtected) {
		return SendError(c, errors.RoleInUse, errors.WithMessage("Built-in roles cannot be renamed or deleted"))
	}

	if code := codeFor(err); code != "" {
		return SendError(c, code)
	}
	return SendSystemError(c, err)
}

func codeFor(err error) errors.ErrorCode {
	for _, sc := range sentinelCodes {
		if stderrors.Is(err, sc.err) {
			return sc.code
		}
	}
	return ""
}
