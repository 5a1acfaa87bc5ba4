package errors

// ErrorKind groups error codes into the categories callers branch on.
type ErrorKind string

const (
	KindValidationFailed     ErrorKind = "ValidationFailed"
	KindNotFound             ErrorKind = "NotFound"
	KindForbidden            ErrorKind = "Forbidden"
	KindUnauthorized         ErrorKind = "Unauthorized"
	KindConflict             ErrorKind = "Conflict"
	KindUnprocessableRequest ErrorKind = "UnprocessableRequest"
	KindRateLimited          ErrorKind = "RateLimited"
	KindServerError          ErrorKind = "ServerError"
)

// GetErrorKind classifies an error code. Unknown codes are server errors.
func GetErrorKind(code ErrorCode) ErrorKind {
	switch code {
	case ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat,
		ValidationOutOfRange, ValidationInvalidEmail, ValidationInvalidDate,
		RequestInvalidBody, TransactionInvalidAmount:
		return KindValidationFailed

	case AuthInvalidCredentials, AuthMissingToken, AuthExpiredToken,
		AuthInvalidTokenFormat, AuthInvalidRefreshToken:
		return KindUnauthorized

	case AuthInsufficientPermission:
		return KindForbidden

	case UserNotFound, RoleNotFound, CategoryNotFound, TransactionNotFound,
		BudgetNotFound, ReportNotFound, ReportNoTransactions, RequestNotFound:
		return KindNotFound

	case UserAlreadyExists, RoleAlreadyExists, RoleInUse, CategoryAlreadyExists,
		CategoryInUse, BudgetAlreadyExists:
		return KindConflict

	case RequestInvalidFilter, ReportFormatNotSupported:
		return KindUnprocessableRequest

	case SystemRateLimitExceeded:
		return KindRateLimited

	default:
		return KindServerError
	}
}
