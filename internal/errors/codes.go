package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthExpiredToken           ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
	AuthInvalidRefreshToken    ErrorCode = "AUTH_006"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
	ValidationInvalidDate   ErrorCode = "VALIDATION_006"
)

// Request error codes (REQUEST_*) for malformed query parameters
const (
	RequestInvalidFilter ErrorCode = "REQUEST_001"
	RequestInvalidBody   ErrorCode = "REQUEST_002"
	RequestNotFound      ErrorCode = "REQUEST_003"
)

// User error codes (USER_*)
const (
	UserNotFound      ErrorCode = "USER_001"
	UserAlreadyExists ErrorCode = "USER_002"
)

// Role error codes (ROLE_*)
const (
	RoleNotFound      ErrorCode = "ROLE_001"
	RoleAlreadyExists ErrorCode = "ROLE_002"
	RoleInUse         ErrorCode = "ROLE_003"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound      ErrorCode = "CATEGORY_001"
	CategoryAlreadyExists ErrorCode = "CATEGORY_002"
	CategoryInUse         ErrorCode = "CATEGORY_003"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount ErrorCode = "TRANSACTION_002"
)

// Budget error codes (BUDGET_*)
const (
	BudgetNotFound      ErrorCode = "BUDGET_001"
	BudgetAlreadyExists ErrorCode = "BUDGET_002"
)

// Report error codes (REPORT_*)
const (
	ReportNotFound           ErrorCode = "REPORT_001"
	ReportFormatNotSupported ErrorCode = "REPORT_002"
	ReportNoTransactions     ErrorCode = "REPORT_003"
	ReportStorageFailed      ErrorCode = "REPORT_004"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_004"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	AuthInvalidCredentials:     "Invalid email or password",
	AuthMissingToken:           "Authorization token is required",
	AuthExpiredToken:           "Authorization token has expired",
	AuthInvalidTokenFormat:     "Invalid authorization token format",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",
	AuthInvalidRefreshToken:    "Refresh token is invalid or expired",

	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",
	ValidationInvalidDate:   "Invalid date format or range",

	RequestInvalidFilter: "Invalid query parameter",
	RequestInvalidBody:   "Request body could not be parsed",
	RequestNotFound:      "The requested resource does not exist",

	UserNotFound:      "User not found",
	UserAlreadyExists: "A user with this username or email already exists",

	RoleNotFound:      "Role not found",
	RoleAlreadyExists: "Role already exists",
	RoleInUse:         "Role is still assigned to users",

	CategoryNotFound:      "Category not found",
	CategoryAlreadyExists: "Category already exists",
	CategoryInUse:         "Category is referenced by transactions or budgets",

	TransactionNotFound:      "Transaction not found",
	TransactionInvalidAmount: "Invalid transaction amount",

	BudgetNotFound:      "Budget not found",
	BudgetAlreadyExists: "Budget already exists for this category and month",

	ReportNotFound:           "Report not found",
	ReportFormatNotSupported: "Only CSV format is supported for now",
	ReportNoTransactions:     "No transactions found",
	ReportStorageFailed:      "Server error: Unable to save report",

	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
