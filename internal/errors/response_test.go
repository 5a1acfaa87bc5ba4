package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ResponseTestSuite defines the test suite for error responses
type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

// SetupTest runs before each test
func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "550e8400-e29b-41d4-a716-446655440000"
}

// TestResponseTestSuite runs the test suite
func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_BasicUsage() {
	response := NewErrorResponse(AuthInvalidCredentials, s.traceID)

	s.Equal("AUTH_001", response.Error.Code)
	s.Equal("Invalid email or password", response.Error.Message)
	s.Equal(s.traceID, response.Error.TraceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_WithMultipleOptions() {
	response := NewErrorResponse(
		CategoryNotFound,
		s.traceID,
		WithMessage("Custom message"),
		WithDetails("Detail 1", "Detail 2"),
	)

	s.Equal("CATEGORY_001", response.Error.Code)
	s.Equal("Custom message", response.Error.Message)
	s.Equal([]string{"Detail 1", "Detail 2"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_WithFieldErrors() {
	fieldErrors := map[string]string{
		"username": "must be at least 3 characters long",
		"email":    "must be a valid email address",
	}

	response := NewValidationError(fieldErrors, s.traceID)

	s.Equal("VALIDATION_001", response.Error.Code)
	s.Equal(fieldErrors, response.Error.Fields)
	s.Equal([]string{
		"email: must be a valid email address",
		"username: must be at least 3 characters long",
	}, response.Error.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError_NoInternalDetailsExposed() {
	internalErr := errors.New("SQL error: relation \"users\" does not exist")

	response, originalErr := WrapSystemError(internalErr, s.traceID)

	s.Equal("SYSTEM_001", response.Error.Code)
	s.NotContains(response.Error.Message, "SQL")
	s.Equal(internalErr, originalErr)
}

func (s *ResponseTestSuite) TestToJSON_OmitsEmptyDetailsAndFields() {
	jsonBytes, err := NewErrorResponse(AuthInvalidCredentials, s.traceID).ToJSON()
	s.NoError(err)

	var jsonMap map[string]interface{}
	s.NoError(json.Unmarshal(jsonBytes, &jsonMap))

	errorMap := jsonMap["error"].(map[string]interface{})
	s.NotContains(errorMap, "details")
	s.NotContains(errorMap, "fields")
	s.Contains(errorMap, "trace_id")
}

func (s *ResponseTestSuite) TestGetHTTPStatus_AllKinds() {
	testCases := []struct {
		code           ErrorCode
		expectedStatus int
	}{
		{ValidationGeneral, http.StatusBadRequest},
		{RequestInvalidBody, http.StatusBadRequest},
		{AuthMissingToken, http.StatusUnauthorized},
		{AuthInvalidRefreshToken, http.StatusUnauthorized},
		{AuthInsufficientPermission, http.StatusForbidden},
		{TransactionNotFound, http.StatusNotFound},
		{ReportNoTransactions, http.StatusNotFound},
		{CategoryAlreadyExists, http.StatusConflict},
		{RoleInUse, http.StatusConflict},
		{RequestInvalidFilter, http.StatusUnprocessableEntity},
		{ReportFormatNotSupported, http.StatusUnprocessableEntity},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{ReportStorageFailed, http.StatusInternalServerError},
		{SystemServiceUnavailable, http.StatusServiceUnavailable},
		{"UNKNOWN_999", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expectedStatus, GetHTTPStatus(tc.code))
		})
	}
}

func (s *ResponseTestSuite) TestIsClientAndServerError() {
	s.True(NewErrorResponse(BudgetAlreadyExists, s.traceID).IsClientError())
	s.False(NewErrorResponse(BudgetAlreadyExists, s.traceID).IsServerError())
	s.True(NewErrorResponse(SystemDatabaseError, s.traceID).IsServerError())
}

func (s *ResponseTestSuite) TestString_FormatsCorrectly() {
	str := NewErrorResponse(ReportNotFound, s.traceID).String()

	s.Contains(str, "REPORT_001")
	s.Contains(str, "Report not found")
	s.Contains(str, s.traceID)
}
