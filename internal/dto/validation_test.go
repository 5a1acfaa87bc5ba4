package dto

import (
	"testing"

	"budgetron/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, req interface{}) map[string]string {
	t.Helper()
	fields, ok := validation.FieldErrors(validation.GetValidator().Struct(req))
	require.True(t, ok, "expected validation errors")
	return fields
}

func TestCreateTransactionRequest_Rules(t *testing.T) {
	valid := func() CreateTransactionRequest {
		return CreateTransactionRequest{
			CategoryID:  uuid.New(),
			Amount:      decimal.RequireFromString("12.50"),
			Description: "weekly groceries",
		}
	}
	req := valid()
	require.NoError(t, validation.GetValidator().Struct(req))

	tests := []struct {
		name   string
		mutate func(r *CreateTransactionRequest)
		field  string
	}{
		{"zero amount", func(r *CreateTransactionRequest) { r.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(r *CreateTransactionRequest) { r.Amount = decimal.RequireFromString("-3") }, "amount"},
		{"three decimals", func(r *CreateTransactionRequest) { r.Amount = decimal.RequireFromString("0.015") }, "amount"},
		{"short description", func(r *CreateTransactionRequest) { r.Description = "food" }, "description"},
		{"missing category", func(r *CreateTransactionRequest) { r.CategoryID = uuid.Nil }, "category_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			fields := fieldErrors(t, req)
			assert.Len(t, fields, 1)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestCreateTransactionRequest_BlankDescriptionAfterNormalize(t *testing.T) {
	req := CreateTransactionRequest{
		CategoryID:  uuid.New(),
		Amount:      decimal.RequireFromString("1.00"),
		Description: "      ",
	}
	req.Normalize()

	assert.Equal(t, "is required", fieldErrors(t, req)["description"])
}

func TestUpdateTransactionRequest_NilFieldsSkipRules(t *testing.T) {
	assert.NoError(t, validation.GetValidator().Struct(UpdateTransactionRequest{}))

	blank := "   "
	req := UpdateTransactionRequest{Description: &blank}
	req.Normalize()
	assert.Contains(t, fieldErrors(t, req), "description")
}

func TestRegisterRequest_Rules(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{Username: "jane_doe", Email: "jane@example.com", Password: "correct-horse"}
	}
	req := valid()
	require.NoError(t, validation.GetValidator().Struct(req))

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		field   string
		message string
	}{
		{"two letter username", func(r *RegisterRequest) { r.Username = "ab" }, "username", "must be at least 3 characters long"},
		{"username with dash", func(r *RegisterRequest) { r.Username = "jane-doe" }, "username", "may contain only letters, digits and underscores"},
		{"bad email", func(r *RegisterRequest) { r.Email = "jane" }, "email", "must be a valid email address"},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, "password", "must be at least 8 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			fields := fieldErrors(t, req)
			assert.Len(t, fields, 1)
			assert.Equal(t, tt.message, fields[tt.field])
		})
	}
}

func TestCreateCategoryRequest_ShortNameAfterNormalize(t *testing.T) {
	req := CreateCategoryRequest{Name: "  a  ", Type: "expense"}
	req.Normalize()

	assert.Contains(t, fieldErrors(t, req), "name")
}
