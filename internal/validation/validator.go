package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	monthPattern    = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

	minMoney = decimal.RequireFromString("0.01")
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	// decimal.Decimal is validated through its string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("yyyymm", validateMonth)
	_ = v.RegisterValidation("username", validateUsername)
	_ = v.RegisterValidation("role_name", validateRoleName)
	_ = v.RegisterValidation("category_type", validateCategoryType)
	_ = v.RegisterValidation("report_format", validateReportFormat)
	_ = v.RegisterValidation("money", validateMoney)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates s and returns validator.ValidationErrors on failure.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// IsMonth reports whether s is a YYYY-MM month with a month between 01 and 12.
func IsMonth(s string) bool {
	return monthPattern.MatchString(s)
}

// IsMoney reports whether d is at least 0.01 with at most two decimal places.
func IsMoney(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(minMoney) && d.Equal(d.Round(2))
}

func validateMonth(fl validator.FieldLevel) bool {
	return IsMonth(fl.Field().String())
}

// validateUsername allows letters, digits and underscores only. Length is checked by min/max.
func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func validateRoleName(fl validator.FieldLevel) bool {
	return roleNamePattern.MatchString(fl.Field().String())
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateReportFormat(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "csv", "pdf", "xlsx":
		return true
	}
	return false
}

// validateMoney accepts a decimal (via its string form) or a numeric string.
func validateMoney(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return IsMoney(d)
}

// FieldErrors flattens a validation error into field -> message pairs. Only the
// first failing rule of each field is kept. The second return value is false
// when err is not a validation error.
func FieldErrors(err error) (map[string]string, bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = FormatFieldError(fe)
	}
	return fields, true
}

// FormatFieldError converts a validator.FieldError to a human-readable message
func FormatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "yyyymm":
		return "must be a month in YYYY-MM format"
	case "username":
		return "may contain only letters, digits and underscores"
	case "role_name":
		return "must be a lowercase identifier"
	case "category_type":
		return "must be one of: income expense"
	case "report_format":
		return "must be one of: csv pdf xlsx"
	case "money":
		return "must be at least 0.01 with at most 2 decimal places"
	case "dive":
		return "contains an invalid value"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
