package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudget_DerivedFields(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		spent     string
		remaining string
		overspent bool
	}{
		{"nothing spent", "500.00", "0", "500", false},
		{"partially spent", "500.00", "120.50", "379.5", false},
		{"exactly spent", "500.00", "500.00", "0", false},
		{"overspent", "500.00", "612.25", "-112.25", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Budget{
				Amount: decimal.RequireFromString(tt.amount),
				Spent:  decimal.RequireFromString(tt.spent),
			}
			assert.True(t, decimal.RequireFromString(tt.remaining).Equal(b.Remaining()), "remaining was %s", b.Remaining())
			assert.Equal(t, tt.overspent, b.Overspent())
		})
	}
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange("2024-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err = MonthRange("2024-13")
	assert.Error(t, err)
}

func TestIsSupportedReportFormat(t *testing.T) {
	assert.True(t, IsSupportedReportFormat(ReportFormatCSV))
	assert.False(t, IsSupportedReportFormat(ReportFormatPDF))
	assert.False(t, IsSupportedReportFormat(ReportFormatXLSX))
}
