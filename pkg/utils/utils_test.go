package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTruncateToDay(t *testing.T) {
	ts := time.Date(2024, 5, 15, 23, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), TruncateToDay(ts))
}

func TestTruncateToDay_NormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+7", 7*3600)
	ts := time.Date(2024, 5, 16, 2, 30, 0, 0, zone) // 2024-05-15T19:30Z
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), TruncateToDay(ts))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(from, from))
	assert.Equal(t, 10, DaysBetween(from, from.AddDate(0, 0, 10)))
	assert.Equal(t, -3, DaysBetween(from, from.AddDate(0, 0, -3)))
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2024, 5, 15, 23, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 16, 1, 0, 0, 0, time.UTC)

	// Two hours apart on the clock, but a full calendar day apart
	assert.Equal(t, 1, DaysBetween(from, to))
}

func TestAddDays(t *testing.T) {
	date := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 29, 0, 0, 0, 0, time.UTC), AddDays(date, 14))
}

func TestCalculateFineAmount(t *testing.T) {
	rate := decimal.RequireFromString("0.50")

	tests := []struct {
		name        string
		daysOverdue int
		expected    string
	}{
		{"one day", 1, "0.50"},
		{"ten days", 10, "5.00"},
		{"zero days", 0, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := CalculateFineAmount(rate, tt.daysOverdue)
			assert.True(t, amount.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, amount)
		})
	}
}

func TestDecimalFromString(t *testing.T) {
	amount, err := DecimalFromString("0.50")
	assert.NoError(t, err)
	assert.True(t, amount.Equal(decimal.New(50, -2)))

	_, err = DecimalFromString("not-a-number")
	assert.Error(t, err)
}
