package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// TruncateToDay truncates a timestamp to midnight UTC. All circulation
// policy dates are calendar days, not instants.
func TruncateToDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// AddDays adds a number of calendar days to a date
func AddDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// DaysBetween returns the number of whole calendar days from 'from' to 'to'.
// Negative when 'to' is before 'from'.
func DaysBetween(from, to time.Time) int {
	return int(TruncateToDay(to).Sub(TruncateToDay(from)).Hours() / 24)
}

// CalculateFineAmount computes an overdue fine
// Formula: ratePerDay * daysOverdue, exact decimal arithmetic
func CalculateFineAmount(ratePerDay decimal.Decimal, daysOverdue int) decimal.Decimal {
	return ratePerDay.Mul(decimal.NewFromInt(int64(daysOverdue)))
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
