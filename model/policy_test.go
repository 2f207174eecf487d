package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDate(t *testing.T) {
	p := LoanPolicy{Category: CategoryBook, LoanDays: 14}
	require.Equal(t, date(2024, 1, 15), p.DueDate(date(2024, 1, 1)))
}

func TestDaysLate(t *testing.T) {
	due := date(2024, 1, 10)

	require.Equal(t, 0, DaysLate(due, date(2024, 1, 10)))
	require.Equal(t, 0, DaysLate(due, date(2024, 1, 5)))
	require.Equal(t, 3, DaysLate(due, date(2024, 1, 13)))

	// A partial day counts as a full late day.
	require.Equal(t, 1, DaysLate(due, due.Add(2*time.Hour)))
	require.Equal(t, 2, DaysLate(due, due.Add(25*time.Hour)))
}

func TestLateFine(t *testing.T) {
	p := LoanPolicy{Category: CategoryBook, LoanDays: 14, DailyLateFee: 0.50}

	f := p.LateFine(date(2024, 1, 10), date(2024, 1, 13))
	require.NotNil(t, f)
	require.Equal(t, FeeLate, f.FeeType)
	require.InDelta(t, 1.50, f.Amount, 1e-9)
	require.Equal(t, "3 day(s) late", f.Notes)
}

func TestLateFine_OnTime(t *testing.T) {
	p := LoanPolicy{Category: CategoryBook, DailyLateFee: 0.50}
	require.Nil(t, p.LateFine(date(2024, 1, 10), date(2024, 1, 9)))
	require.Nil(t, p.LateFine(date(2024, 1, 10), date(2024, 1, 10)))
}

func TestLateFine_NoFeePolicy(t *testing.T) {
	p := LoanPolicy{Category: CategoryDevice, DailyLateFee: 0}
	require.Nil(t, p.LateFine(date(2024, 1, 10), date(2024, 2, 1)))
}

func TestLostFine(t *testing.T) {
	p := LoanPolicy{Category: CategoryMovie, LostFee: 25.00}
	f := p.LostFine()
	require.Equal(t, FeeLost, f.FeeType)
	require.InDelta(t, 25.00, f.Amount, 1e-9)
}

func TestSuspended(t *testing.T) {
	require.False(t, Suspended(0))
	require.False(t, Suspended(19.99))
	require.True(t, Suspended(20.00))
	require.True(t, Suspended(31.50))
}
