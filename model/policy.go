// model/policy.go
package model

import (
	"fmt"
	"math"
	"time"
)

// LoanPolicy is per-category reference data; never mutated here.
type LoanPolicy struct {
	Category      Category `json:"category"`
	LoanDays      int      `json:"loan_days"`
	DailyLateFee  float64  `json:"daily_late_fee"`
	LostAfterDays int      `json:"lost_after_days"`
	LostFee       float64  `json:"lost_fee"`
}

// DueDate computes the due date for a borrow started at borrowDate.
func (p LoanPolicy) DueDate(borrowDate time.Time) time.Time {
	return borrowDate.AddDate(0, 0, p.LoanDays)
}

// DaysLate counts whole late days, rounding any partial day up. Zero when
// returned on or before the due date.
func DaysLate(dueDate, returnedAt time.Time) int {
	if !returnedAt.After(dueDate) {
		return 0
	}
	return int(math.Ceil(returnedAt.Sub(dueDate).Hours() / 24))
}

// LateFine computes the fine for a late return, or nil when the return is
// on time or the policy charges no late fee.
func (p LoanPolicy) LateFine(dueDate, returnedAt time.Time) *FineSpec {
	days := DaysLate(dueDate, returnedAt)
	if days == 0 || p.DailyLateFee <= 0 {
		return nil
	}
	return &FineSpec{
		FeeType: FeeLate,
		Amount:  float64(days) * p.DailyLateFee,
		Notes:   fmt.Sprintf("%d day(s) late", days),
	}
}

// LostFine is the flat charge for a lost unit.
func (p LoanPolicy) LostFine() FineSpec {
	return FineSpec{FeeType: FeeLost, Amount: p.LostFee, Notes: "item reported lost"}
}

// FineSpec is a fine about to be issued, before it gets a row.
type FineSpec struct {
	FeeType FeeType
	Amount  float64
	Notes   string
}
