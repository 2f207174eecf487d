// model/fine.go
package model

import "time"

type FeeType string

const (
	FeeLate    FeeType = "LATE"
	FeeLost    FeeType = "LOST"
	FeeDamaged FeeType = "DAMAGED"
)

// SuspensionThreshold is the outstanding-fine total at which a patron is
// reported suspended. Advisory: the presentation layer decides what to
// block.
const SuspensionThreshold = 20.00

// Fine is a charge tied to a borrow. DatePaid and WaivedAt are mutually
// exclusive and each settable once.
type Fine struct {
	ID           int64      `json:"id"`
	BorrowID     int64      `json:"borrow_id"`
	UserID       int64      `json:"user_id"`
	FeeType      FeeType    `json:"fee_type"`
	Amount       float64    `json:"amount"`
	DateIssued   time.Time  `json:"date_issued"`
	DatePaid     *time.Time `json:"date_paid,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	WaivedAt     *time.Time `json:"waived_at,omitempty"`
	WaivedReason string     `json:"waived_reason,omitempty"`
}

func (f Fine) Settled() bool { return f.DatePaid != nil || f.WaivedAt != nil }

func Suspended(outstanding float64) bool { return outstanding >= SuspensionThreshold }
