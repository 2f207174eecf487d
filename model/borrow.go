// model/borrow.go
package model

import "time"

type BorrowStatus string

const (
	BorrowLoanedOut BorrowStatus = "LOANED_OUT"
	BorrowReturned  BorrowStatus = "RETURNED"
	BorrowLost      BorrowStatus = "LOST"
)

// Borrow is created when a hold is picked up and stays around as loan
// history after return or loss.
type Borrow struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	ItemID     int64        `json:"item_id"`
	HoldID     int64        `json:"hold_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
}

func (b Borrow) Overdue(now time.Time) bool {
	return b.Status == BorrowLoanedOut && now.After(b.DueDate)
}

// LoanRow is the read shape for loan listings: borrow joined with its
// item, title coalesced across the category child tables.
type LoanRow struct {
	BorrowID   int64        `json:"borrow_id"`
	ItemID     int64        `json:"item_id"`
	Category   Category     `json:"category"`
	Title      string       `json:"title"`
	UserID     int64        `json:"user_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
}
