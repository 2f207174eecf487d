// model/waitlist.go
package model

import "time"

// WaitlistEntry is a non-reserving queue position: no counter effect, at
// most one entry per (user, item).
type WaitlistEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	StartDate time.Time `json:"start_date"`
}
