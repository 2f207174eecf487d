// model/hold.go
package model

import "time"

type HoldState string

const (
	HoldActive   HoldState = "ACTIVE"
	HoldPickedUp HoldState = "PICKED_UP"
	HoldCanceled HoldState = "CANCELED"
	HoldExpired  HoldState = "EXPIRED"
	HoldReleased HoldState = "RELEASED"
)

// Hold reserves one unit of an item for pickup within a bounded window.
// At most one of PickedUpAt/CanceledAt may ever be set. ReleasedAt is set
// only by the expiry sweeper when it reclaims the reserved unit.
type Hold struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	ItemID     int64      `json:"item_id"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	PickedUpAt *time.Time `json:"picked_up_at,omitempty"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
}

// StateAt derives the hold state at a point in time. Expiry is never a
// stored transition; it is read off ExpiresAt.
func (h Hold) StateAt(now time.Time) HoldState {
	switch {
	case h.PickedUpAt != nil:
		return HoldPickedUp
	case h.CanceledAt != nil:
		return HoldCanceled
	case h.ReleasedAt != nil:
		return HoldReleased
	case now.After(h.ExpiresAt):
		return HoldExpired
	}
	return HoldActive
}

// Actionable reports whether the hold can still be picked up or canceled.
func (h Hold) Actionable(now time.Time) bool {
	return h.StateAt(now) == HoldActive
}
