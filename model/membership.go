// model/membership.go
package model

import "time"

type MembershipStatus string

const (
	MembershipNew      MembershipStatus = "new"
	MembershipActive   MembershipStatus = "active"
	MembershipCanceled MembershipStatus = "canceled"
	MembershipExpired  MembershipStatus = "expired"
)

// Membership tracks a patron's paid window. Status is always derived,
// never stored.
type Membership struct {
	UserID    int64     `json:"user_id"`
	AutoRenew bool      `json:"auto_renew"`
	ExpiresAt time.Time `json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusAt derives the membership status. A nil membership is "new".
func (m *Membership) StatusAt(now time.Time) MembershipStatus {
	if m == nil {
		return MembershipNew
	}
	if now.After(m.ExpiresAt) {
		return MembershipExpired
	}
	if m.AutoRenew {
		return MembershipActive
	}
	return MembershipCanceled
}

// RenewNeedsCharge reports whether a renew must re-charge the fee: only
// when the window has lapsed. A merely-canceled membership just flips
// auto_renew back on.
func (m *Membership) RenewNeedsCharge(now time.Time) bool {
	return m == nil || now.After(m.ExpiresAt)
}

type MembershipPayment struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"user_id"`
	Amount float64   `json:"amount"`
	PaidAt time.Time `json:"paid_at"`
}
