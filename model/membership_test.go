package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMembershipStatusAt(t *testing.T) {
	now := time.Now().UTC()
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, -1, 0)

	var none *Membership
	require.Equal(t, MembershipNew, none.StatusAt(now))

	active := &Membership{AutoRenew: true, ExpiresAt: future}
	require.Equal(t, MembershipActive, active.StatusAt(now))

	canceled := &Membership{AutoRenew: false, ExpiresAt: future}
	require.Equal(t, MembershipCanceled, canceled.StatusAt(now))

	// Expired wins regardless of auto_renew.
	require.Equal(t, MembershipExpired, (&Membership{AutoRenew: true, ExpiresAt: past}).StatusAt(now))
	require.Equal(t, MembershipExpired, (&Membership{AutoRenew: false, ExpiresAt: past}).StatusAt(now))
}

func TestRenewNeedsCharge(t *testing.T) {
	now := time.Now().UTC()

	var none *Membership
	require.True(t, none.RenewNeedsCharge(now))

	expired := &Membership{ExpiresAt: now.AddDate(0, 0, -1)}
	require.True(t, expired.RenewNeedsCharge(now))

	// Canceled but still inside the window: no charge, just flip auto_renew.
	canceled := &Membership{AutoRenew: false, ExpiresAt: now.AddDate(0, 0, 10)}
	require.False(t, canceled.RenewNeedsCharge(now))
}
