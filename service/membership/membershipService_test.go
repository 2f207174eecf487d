package membershipsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"librarian/model"
	membershiprepo "librarian/repository/membership"
	membershipsvc "librarian/service/membership"
)

type repoMock struct {
	getFn      func(ctx context.Context, userID int64) (*model.Membership, error)
	signupFn   func(ctx context.Context, userID int64, fee float64) (*model.Membership, error)
	renewFn    func(ctx context.Context, userID int64, fee float64) (*model.Membership, bool, error)
	cancelFn   func(ctx context.Context, userID int64) error
	paymentsFn func(ctx context.Context, userID int64) ([]model.MembershipPayment, error)
}

func (m *repoMock) Get(ctx context.Context, userID int64) (*model.Membership, error) {
	return m.getFn(ctx, userID)
}
func (m *repoMock) Signup(ctx context.Context, userID int64, fee float64) (*model.Membership, error) {
	return m.signupFn(ctx, userID, fee)
}
func (m *repoMock) Renew(ctx context.Context, userID int64, fee float64) (*model.Membership, bool, error) {
	return m.renewFn(ctx, userID, fee)
}
func (m *repoMock) Cancel(ctx context.Context, userID int64) error {
	return m.cancelFn(ctx, userID)
}
func (m *repoMock) ListPayments(ctx context.Context, userID int64) ([]model.MembershipPayment, error) {
	return m.paymentsFn(ctx, userID)
}

func TestSignup(t *testing.T) {
	future := time.Now().UTC().AddDate(0, 1, 0)
	m := &repoMock{
		signupFn: func(ctx context.Context, userID int64, fee float64) (*model.Membership, error) {
			require.InDelta(t, 10.00, fee, 1e-9)
			return &model.Membership{UserID: userID, AutoRenew: true, ExpiresAt: future}, nil
		},
	}
	s := membershipsvc.New(m, 10.00)

	v, err := s.Signup(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, model.MembershipActive, v.Status)
	require.True(t, v.Charged)
}

func TestRenew_ExpiredCharges(t *testing.T) {
	future := time.Now().UTC().AddDate(0, 1, 0)
	m := &repoMock{
		renewFn: func(ctx context.Context, userID int64, fee float64) (*model.Membership, bool, error) {
			return &model.Membership{UserID: userID, AutoRenew: true, ExpiresAt: future}, true, nil
		},
	}
	s := membershipsvc.New(m, 10.00)

	v, err := s.Renew(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, v.Charged)
	require.Equal(t, model.MembershipActive, v.Status)
}

func TestRenew_CanceledJustFlips(t *testing.T) {
	future := time.Now().UTC().AddDate(0, 0, 10)
	m := &repoMock{
		renewFn: func(ctx context.Context, userID int64, fee float64) (*model.Membership, bool, error) {
			return &model.Membership{UserID: userID, AutoRenew: true, ExpiresAt: future}, false, nil
		},
	}
	s := membershipsvc.New(m, 10.00)

	v, err := s.Renew(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, v.Charged)
	require.Equal(t, model.MembershipActive, v.Status)
}

func TestRenew_NoRecord(t *testing.T) {
	m := &repoMock{
		renewFn: func(ctx context.Context, userID int64, fee float64) (*model.Membership, bool, error) {
			return nil, false, membershiprepo.ErrNoMembership
		},
	}
	s := membershipsvc.New(m, 10.00)

	_, err := s.Renew(context.Background(), 42)
	require.Equal(t, membershipsvc.ErrNoMembership, membershipsvc.Code(err))
}

func TestCancel(t *testing.T) {
	future := time.Now().UTC().AddDate(0, 0, 20)
	m := &repoMock{
		cancelFn: func(ctx context.Context, userID int64) error { return nil },
		getFn: func(ctx context.Context, userID int64) (*model.Membership, error) {
			return &model.Membership{UserID: userID, AutoRenew: false, ExpiresAt: future}, nil
		},
	}
	s := membershipsvc.New(m, 10.00)

	v, err := s.Cancel(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, model.MembershipCanceled, v.Status)
	require.False(t, v.AutoRenew)
}

func TestGet_NoRecordIsNew(t *testing.T) {
	m := &repoMock{
		getFn: func(ctx context.Context, userID int64) (*model.Membership, error) { return nil, nil },
	}
	s := membershipsvc.New(m, 10.00)

	v, err := s.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, model.MembershipNew, v.Status)
	require.Nil(t, v.ExpiresAt)
}
