package finesvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"librarian/model"
	finerepo "librarian/repository/fine"
	finesvc "librarian/service/fine"
)

type repoMock struct {
	payFn         func(ctx context.Context, fineID int64) error
	waiveFn       func(ctx context.Context, fineID int64, reason string) error
	issueFn       func(ctx context.Context, borrowID int64, feeType model.FeeType, amount float64, notes string) (*model.Fine, error)
	listFn        func(ctx context.Context, userID int64) ([]model.Fine, error)
	outstandingFn func(ctx context.Context, userID int64) (float64, error)
}

func (m *repoMock) Pay(ctx context.Context, fineID int64) error { return m.payFn(ctx, fineID) }
func (m *repoMock) Waive(ctx context.Context, fineID int64, reason string) error {
	return m.waiveFn(ctx, fineID, reason)
}
func (m *repoMock) Issue(ctx context.Context, borrowID int64, feeType model.FeeType, amount float64, notes string) (*model.Fine, error) {
	return m.issueFn(ctx, borrowID, feeType, amount, notes)
}
func (m *repoMock) ListByUser(ctx context.Context, userID int64) ([]model.Fine, error) {
	return m.listFn(ctx, userID)
}
func (m *repoMock) OutstandingTotal(ctx context.Context, userID int64) (float64, error) {
	return m.outstandingFn(ctx, userID)
}

func TestPay_OnceThenFails(t *testing.T) {
	paid := false
	m := &repoMock{
		payFn: func(ctx context.Context, fineID int64) error {
			if paid {
				return finerepo.ErrNotPayable
			}
			paid = true
			return nil
		},
	}
	s := finesvc.New(m)

	require.NoError(t, s.Pay(context.Background(), 9, 3))

	err := s.Pay(context.Background(), 9, 3)
	require.Error(t, err)
	require.Equal(t, finesvc.ErrAlreadyPaid, finesvc.Code(err))
}

func TestWaive_RequiresReason(t *testing.T) {
	m := &repoMock{
		waiveFn: func(ctx context.Context, fineID int64, reason string) error {
			t.Fatal("repo must not be reached without a reason")
			return nil
		},
	}
	s := finesvc.New(m)

	for _, reason := range []string{"", "   "} {
		err := s.Waive(context.Background(), 9, reason, 3)
		require.Equal(t, finesvc.ErrMissingReason, finesvc.Code(err))
	}
}

func TestWaive_Settled(t *testing.T) {
	m := &repoMock{
		waiveFn: func(ctx context.Context, fineID int64, reason string) error {
			return finerepo.ErrNotWaivable
		},
	}
	s := finesvc.New(m)

	err := s.Waive(context.Background(), 9, "damaged on arrival", 3)
	require.Equal(t, finesvc.ErrAlreadySettled, finesvc.Code(err))
}

func TestIssue_Validation(t *testing.T) {
	s := finesvc.New(&repoMock{})
	for _, amount := range []float64{0, -5} {
		_, err := s.Issue(context.Background(), 55, model.FeeDamaged, amount, "", 3)
		require.Equal(t, finesvc.ErrBadAmount, finesvc.Code(err))
	}
}

func TestIssue_Success(t *testing.T) {
	m := &repoMock{
		issueFn: func(ctx context.Context, borrowID int64, feeType model.FeeType, amount float64, notes string) (*model.Fine, error) {
			require.Equal(t, model.FeeDamaged, feeType)
			return &model.Fine{ID: 12, BorrowID: borrowID, FeeType: feeType, Amount: amount}, nil
		},
	}
	s := finesvc.New(m)

	f, err := s.Issue(context.Background(), 55, model.FeeDamaged, 7.25, "torn cover", 3)
	require.NoError(t, err)
	require.Equal(t, int64(12), f.ID)
}

func TestIssue_BorrowMissing(t *testing.T) {
	m := &repoMock{
		issueFn: func(ctx context.Context, borrowID int64, feeType model.FeeType, amount float64, notes string) (*model.Fine, error) {
			return nil, finerepo.ErrBorrowNotFound
		},
	}
	s := finesvc.New(m)

	_, err := s.Issue(context.Background(), 55, model.FeeDamaged, 7.25, "", 3)
	require.Equal(t, finesvc.ErrBorrowNotFound, finesvc.Code(err))
}

func TestStanding(t *testing.T) {
	total := 0.0
	m := &repoMock{
		outstandingFn: func(ctx context.Context, userID int64) (float64, error) { return total, nil },
	}
	s := finesvc.New(m)

	st, err := s.Standing(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, st.Suspended)

	total = 21.50
	st, err = s.Standing(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, st.Suspended)
	require.InDelta(t, 21.50, st.Outstanding, 1e-9)
}
