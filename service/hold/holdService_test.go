package holdsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"librarian/model"
	holdrepo "librarian/repository/hold"
	holdsvc "librarian/service/hold"
)

type repoMock struct {
	requestFn func(ctx context.Context, itemID, userID int64, window time.Duration) (*model.Hold, error)
	pickupFn  func(ctx context.Context, holdID int64) (*model.Borrow, error)
	cancelFn  func(ctx context.Context, holdID, userID int64, staff bool) error
	releaseFn func(ctx context.Context, now time.Time) (int64, error)
	listFn    func(ctx context.Context, userID int64) ([]model.Hold, error)
}

func (m *repoMock) RequestPickup(ctx context.Context, itemID, userID int64, window time.Duration) (*model.Hold, error) {
	return m.requestFn(ctx, itemID, userID, window)
}
func (m *repoMock) Pickup(ctx context.Context, holdID int64) (*model.Borrow, error) {
	return m.pickupFn(ctx, holdID)
}
func (m *repoMock) Cancel(ctx context.Context, holdID, userID int64, staff bool) error {
	return m.cancelFn(ctx, holdID, userID, staff)
}
func (m *repoMock) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	return m.releaseFn(ctx, now)
}
func (m *repoMock) ListByUser(ctx context.Context, userID int64) ([]model.Hold, error) {
	return m.listFn(ctx, userID)
}

func TestRequestPickup_Success(t *testing.T) {
	window := 72 * time.Hour
	expires := time.Now().UTC().Add(window)
	m := &repoMock{
		requestFn: func(ctx context.Context, itemID, userID int64, w time.Duration) (*model.Hold, error) {
			require.Equal(t, int64(7), itemID)
			require.Equal(t, int64(42), userID)
			require.Equal(t, window, w)
			return &model.Hold{ID: 101, ItemID: itemID, UserID: userID, ExpiresAt: expires}, nil
		},
	}
	s := holdsvc.New(m, window)

	out, err := s.RequestPickup(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Equal(t, int64(101), out.HoldID)
	require.Equal(t, expires, out.ExpiresAt)
}

func TestRequestPickup_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		repo error
		want holdsvc.ErrCode
	}{
		{"item missing", holdrepo.ErrItemNotFound, holdsvc.ErrItemNotFound},
		{"no stock", holdrepo.ErrItemUnavailable, holdsvc.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &repoMock{
				requestFn: func(ctx context.Context, itemID, userID int64, w time.Duration) (*model.Hold, error) {
					return nil, tt.repo
				},
			}
			s := holdsvc.New(m, time.Hour)
			_, err := s.RequestPickup(context.Background(), 1, 1)
			require.Error(t, err)
			require.Equal(t, tt.want, holdsvc.Code(err))
		})
	}
}

func TestPickup_Success(t *testing.T) {
	due := time.Now().UTC().AddDate(0, 0, 14)
	m := &repoMock{
		pickupFn: func(ctx context.Context, holdID int64) (*model.Borrow, error) {
			require.Equal(t, int64(101), holdID)
			return &model.Borrow{ID: 55, DueDate: due, Status: model.BorrowLoanedOut}, nil
		},
	}
	s := holdsvc.New(m, time.Hour)

	out, err := s.Pickup(context.Background(), 101, 9)
	require.NoError(t, err)
	require.Equal(t, int64(55), out.BorrowID)
	require.Equal(t, due, out.DueDate)
}

func TestPickup_NotActionable(t *testing.T) {
	m := &repoMock{
		pickupFn: func(ctx context.Context, holdID int64) (*model.Borrow, error) {
			return nil, holdrepo.ErrHoldNotActionable
		},
	}
	s := holdsvc.New(m, time.Hour)

	_, err := s.Pickup(context.Background(), 101, 9)
	require.Equal(t, holdsvc.ErrNotActionable, holdsvc.Code(err))
}

func TestCancel(t *testing.T) {
	var gotStaff bool
	m := &repoMock{
		cancelFn: func(ctx context.Context, holdID, userID int64, staff bool) error {
			gotStaff = staff
			return nil
		},
	}
	s := holdsvc.New(m, time.Hour)
	require.NoError(t, s.Cancel(context.Background(), 101, 42, true))
	require.True(t, gotStaff)

	m.cancelFn = func(ctx context.Context, holdID, userID int64, staff bool) error {
		return holdrepo.ErrNotOwner
	}
	err := s.Cancel(context.Background(), 101, 42, false)
	require.Equal(t, holdsvc.ErrNotOwner, holdsvc.Code(err))
}

func TestMyHolds_DerivesState(t *testing.T) {
	now := time.Now().UTC()
	m := &repoMock{
		listFn: func(ctx context.Context, userID int64) ([]model.Hold, error) {
			return []model.Hold{
				{ID: 1, ExpiresAt: now.Add(time.Hour)},
				{ID: 2, ExpiresAt: now.Add(-time.Hour)},
			}, nil
		},
	}
	s := holdsvc.New(m, time.Hour)

	out, err := s.MyHolds(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, model.HoldActive, out[0].State)
	require.Equal(t, model.HoldExpired, out[1].State)
}

func TestSweeper(t *testing.T) {
	m := &repoMock{
		releaseFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 3, nil
		},
	}
	sw := holdsvc.NewSweeper(m)

	n, err := sw.ReleaseExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}
