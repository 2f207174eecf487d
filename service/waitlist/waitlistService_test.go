package waitlistsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"librarian/model"
	waitlistrepo "librarian/repository/waitlist"
	waitlistsvc "librarian/service/waitlist"
)

type repoMock struct {
	placeFn  func(ctx context.Context, itemID, userID int64) (*model.WaitlistEntry, error)
	cancelFn func(ctx context.Context, entryID, userID int64, staff bool) error
	byUserFn func(ctx context.Context, userID int64) ([]model.WaitlistEntry, error)
	byItemFn func(ctx context.Context, itemID int64) ([]model.WaitlistEntry, error)
}

func (m *repoMock) Place(ctx context.Context, itemID, userID int64) (*model.WaitlistEntry, error) {
	return m.placeFn(ctx, itemID, userID)
}
func (m *repoMock) Cancel(ctx context.Context, entryID, userID int64, staff bool) error {
	return m.cancelFn(ctx, entryID, userID, staff)
}
func (m *repoMock) ListByUser(ctx context.Context, userID int64) ([]model.WaitlistEntry, error) {
	return m.byUserFn(ctx, userID)
}
func (m *repoMock) ListByItem(ctx context.Context, itemID int64) ([]model.WaitlistEntry, error) {
	return m.byItemFn(ctx, itemID)
}

func TestPlace_Success(t *testing.T) {
	m := &repoMock{
		placeFn: func(ctx context.Context, itemID, userID int64) (*model.WaitlistEntry, error) {
			return &model.WaitlistEntry{ID: 77, ItemID: itemID, UserID: userID, StartDate: time.Now().UTC()}, nil
		},
	}
	s := waitlistsvc.New(m)

	e, err := s.Place(context.Background(), 7, 42)
	require.NoError(t, err)
	require.Equal(t, int64(77), e.ID)
}

func TestPlace_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		repo error
		want waitlistsvc.ErrCode
	}{
		{"item missing", waitlistrepo.ErrItemNotFound, waitlistsvc.ErrItemNotFound},
		{"item in stock", waitlistrepo.ErrItemAvailable, waitlistsvc.ErrItemAvailable},
		{"duplicate entry", waitlistrepo.ErrAlreadyWaitlisted, waitlistsvc.ErrAlreadyWaitlisted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &repoMock{
				placeFn: func(ctx context.Context, itemID, userID int64) (*model.WaitlistEntry, error) {
					return nil, tt.repo
				},
			}
			s := waitlistsvc.New(m)
			_, err := s.Place(context.Background(), 7, 42)
			require.Equal(t, tt.want, waitlistsvc.Code(err))
		})
	}
}

func TestCancel(t *testing.T) {
	m := &repoMock{
		cancelFn: func(ctx context.Context, entryID, userID int64, staff bool) error { return nil },
	}
	s := waitlistsvc.New(m)
	require.NoError(t, s.Cancel(context.Background(), 77, 42, false))

	m.cancelFn = func(ctx context.Context, entryID, userID int64, staff bool) error {
		return waitlistrepo.ErrEntryNotFound
	}
	err := s.Cancel(context.Background(), 77, 42, false)
	require.Equal(t, waitlistsvc.ErrEntryNotFound, waitlistsvc.Code(err))
}
