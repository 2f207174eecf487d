package loansvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"librarian/model"
	loanrepo "librarian/repository/loan"
	loansvc "librarian/service/loan"
)

type repoMock struct {
	returnFn  func(ctx context.Context, borrowID int64) (*loanrepo.Result, error)
	lostFn    func(ctx context.Context, borrowID int64) (*loanrepo.Result, error)
	activeFn  func(ctx context.Context, userID int64) ([]model.LoanRow, error)
	historyFn func(ctx context.Context, userID int64) ([]model.LoanRow, error)
	listFn    func(ctx context.Context, f loanrepo.Filter) ([]model.LoanRow, error)
}

func (m *repoMock) Return(ctx context.Context, borrowID int64) (*loanrepo.Result, error) {
	return m.returnFn(ctx, borrowID)
}
func (m *repoMock) MarkLost(ctx context.Context, borrowID int64) (*loanrepo.Result, error) {
	return m.lostFn(ctx, borrowID)
}
func (m *repoMock) ListActiveByUser(ctx context.Context, userID int64) ([]model.LoanRow, error) {
	return m.activeFn(ctx, userID)
}
func (m *repoMock) HistoryByUser(ctx context.Context, userID int64) ([]model.LoanRow, error) {
	return m.historyFn(ctx, userID)
}
func (m *repoMock) List(ctx context.Context, f loanrepo.Filter) ([]model.LoanRow, error) {
	return m.listFn(ctx, f)
}

func TestReturn_WithLateFine(t *testing.T) {
	returned := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)
	m := &repoMock{
		returnFn: func(ctx context.Context, borrowID int64) (*loanrepo.Result, error) {
			require.Equal(t, int64(55), borrowID)
			return &loanrepo.Result{
				Borrow: model.Borrow{ID: 55, Status: model.BorrowReturned, ReturnDate: &returned},
				Fine:   &model.Fine{ID: 9, FeeType: model.FeeLate, Amount: 1.50, Notes: "3 day(s) late"},
			}, nil
		},
	}
	s := loansvc.New(m)

	out, err := s.Return(context.Background(), 55, 3)
	require.NoError(t, err)
	require.Equal(t, int64(55), out.BorrowID)
	require.Equal(t, returned, out.ReturnDate)
	require.NotNil(t, out.Fine)
	require.Equal(t, model.FeeLate, out.Fine.FeeType)
	require.InDelta(t, 1.50, out.Fine.Amount, 1e-9)
}

func TestReturn_OnTimeNoFine(t *testing.T) {
	returned := time.Now().UTC()
	m := &repoMock{
		returnFn: func(ctx context.Context, borrowID int64) (*loanrepo.Result, error) {
			return &loanrepo.Result{
				Borrow: model.Borrow{ID: 56, Status: model.BorrowReturned, ReturnDate: &returned},
			}, nil
		},
	}
	s := loansvc.New(m)

	out, err := s.Return(context.Background(), 56, 3)
	require.NoError(t, err)
	require.Nil(t, out.Fine)
}

func TestReturn_NotActive(t *testing.T) {
	m := &repoMock{
		returnFn: func(ctx context.Context, borrowID int64) (*loanrepo.Result, error) {
			return nil, loanrepo.ErrActiveLoanNotFound
		},
	}
	s := loansvc.New(m)

	_, err := s.Return(context.Background(), 55, 3)
	require.Equal(t, loansvc.ErrActiveLoanNotFound, loansvc.Code(err))
}

func TestMarkLost(t *testing.T) {
	m := &repoMock{
		lostFn: func(ctx context.Context, borrowID int64) (*loanrepo.Result, error) {
			return &loanrepo.Result{
				Borrow: model.Borrow{ID: 57, Status: model.BorrowLost},
				Fine:   &model.Fine{ID: 10, FeeType: model.FeeLost, Amount: 25.00},
			}, nil
		},
	}
	s := loansvc.New(m)

	out, err := s.MarkLost(context.Background(), 57, 3)
	require.NoError(t, err)
	require.Equal(t, int64(57), out.BorrowID)
	require.Equal(t, model.FeeLost, out.Fine.FeeType)
	require.InDelta(t, 25.00, out.Fine.Amount, 1e-9)
}

func TestMarkLost_NotActive(t *testing.T) {
	m := &repoMock{
		lostFn: func(ctx context.Context, borrowID int64) (*loanrepo.Result, error) {
			return nil, loanrepo.ErrActiveLoanNotFound
		},
	}
	s := loansvc.New(m)

	_, err := s.MarkLost(context.Background(), 57, 3)
	require.Equal(t, loansvc.ErrActiveLoanNotFound, loansvc.Code(err))
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		activeFn:  func(ctx context.Context, userID int64) ([]model.LoanRow, error) { return nil, nil },
		historyFn: func(ctx context.Context, userID int64) ([]model.LoanRow, error) { return nil, nil },
		listFn:    func(ctx context.Context, f loanrepo.Filter) ([]model.LoanRow, error) { return nil, nil },
	}
	s := loansvc.New(m)

	if _, err := s.MyLoans(context.Background(), 1); err != nil {
		t.Fatalf("MyLoans error: %v", err)
	}
	if _, err := s.MyHistory(context.Background(), 1); err != nil {
		t.Fatalf("MyHistory error: %v", err)
	}
	if _, err := s.List(context.Background(), loansvc.Filter{}); err != nil {
		t.Fatalf("List error: %v", err)
	}
}
