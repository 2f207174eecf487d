package loansvc

import (
	"context"
	"errors"
	"time"

	"librarian/model"
	loanrepo "librarian/repository/loan"
	"librarian/util/metrics"
)

type ErrCode string

const (
	ErrActiveLoanNotFound ErrCode = "ACTIVE_LOAN_NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Returned reports a closed loan and the late fine issued with it, if
// any.
type Returned struct {
	BorrowID   int64
	ReturnDate time.Time
	Fine       *model.Fine
}

type Lost struct {
	BorrowID int64
	Fine     *model.Fine
}

// LoanRow = repository shape
type LoanRow = model.LoanRow

type Filter = loanrepo.Filter

type Repo interface {
	Return(ctx context.Context, borrowID int64) (*loanrepo.Result, error)
	MarkLost(ctx context.Context, borrowID int64) (*loanrepo.Result, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]model.LoanRow, error)
	HistoryByUser(ctx context.Context, userID int64) ([]model.LoanRow, error)
	List(ctx context.Context, f loanrepo.Filter) ([]model.LoanRow, error)
}

type Service interface {
	// Return closes an active loan; lateness is evaluated in the same
	// transaction that releases the unit.
	Return(ctx context.Context, borrowID, staffID int64) (*Returned, error)

	// MarkLost retires the unit from circulation and issues the flat
	// lost fine.
	MarkLost(ctx context.Context, borrowID, staffID int64) (*Lost, error)

	MyLoans(ctx context.Context, userID int64) ([]LoanRow, error)
	MyHistory(ctx context.Context, userID int64) ([]LoanRow, error)
	List(ctx context.Context, f Filter) ([]LoanRow, error)
}

type service struct {
	r Repo
}

func New(r Repo) Service { return &service{r: r} }

func (s *service) Return(ctx context.Context, borrowID, staffID int64) (*Returned, error) {
	res, err := s.r.Return(ctx, borrowID)
	if err != nil {
		metrics.IncOp("return_item", "error")
		if errors.Is(err, loanrepo.ErrActiveLoanNotFound) {
			return nil, makeErr(ErrActiveLoanNotFound)
		}
		return nil, err
	}
	metrics.IncOp("return_item", "ok")
	if res.Fine != nil {
		metrics.IncFineIssued(string(res.Fine.FeeType))
	}
	out := &Returned{BorrowID: res.Borrow.ID, Fine: res.Fine}
	if res.Borrow.ReturnDate != nil {
		out.ReturnDate = *res.Borrow.ReturnDate
	}
	return out, nil
}

func (s *service) MarkLost(ctx context.Context, borrowID, staffID int64) (*Lost, error) {
	res, err := s.r.MarkLost(ctx, borrowID)
	if err != nil {
		metrics.IncOp("mark_lost", "error")
		if errors.Is(err, loanrepo.ErrActiveLoanNotFound) {
			return nil, makeErr(ErrActiveLoanNotFound)
		}
		return nil, err
	}
	metrics.IncOp("mark_lost", "ok")
	if res.Fine != nil {
		metrics.IncFineIssued(string(res.Fine.FeeType))
	}
	return &Lost{BorrowID: res.Borrow.ID, Fine: res.Fine}, nil
}

func (s *service) MyLoans(ctx context.Context, userID int64) ([]LoanRow, error) {
	return s.r.ListActiveByUser(ctx, userID)
}

func (s *service) MyHistory(ctx context.Context, userID int64) ([]LoanRow, error) {
	return s.r.HistoryByUser(ctx, userID)
}

func (s *service) List(ctx context.Context, f Filter) ([]LoanRow, error) {
	return s.r.List(ctx, f)
}
