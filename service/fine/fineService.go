package finesvc

import (
	"context"
	"errors"
	"strings"

	"librarian/model"
	finerepo "librarian/repository/fine"
	"librarian/util/metrics"
)

type ErrCode string

const (
	ErrAlreadyPaid    ErrCode = "FINE_NOT_FOUND_OR_ALREADY_PAID"
	ErrAlreadySettled ErrCode = "FINE_NOT_FOUND_OR_ALREADY_SETTLED"
	ErrMissingReason  ErrCode = "MISSING_REASON"
	ErrBorrowNotFound ErrCode = "BORROW_NOT_FOUND"
	ErrBadAmount      ErrCode = "INVALID_AMOUNT"
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

// Standing is the advisory signal the presentation layer consumes to
// decide whether to block further borrowing.
type Standing struct {
	Outstanding float64 `json:"outstanding"`
	Suspended   bool    `json:"suspended"`
}

type Repo interface {
	Pay(ctx context.Context, fineID int64) error
	Waive(ctx context.Context, fineID int64, reason string) error
	Issue(ctx context.Context, borrowID int64, feeType model.FeeType, amount float64, notes string) (*model.Fine, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Fine, error)
	OutstandingTotal(ctx context.Context, userID int64) (float64, error)
}

type Service interface {
	Pay(ctx context.Context, fineID, staffID int64) error
	Waive(ctx context.Context, fineID int64, reason string, staffID int64) error

	// Issue creates a staff-entered fine (DAMAGED or a manual charge)
	// against a borrow.
	Issue(ctx context.Context, borrowID int64, feeType model.FeeType, amount float64, notes string, staffID int64) (*model.Fine, error)

	MyFines(ctx context.Context, userID int64) ([]model.Fine, error)
	Standing(ctx context.Context, userID int64) (*Standing, error)
}

type service struct {
	r Repo
}

func New(r Repo) Service { return &service{r: r} }

func (s *service) Pay(ctx context.Context, fineID, staffID int64) error {
	if err := s.r.Pay(ctx, fineID); err != nil {
		metrics.IncOp("pay_fine", "error")
		if errors.Is(err, finerepo.ErrNotPayable) {
			return makeErr(ErrAlreadyPaid)
		}
		return err
	}
	metrics.IncOp("pay_fine", "ok")
	return nil
}

func (s *service) Waive(ctx context.Context, fineID int64, reason string, staffID int64) error {
	if strings.TrimSpace(reason) == "" {
		return makeErr(ErrMissingReason)
	}
	if err := s.r.Waive(ctx, fineID, reason); err != nil {
		metrics.IncOp("waive_fine", "error")
		if errors.Is(err, finerepo.ErrNotWaivable) {
			return makeErr(ErrAlreadySettled)
		}
		return err
	}
	metrics.IncOp("waive_fine", "ok")
	return nil
}

func (s *service) Issue(ctx context.Context, borrowID int64, feeType model.FeeType, amount float64, notes string, staffID int64) (*model.Fine, error) {
	if amount <= 0 {
		return nil, makeErr(ErrBadAmount)
	}
	f, err := s.r.Issue(ctx, borrowID, feeType, amount, notes)
	if err != nil {
		if errors.Is(err, finerepo.ErrBorrowNotFound) {
			return nil, makeErr(ErrBorrowNotFound)
		}
		return nil, err
	}
	metrics.IncFineIssued(string(feeType))
	return f, nil
}

func (s *service) MyFines(ctx context.Context, userID int64) ([]model.Fine, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) Standing(ctx context.Context, userID int64) (*Standing, error) {
	total, err := s.r.OutstandingTotal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Standing{Outstanding: total, Suspended: model.Suspended(total)}, nil
}
