package holdsvc

import (
	"context"
	"errors"
	"time"

	"librarian/model"
	holdrepo "librarian/repository/hold"
	"librarian/util/metrics"
)

// errors used by controllers

type ErrCode string

const (
	ErrItemNotFound  ErrCode = "ITEM_NOT_FOUND"
	ErrUnavailable   ErrCode = "ITEM_UNAVAILABLE"
	ErrNotActionable ErrCode = "HOLD_NOT_ACTIONABLE"
	ErrNotOwner      ErrCode = "NOT_OWNER"
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

// dto

type Created struct {
	HoldID    int64
	ExpiresAt time.Time
}

type PickedUp struct {
	BorrowID int64
	DueDate  time.Time
}

// HoldView is a hold with its read-time derived state.
type HoldView struct {
	model.Hold
	State model.HoldState `json:"state"`
}

type Repo interface {
	RequestPickup(ctx context.Context, itemID, userID int64, window time.Duration) (*model.Hold, error)
	Pickup(ctx context.Context, holdID int64) (*model.Borrow, error)
	Cancel(ctx context.Context, holdID, userID int64, staff bool) error
	ReleaseExpired(ctx context.Context, now time.Time) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Hold, error)
}

type Service interface {
	// RequestPickup reserves one unit of the item for the acting user.
	RequestPickup(ctx context.Context, itemID, userID int64) (*Created, error)

	// Pickup converts the hold into a loan; staffID is the acting staff
	// member recorded by the caller.
	Pickup(ctx context.Context, holdID, staffID int64) (*PickedUp, error)

	// Cancel releases the hold; staff may cancel anyone's.
	Cancel(ctx context.Context, holdID, userID int64, staff bool) error

	// MyHolds lists the caller's holds with derived states.
	MyHolds(ctx context.Context, userID int64) ([]HoldView, error)
}

// ----- Service implementation -----

type service struct {
	r      Repo
	window time.Duration
}

func New(r Repo, pickupWindow time.Duration) Service {
	return &service{r: r, window: pickupWindow}
}

func (s *service) RequestPickup(ctx context.Context, itemID, userID int64) (*Created, error) {
	h, err := s.r.RequestPickup(ctx, itemID, userID, s.window)
	if err != nil {
		metrics.IncOp("request_pickup", "error")
		switch {
		case errors.Is(err, holdrepo.ErrItemNotFound):
			return nil, makeErr(ErrItemNotFound)
		case errors.Is(err, holdrepo.ErrItemUnavailable):
			return nil, makeErr(ErrUnavailable)
		}
		return nil, err
	}
	metrics.IncOp("request_pickup", "ok")
	return &Created{HoldID: h.ID, ExpiresAt: h.ExpiresAt}, nil
}

func (s *service) Pickup(ctx context.Context, holdID, staffID int64) (*PickedUp, error) {
	b, err := s.r.Pickup(ctx, holdID)
	if err != nil {
		metrics.IncOp("pickup_hold", "error")
		if errors.Is(err, holdrepo.ErrHoldNotActionable) {
			return nil, makeErr(ErrNotActionable)
		}
		return nil, err
	}
	metrics.IncOp("pickup_hold", "ok")
	return &PickedUp{BorrowID: b.ID, DueDate: b.DueDate}, nil
}

func (s *service) Cancel(ctx context.Context, holdID, userID int64, staff bool) error {
	err := s.r.Cancel(ctx, holdID, userID, staff)
	if err != nil {
		metrics.IncOp("cancel_hold", "error")
		switch {
		case errors.Is(err, holdrepo.ErrHoldNotActionable):
			return makeErr(ErrNotActionable)
		case errors.Is(err, holdrepo.ErrNotOwner):
			return makeErr(ErrNotOwner)
		}
		return err
	}
	metrics.IncOp("cancel_hold", "ok")
	return nil
}

func (s *service) MyHolds(ctx context.Context, userID int64) ([]HoldView, error) {
	holds, err := s.r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]HoldView, 0, len(holds))
	for _, h := range holds {
		out = append(out, HoldView{Hold: h, State: h.StateAt(now)})
	}
	return out, nil
}
