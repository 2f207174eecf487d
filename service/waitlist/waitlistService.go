package waitlistsvc

import (
	"context"
	"errors"

	"librarian/model"
	waitlistrepo "librarian/repository/waitlist"
	"librarian/util/metrics"
)

type ErrCode string

const (
	ErrItemNotFound      ErrCode = "ITEM_NOT_FOUND"
	ErrItemAvailable     ErrCode = "ITEM_AVAILABLE"
	ErrAlreadyWaitlisted ErrCode = "ALREADY_WAITLISTED"
	ErrEntryNotFound     ErrCode = "WAITLIST_NOT_FOUND"
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

type Repo interface {
	Place(ctx context.Context, itemID, userID int64) (*model.WaitlistEntry, error)
	Cancel(ctx context.Context, entryID, userID int64, staff bool) error
	ListByUser(ctx context.Context, userID int64) ([]model.WaitlistEntry, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.WaitlistEntry, error)
}

type Service interface {
	// Place queues the user for an item with zero availability.
	Place(ctx context.Context, itemID, userID int64) (*model.WaitlistEntry, error)

	Cancel(ctx context.Context, entryID, userID int64, staff bool) error
	MyEntries(ctx context.Context, userID int64) ([]model.WaitlistEntry, error)
	ItemQueue(ctx context.Context, itemID int64) ([]model.WaitlistEntry, error)
}

type service struct {
	r Repo
}

func New(r Repo) Service { return &service{r: r} }

func (s *service) Place(ctx context.Context, itemID, userID int64) (*model.WaitlistEntry, error) {
	e, err := s.r.Place(ctx, itemID, userID)
	if err != nil {
		metrics.IncOp("place_waitlist", "error")
		switch {
		case errors.Is(err, waitlistrepo.ErrItemNotFound):
			return nil, makeErr(ErrItemNotFound)
		case errors.Is(err, waitlistrepo.ErrItemAvailable):
			return nil, makeErr(ErrItemAvailable)
		case errors.Is(err, waitlistrepo.ErrAlreadyWaitlisted):
			return nil, makeErr(ErrAlreadyWaitlisted)
		}
		return nil, err
	}
	metrics.IncOp("place_waitlist", "ok")
	return e, nil
}

func (s *service) Cancel(ctx context.Context, entryID, userID int64, staff bool) error {
	if err := s.r.Cancel(ctx, entryID, userID, staff); err != nil {
		if errors.Is(err, waitlistrepo.ErrEntryNotFound) {
			return makeErr(ErrEntryNotFound)
		}
		return err
	}
	return nil
}

func (s *service) MyEntries(ctx context.Context, userID int64) ([]model.WaitlistEntry, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) ItemQueue(ctx context.Context, itemID int64) ([]model.WaitlistEntry, error) {
	return s.r.ListByItem(ctx, itemID)
}
