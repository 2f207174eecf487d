package itemsvc

import (
	"context"
	"errors"

	"librarian/model"
	itemrepo "librarian/repository/item"
)

type ErrCode string

const (
	ErrItemNotFound ErrCode = "ITEM_NOT_FOUND"
	ErrBadPayload   ErrCode = "INVALID_PAYLOAD"
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

// Row = repository shape
type Row = itemrepo.Row

type Repo interface {
	Create(ctx context.Context, item *model.Item, copies int64) (int64, error)
	AddCopies(ctx context.Context, itemID, n int64) error
	List(ctx context.Context) ([]Row, error)
	Detail(ctx context.Context, id int64) (*model.Item, error)
}

type Service interface {
	Create(ctx context.Context, item *model.Item, copies int64) (int64, error)
	AddCopies(ctx context.Context, itemID, n int64) error
	List(ctx context.Context) ([]Row, error)
	Detail(ctx context.Context, id int64) (*model.Item, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, item *model.Item, copies int64) (int64, error) {
	if item == nil || !model.IsValidCategory(item.Category) || copies < 0 {
		return 0, makeErr(ErrBadPayload)
	}
	if item.Title() == "" {
		return 0, makeErr(ErrBadPayload)
	}
	return s.r.Create(ctx, item, copies)
}

func (s *service) AddCopies(ctx context.Context, itemID, n int64) error {
	if n <= 0 {
		return makeErr(ErrBadPayload)
	}
	if err := s.r.AddCopies(ctx, itemID, n); err != nil {
		if errors.Is(err, itemrepo.ErrItemNotFound) {
			return makeErr(ErrItemNotFound)
		}
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]Row, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id int64) (*model.Item, error) {
	it, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, itemrepo.ErrItemNotFound) {
			return nil, makeErr(ErrItemNotFound)
		}
		return nil, err
	}
	return it, nil
}
