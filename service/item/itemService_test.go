package itemsvc_test

import (
	"context"
	"testing"

	"librarian/model"
	itemrepo "librarian/repository/item"
	itemsvc "librarian/service/item"
)

type repoMock struct {
	createFn func(ctx context.Context, item *model.Item, copies int64) (int64, error)
	addFn    func(ctx context.Context, itemID, n int64) error
	listFn   func(ctx context.Context) ([]itemrepo.Row, error)
	detailFn func(ctx context.Context, id int64) (*model.Item, error)
}

func (m *repoMock) Create(ctx context.Context, item *model.Item, copies int64) (int64, error) {
	return m.createFn(ctx, item, copies)
}
func (m *repoMock) AddCopies(ctx context.Context, itemID, n int64) error {
	return m.addFn(ctx, itemID, n)
}
func (m *repoMock) List(ctx context.Context) ([]itemrepo.Row, error) { return m.listFn(ctx) }
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Item, error) {
	return m.detailFn(ctx, id)
}

func TestCreate_Validation(t *testing.T) {
	s := itemsvc.New(&repoMock{})

	if _, err := s.Create(context.Background(), nil, 1); err == nil {
		t.Fatal("expected error for nil item")
	}
	bad := &model.Item{Category: "VINYL", Book: &model.BookMeta{Title: "x"}}
	if _, err := s.Create(context.Background(), bad, 1); err == nil {
		t.Fatal("expected error for unknown category")
	}
	untitled := &model.Item{Category: model.CategoryBook, Book: &model.BookMeta{}}
	if _, err := s.Create(context.Background(), untitled, 1); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, item *model.Item, copies int64) (int64, error) {
			if copies != 2 || item.Book.Title != "Dune" {
				t.Fatalf("bad args: copies=%d title=%q", copies, item.Book.Title)
			}
			return 7, nil
		},
	}
	s := itemsvc.New(m)

	id, err := s.Create(context.Background(), &model.Item{
		Category: model.CategoryBook,
		Book:     &model.BookMeta{Title: "Dune", Author: "Herbert"},
	}, 2)
	if err != nil || id != 7 {
		t.Fatalf("got id=%v err=%v; want 7 nil", id, err)
	}
}

func TestAddCopies(t *testing.T) {
	s := itemsvc.New(&repoMock{})
	if err := s.AddCopies(context.Background(), 7, 0); err == nil {
		t.Fatal("expected error for n=0")
	}

	m := &repoMock{
		addFn: func(ctx context.Context, itemID, n int64) error { return itemrepo.ErrItemNotFound },
	}
	err := itemsvc.New(m).AddCopies(context.Background(), 99, 3)
	if itemsvc.Code(err) != itemsvc.ErrItemNotFound {
		t.Fatalf("got %v; want ITEM_NOT_FOUND", err)
	}
}
