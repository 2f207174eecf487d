// repository/item/repo.go
package itemrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import

	"librarian/model"
)

var ErrItemNotFound = errors.New("item not found")

// Row is the listing shape: counters plus the coalesced display title.
type Row struct {
	ID        int64          `json:"id"`
	Category  model.Category `json:"category"`
	Title     string         `json:"title"`
	Available int64          `json:"available"`
	OnHold    int64          `json:"on_hold"`
	LoanedOut int64          `json:"loaned_out"`
}

type Repo interface {
	// Create inserts the item row and its category child row in one
	// transaction, starting with n units available.
	Create(ctx context.Context, item *model.Item, copies int64) (int64, error)

	// AddCopies grows the owned quantity; new units arrive available.
	AddCopies(ctx context.Context, itemID, n int64) error

	List(ctx context.Context) ([]Row, error)
	Detail(ctx context.Context, id int64) (*model.Item, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, item *model.Item, copies int64) (id int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insQ = `
		INSERT INTO items (category, available)
		VALUES ($1, $2)
		RETURNING id`
	if err = tx.QueryRowContext(ctx, insQ, item.Category, copies).Scan(&id); err != nil {
		return 0, err
	}

	switch item.Category {
	case model.CategoryBook:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO books (item_id, title, author, isbn)
			VALUES ($1, $2, $3, $4)`,
			id, item.Book.Title, item.Book.Author, item.Book.ISBN)
	case model.CategoryMovie:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO movies (item_id, title, director, year)
			VALUES ($1, $2, $3, $4)`,
			id, item.Movie.Title, item.Movie.Director, item.Movie.Year)
	case model.CategoryDevice:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO devices (item_id, title, manufacturer, serial)
			VALUES ($1, $2, $3, $4)`,
			id, item.Device.Title, item.Device.Manufacturer, item.Device.Serial)
	default:
		err = errors.New("unknown category")
	}
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	item.ID = id
	item.Available = copies
	return id, nil
}

func (r *repo) AddCopies(ctx context.Context, itemID, n int64) error {
	const q = `
		UPDATE items
		SET available = available + $2
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, itemID, n)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]Row, error) {
	ds := goqu.Dialect("postgres").
		From(goqu.T("items").As("i")).
		LeftJoin(goqu.T("books").As("bk"), goqu.On(goqu.I("bk.item_id").Eq(goqu.I("i.id")))).
		LeftJoin(goqu.T("movies").As("mv"), goqu.On(goqu.I("mv.item_id").Eq(goqu.I("i.id")))).
		LeftJoin(goqu.T("devices").As("dv"), goqu.On(goqu.I("dv.item_id").Eq(goqu.I("i.id")))).
		Select(
			goqu.I("i.id"),
			goqu.I("i.category"),
			goqu.COALESCE(goqu.I("bk.title"), goqu.I("mv.title"), goqu.I("dv.title"), goqu.V("")).As("title"),
			goqu.I("i.available"),
			goqu.I("i.on_hold"),
			goqu.I("i.loaned_out"),
		).
		Order(goqu.I("i.id").Asc())

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.Category, &row.Title,
			&row.Available, &row.OnHold, &row.LoanedOut); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Item, error) {
	const q = `
		SELECT id, category, available, on_hold, loaned_out
		FROM items
		WHERE id = $1`
	item := &model.Item{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&item.ID, &item.Category, &item.Available, &item.OnHold, &item.LoanedOut)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	switch item.Category {
	case model.CategoryBook:
		item.Book = &model.BookMeta{}
		err = r.db.QueryRowContext(ctx,
			`SELECT title, author, isbn FROM books WHERE item_id = $1`, id).
			Scan(&item.Book.Title, &item.Book.Author, &item.Book.ISBN)
	case model.CategoryMovie:
		item.Movie = &model.MovieMeta{}
		err = r.db.QueryRowContext(ctx,
			`SELECT title, director, year FROM movies WHERE item_id = $1`, id).
			Scan(&item.Movie.Title, &item.Movie.Director, &item.Movie.Year)
	case model.CategoryDevice:
		item.Device = &model.DeviceMeta{}
		err = r.db.QueryRowContext(ctx,
			`SELECT title, manufacturer, serial FROM devices WHERE item_id = $1`, id).
			Scan(&item.Device.Title, &item.Device.Manufacturer, &item.Device.Serial)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return item, nil
}
