// repository/waitlist/repo.go
package waitlistrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"librarian/model"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrItemAvailable     = errors.New("item is available, hold it instead")
	ErrAlreadyWaitlisted = errors.New("already waitlisted for item")
	ErrEntryNotFound     = errors.New("waitlist entry not found")
)

type Repo interface {
	// Place queues the user for an unavailable item. Purely advisory: no
	// counter moves. The item row lock keeps the availability check
	// stable against a concurrent cancel/return.
	Place(ctx context.Context, itemID, userID int64) (*model.WaitlistEntry, error)

	// Cancel removes an entry. Non-staff callers may only remove their
	// own.
	Cancel(ctx context.Context, entryID, userID int64, staff bool) error

	ListByUser(ctx context.Context, userID int64) ([]model.WaitlistEntry, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.WaitlistEntry, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Place(ctx context.Context, itemID, userID int64) (e *model.WaitlistEntry, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const lockQ = `
		SELECT available
		FROM items
		WHERE id = $1
		FOR UPDATE`
	var available int64
	if err = tx.QueryRowContext(ctx, lockQ, itemID).Scan(&available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrItemNotFound
		}
		return nil, err
	}
	if available > 0 {
		err = ErrItemAvailable
		return nil, err
	}

	e = &model.WaitlistEntry{UserID: userID, ItemID: itemID}
	const insQ = `
		INSERT INTO waitlist_entries (user_id, item_id)
		VALUES ($1, $2)
		RETURNING id, start_date`
	if err = tx.QueryRowContext(ctx, insQ, userID, itemID).Scan(&e.ID, &e.StartDate); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			err = ErrAlreadyWaitlisted
		}
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repo) Cancel(ctx context.Context, entryID, userID int64, staff bool) error {
	q := `DELETE FROM waitlist_entries WHERE id = $1 AND user_id = $2`
	args := []any{entryID, userID}
	if staff {
		q = `DELETE FROM waitlist_entries WHERE id = $1`
		args = args[:1]
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.WaitlistEntry, error) {
	return r.list(ctx, `user_id`, userID)
}

func (r *repo) ListByItem(ctx context.Context, itemID int64) ([]model.WaitlistEntry, error) {
	return r.list(ctx, `item_id`, itemID)
}

func (r *repo) list(ctx context.Context, col string, id int64) ([]model.WaitlistEntry, error) {
	q := `
		SELECT id, user_id, item_id, start_date
		FROM waitlist_entries
		WHERE ` + col + ` = $1
		ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WaitlistEntry
	for rows.Next() {
		var e model.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ItemID, &e.StartDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
