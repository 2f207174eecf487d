// repository/hold/repo.go
package holdrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"librarian/model"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrItemUnavailable   = errors.New("item unavailable")
	ErrHoldNotActionable = errors.New("hold not actionable")
	ErrNotOwner          = errors.New("hold not owned by caller")
)

type Repo interface {
	// RequestPickup reserves one available unit: available-1, on_hold+1
	// and a new hold row, all in one transaction behind an item row lock.
	RequestPickup(ctx context.Context, itemID, userID int64, window time.Duration) (*model.Hold, error)

	// Pickup converts an actionable hold into a borrow: on_hold-1,
	// loaned_out+1, picked_up_at set, borrow row inserted with a due date
	// from the category loan policy.
	Pickup(ctx context.Context, holdID int64) (*model.Borrow, error)

	// Cancel releases an actionable hold back to availability. Non-staff
	// callers may only cancel their own holds.
	Cancel(ctx context.Context, holdID, userID int64, staff bool) error

	// ReleaseExpired reclaims reserved units of expired holds: sets
	// released_at and moves each unit on_hold -> available. Returns the
	// number of holds released.
	ReleaseExpired(ctx context.Context, now time.Time) (int64, error)

	ListByUser(ctx context.Context, userID int64) ([]model.Hold, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) RequestPickup(ctx context.Context, itemID, userID int64, window time.Duration) (h *model.Hold, err error) {
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
	if available <= 0 {
		err = ErrItemUnavailable
		return nil, err
	}

	// Guard backs the row lock: never drive available below zero.
	const bumpQ = `
		UPDATE items
		SET available = available - 1,
		    on_hold = on_hold + 1
		WHERE id = $1
		AND available > 0`
	res, err := tx.ExecContext(ctx, bumpQ, itemID)
	if err != nil {
		return nil, err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		err = ErrItemUnavailable
		return nil, err
	}

	now := time.Now().UTC()
	h = &model.Hold{UserID: userID, ItemID: itemID, ExpiresAt: now.Add(window)}
	const insQ = `
		INSERT INTO holds (user_id, item_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if err = tx.QueryRowContext(ctx, insQ, userID, itemID, now, h.ExpiresAt).
		Scan(&h.ID, &h.CreatedAt); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *repo) Pickup(ctx context.Context, holdID int64) (b *model.Borrow, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	// Missing, picked up, canceled, released and expired all collapse
	// into one not-actionable condition by the predicate.
	const holdQ = `
		SELECT user_id, item_id
		FROM holds
		WHERE id = $1
		AND picked_up_at IS NULL
		AND canceled_at IS NULL
		AND released_at IS NULL
		AND expires_at > $2
		FOR UPDATE`
	var userID, itemID int64
	if err = tx.QueryRowContext(ctx, holdQ, holdID, now).Scan(&userID, &itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrHoldNotActionable
		}
		return nil, err
	}

	const itemQ = `
		SELECT category
		FROM items
		WHERE id = $1
		FOR UPDATE`
	var category model.Category
	if err = tx.QueryRowContext(ctx, itemQ, itemID).Scan(&category); err != nil {
		return nil, err
	}

	policy, err := policyFor(ctx, tx, category)
	if err != nil {
		return nil, err
	}

	const moveQ = `
		UPDATE items
		SET on_hold = on_hold - 1,
		    loaned_out = loaned_out + 1
		WHERE id = $1
		AND on_hold > 0`
	res, err := tx.ExecContext(ctx, moveQ, itemID)
	if err != nil {
		return nil, err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		err = ErrHoldNotActionable
		return nil, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE holds SET picked_up_at = $2 WHERE id = $1`, holdID, now); err != nil {
		return nil, err
	}

	b = &model.Borrow{
		UserID:     userID,
		ItemID:     itemID,
		HoldID:     holdID,
		BorrowDate: now,
		DueDate:    policy.DueDate(now),
		Status:     model.BorrowLoanedOut,
	}
	const insQ = `
		INSERT INTO borrows (user_id, item_id, hold_id, borrow_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err = tx.QueryRowContext(ctx, insQ,
		b.UserID, b.ItemID, b.HoldID, b.BorrowDate, b.DueDate, b.Status).Scan(&b.ID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Cancel(ctx context.Context, holdID, userID int64, staff bool) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// An expired-but-unreleased hold is still cancelable; cancel is how
	// its reserved unit gets back to available without the sweeper.
	const holdQ = `
		SELECT user_id, item_id
		FROM holds
		WHERE id = $1
		AND picked_up_at IS NULL
		AND canceled_at IS NULL
		AND released_at IS NULL
		FOR UPDATE`
	var ownerID, itemID int64
	if err = tx.QueryRowContext(ctx, holdQ, holdID).Scan(&ownerID, &itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrHoldNotActionable
		}
		return err
	}
	if !staff && ownerID != userID {
		err = ErrNotOwner
		return err
	}

	var one int
	if err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM items WHERE id = $1 FOR UPDATE`, itemID).Scan(&one); err != nil {
		return err
	}

	const moveQ = `
		UPDATE items
		SET on_hold = on_hold - 1,
		    available = available + 1
		WHERE id = $1
		AND on_hold > 0`
	res, err := tx.ExecContext(ctx, moveQ, itemID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		err = ErrHoldNotActionable
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE holds SET canceled_at = $2 WHERE id = $1`, holdID, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repo) ReleaseExpired(ctx context.Context, now time.Time) (n int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// SKIP LOCKED: a hold being picked up or canceled right now is left
	// for the next sweep.
	const expiredQ = `
		SELECT id, item_id
		FROM holds
		WHERE expires_at <= $1
		AND picked_up_at IS NULL
		AND canceled_at IS NULL
		AND released_at IS NULL
		ORDER BY id
		FOR UPDATE SKIP LOCKED`
	rows, err := tx.QueryContext(ctx, expiredQ, now)
	if err != nil {
		return 0, err
	}
	type pair struct{ holdID, itemID int64 }
	var expired []pair
	for rows.Next() {
		var p pair
		if err = rows.Scan(&p.holdID, &p.itemID); err != nil {
			rows.Close()
			return 0, err
		}
		expired = append(expired, p)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	for _, p := range expired {
		var one int
		if err = tx.QueryRowContext(ctx,
			`SELECT 1 FROM items WHERE id = $1 FOR UPDATE`, p.itemID).Scan(&one); err != nil {
			return 0, err
		}
		if _, err = tx.ExecContext(ctx, `
			UPDATE items
			SET on_hold = on_hold - 1,
			    available = available + 1
			WHERE id = $1
			AND on_hold > 0`, p.itemID); err != nil {
			return 0, err
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE holds SET released_at = $2 WHERE id = $1`, p.holdID, now); err != nil {
			return 0, err
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Hold, error) {
	const q = `
		SELECT id, user_id, item_id, created_at, expires_at, picked_up_at, canceled_at, released_at
		FROM holds
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hold
	for rows.Next() {
		var h model.Hold
		if err := rows.Scan(&h.ID, &h.UserID, &h.ItemID, &h.CreatedAt, &h.ExpiresAt,
			&h.PickedUpAt, &h.CanceledAt, &h.ReleasedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// policyFor reads the category's loan policy inside the caller's
// transaction. Reference data; read-only here.
func policyFor(ctx context.Context, tx *sql.Tx, category model.Category) (model.LoanPolicy, error) {
	const q = `
		SELECT category, loan_days, daily_late_fee, lost_after_days, lost_fee
		FROM loan_policies
		WHERE category = $1`
	var p model.LoanPolicy
	err := tx.QueryRowContext(ctx, q, category).Scan(
		&p.Category, &p.LoanDays, &p.DailyLateFee, &p.LostAfterDays, &p.LostFee)
	return p, err
}
