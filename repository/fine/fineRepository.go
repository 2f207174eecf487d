// repository/fine/repo.go
package finerepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"librarian/model"
)

var (
	ErrNotPayable     = errors.New("fine not found or already paid")
	ErrNotWaivable    = errors.New("fine not found or already settled")
	ErrBorrowNotFound = errors.New("borrow not found")
)

type Repo interface {
	// Pay settles a fine exactly once. The predicate doubles as the
	// idempotence guard.
	Pay(ctx context.Context, fineID int64) error

	// Waive forgives an unsettled fine, recording the reason.
	Waive(ctx context.Context, fineID int64, reason string) error

	// Issue attaches a staff-entered fine (DAMAGED or manual amount) to
	// an existing borrow.
	Issue(ctx context.Context, borrowID int64, feeType model.FeeType, amount float64, notes string) (*model.Fine, error)

	ListByUser(ctx context.Context, userID int64) ([]model.Fine, error)

	// OutstandingTotal sums unpaid, unwaived fines for a user; the
	// suspended flag is derived from it at read time.
	OutstandingTotal(ctx context.Context, userID int64) (float64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Pay(ctx context.Context, fineID int64) error {
	// waived_at IS NULL keeps paid/waived mutually exclusive.
	const q = `
		UPDATE fines
		SET date_paid = $2
		WHERE id = $1
		AND date_paid IS NULL
		AND waived_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, fineID, time.Now().UTC())
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotPayable
	}
	return nil
}

func (r *repo) Waive(ctx context.Context, fineID int64, reason string) error {
	const q = `
		UPDATE fines
		SET waived_at = $2,
		    waived_reason = $3
		WHERE id = $1
		AND date_paid IS NULL
		AND waived_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, fineID, time.Now().UTC(), reason)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNotWaivable
	}
	return nil
}

func (r *repo) Issue(ctx context.Context, borrowID int64, feeType model.FeeType, amount float64, notes string) (f *model.Fine, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var userID int64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM borrows WHERE id = $1`, borrowID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrBorrowNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	f = &model.Fine{
		BorrowID:   borrowID,
		UserID:     userID,
		FeeType:    feeType,
		Amount:     amount,
		DateIssued: time.Now().UTC(),
		Notes:      notes,
	}
	const q = `
		INSERT INTO fines (borrow_id, user_id, fee_type, amount, date_issued, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err = tx.QueryRowContext(ctx, q,
		f.BorrowID, f.UserID, f.FeeType, f.Amount, f.DateIssued, f.Notes).Scan(&f.ID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Fine, error) {
	const q = `
		SELECT id, borrow_id, user_id, fee_type, amount, date_issued, date_paid, notes, waived_at, waived_reason
		FROM fines
		WHERE user_id = $1
		ORDER BY date_issued DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Fine
	for rows.Next() {
		var f model.Fine
		if err := rows.Scan(&f.ID, &f.BorrowID, &f.UserID, &f.FeeType, &f.Amount,
			&f.DateIssued, &f.DatePaid, &f.Notes, &f.WaivedAt, &f.WaivedReason); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *repo) OutstandingTotal(ctx context.Context, userID int64) (float64, error) {
	const q = `
		SELECT COALESCE(SUM(amount), 0)
		FROM fines
		WHERE user_id = $1
		AND date_paid IS NULL
		AND waived_at IS NULL`
	var total float64
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&total)
	return total, err
}
