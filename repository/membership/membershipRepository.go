// repository/membership/repo.go
package membershiprepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"librarian/model"
)

var ErrNoMembership = errors.New("no membership record")

type Repo interface {
	// Get returns the membership row, or (nil, nil) when the user never
	// signed up.
	Get(ctx context.Context, userID int64) (*model.Membership, error)

	// Signup charges the fee and opens (or refreshes) a one-month
	// window; the payment row and the membership upsert commit together.
	Signup(ctx context.Context, userID int64, fee float64) (*model.Membership, error)

	// Renew re-charges only when the window has lapsed; otherwise it
	// just re-enables auto_renew. Returns whether a charge happened.
	Renew(ctx context.Context, userID int64, fee float64) (*model.Membership, bool, error)

	// Cancel flips auto_renew off; the window keeps running until
	// expires_at.
	Cancel(ctx context.Context, userID int64) error

	ListPayments(ctx context.Context, userID int64) ([]model.MembershipPayment, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Get(ctx context.Context, userID int64) (*model.Membership, error) {
	const q = `
		SELECT user_id, auto_renew, expires_at, updated_at
		FROM memberships
		WHERE user_id = $1`
	m := &model.Membership{}
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&m.UserID, &m.AutoRenew, &m.ExpiresAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) Signup(ctx context.Context, userID int64, fee float64) (m *model.Membership, err error) {
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
	if err = insertPayment(ctx, tx, userID, fee, now); err != nil {
		return nil, err
	}
	m, err = upsertWindow(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) Renew(ctx context.Context, userID int64, fee float64) (m *model.Membership, charged bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const lockQ = `
		SELECT user_id, auto_renew, expires_at, updated_at
		FROM memberships
		WHERE user_id = $1
		FOR UPDATE`
	cur := &model.Membership{}
	err = tx.QueryRowContext(ctx, lockQ, userID).Scan(&cur.UserID, &cur.AutoRenew, &cur.ExpiresAt, &cur.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNoMembership
		return nil, false, err
	}
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	if cur.RenewNeedsCharge(now) {
		if err = insertPayment(ctx, tx, userID, fee, now); err != nil {
			return nil, false, err
		}
		m, err = upsertWindow(ctx, tx, userID, now)
		if err != nil {
			return nil, false, err
		}
		charged = true
	} else {
		const flipQ = `
			UPDATE memberships
			SET auto_renew = true,
			    updated_at = $2
			WHERE user_id = $1
			RETURNING user_id, auto_renew, expires_at, updated_at`
		m = &model.Membership{}
		if err = tx.QueryRowContext(ctx, flipQ, userID, now).
			Scan(&m.UserID, &m.AutoRenew, &m.ExpiresAt, &m.UpdatedAt); err != nil {
			return nil, false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, false, err
	}
	return m, charged, nil
}

func (r *repo) Cancel(ctx context.Context, userID int64) error {
	const q = `
		UPDATE memberships
		SET auto_renew = false,
		    updated_at = $2
		WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, q, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return ErrNoMembership
	}
	return nil
}

func (r *repo) ListPayments(ctx context.Context, userID int64) ([]model.MembershipPayment, error) {
	const q = `
		SELECT id, user_id, amount, paid_at
		FROM membership_payments
		WHERE user_id = $1
		ORDER BY paid_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MembershipPayment
	for rows.Next() {
		var p model.MembershipPayment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.PaidAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func insertPayment(ctx context.Context, tx *sql.Tx, userID int64, fee float64, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO membership_payments (user_id, amount, paid_at)
		VALUES ($1, $2, $3)`, userID, fee, now)
	return err
}

func upsertWindow(ctx context.Context, tx *sql.Tx, userID int64, now time.Time) (*model.Membership, error) {
	const q = `
		INSERT INTO memberships (user_id, auto_renew, expires_at, updated_at)
		VALUES ($1, true, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET auto_renew = true,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
		RETURNING user_id, auto_renew, expires_at, updated_at`
	m := &model.Membership{}
	err := tx.QueryRowContext(ctx, q, userID, now.AddDate(0, 1, 0), now).
		Scan(&m.UserID, &m.AutoRenew, &m.ExpiresAt, &m.UpdatedAt)
	return m, err
}
