// repository/loan/repo.go
package loanrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import

	"librarian/model"
)

var ErrActiveLoanNotFound = errors.New("active loan not found")

// Result is what a return or loss yields: the updated borrow and the
// fine issued with it, if any.
type Result struct {
	Borrow model.Borrow
	Fine   *model.Fine
}

// Filter narrows staff loan listings. Nil fields are ignored.
type Filter struct {
	UserID   *int64
	Status   *model.BorrowStatus
	Category *model.Category
}

type Repo interface {
	// Return closes an active loan: loaned_out-1, available+1, status
	// RETURNED; a late fine is evaluated and inserted in the same
	// transaction.
	Return(ctx context.Context, borrowID int64) (*Result, error)

	// MarkLost removes a unit from circulation: loaned_out-1 only (the
	// unit never comes back to available), status LOST, flat lost fine.
	MarkLost(ctx context.Context, borrowID int64) (*Result, error)

	ListActiveByUser(ctx context.Context, userID int64) ([]model.LoanRow, error)
	HistoryByUser(ctx context.Context, userID int64) ([]model.LoanRow, error)
	List(ctx context.Context, f Filter) ([]model.LoanRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Return(ctx context.Context, borrowID int64) (res *Result, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, category, err := lockActiveBorrow(ctx, tx, borrowID)
	if err != nil {
		return nil, err
	}

	const moveQ = `
		UPDATE items
		SET loaned_out = loaned_out - 1,
		    available = available + 1
		WHERE id = $1
		AND loaned_out > 0`
	resExec, err := tx.ExecContext(ctx, moveQ, b.ItemID)
	if err != nil {
		return nil, err
	}
	if aff, _ := resExec.RowsAffected(); aff == 0 {
		err = ErrActiveLoanNotFound
		return nil, err
	}

	now := time.Now().UTC()
	if _, err = tx.ExecContext(ctx, `
		UPDATE borrows
		SET status = $2,
		    return_date = $3
		WHERE id = $1`, borrowID, model.BorrowReturned, now); err != nil {
		return nil, err
	}
	b.Status = model.BorrowReturned
	b.ReturnDate = &now

	policy, err := policyFor(ctx, tx, category)
	if err != nil {
		return nil, err
	}

	res = &Result{Borrow: b}
	if spec := policy.LateFine(b.DueDate, now); spec != nil {
		fine, ferr := insertFine(ctx, tx, b, *spec, now)
		if ferr != nil {
			err = ferr
			return nil, err
		}
		res.Fine = fine
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *repo) MarkLost(ctx context.Context, borrowID int64) (res *Result, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, category, err := lockActiveBorrow(ctx, tx, borrowID)
	if err != nil {
		return nil, err
	}

	// The unit is gone: it leaves loaned_out and never re-enters
	// available.
	const moveQ = `
		UPDATE items
		SET loaned_out = loaned_out - 1
		WHERE id = $1
		AND loaned_out > 0`
	resExec, err := tx.ExecContext(ctx, moveQ, b.ItemID)
	if err != nil {
		return nil, err
	}
	if aff, _ := resExec.RowsAffected(); aff == 0 {
		err = ErrActiveLoanNotFound
		return nil, err
	}

	now := time.Now().UTC()
	if _, err = tx.ExecContext(ctx, `
		UPDATE borrows
		SET status = $2
		WHERE id = $1`, borrowID, model.BorrowLost); err != nil {
		return nil, err
	}
	b.Status = model.BorrowLost

	policy, err := policyFor(ctx, tx, category)
	if err != nil {
		return nil, err
	}

	fine, err := insertFine(ctx, tx, b, policy.LostFine(), now)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &Result{Borrow: b, Fine: fine}, nil
}

// lockActiveBorrow locks the LOANED_OUT borrow row and its item row,
// returning the borrow and the item category.
func lockActiveBorrow(ctx context.Context, tx *sql.Tx, borrowID int64) (model.Borrow, model.Category, error) {
	const q = `
		SELECT b.id, b.user_id, b.item_id, b.hold_id, b.borrow_date, b.due_date, i.category
		FROM borrows b
		JOIN items i ON i.id = b.item_id
		WHERE b.id = $1
		AND b.status = $2
		FOR UPDATE OF b, i`
	var b model.Borrow
	var category model.Category
	err := tx.QueryRowContext(ctx, q, borrowID, model.BorrowLoanedOut).Scan(
		&b.ID, &b.UserID, &b.ItemID, &b.HoldID, &b.BorrowDate, &b.DueDate, &category)
	if errors.Is(err, sql.ErrNoRows) {
		return b, "", ErrActiveLoanNotFound
	}
	if err != nil {
		return b, "", err
	}
	b.Status = model.BorrowLoanedOut
	return b, category, nil
}

func insertFine(ctx context.Context, tx *sql.Tx, b model.Borrow, spec model.FineSpec, now time.Time) (*model.Fine, error) {
	f := &model.Fine{
		BorrowID:   b.ID,
		UserID:     b.UserID,
		FeeType:    spec.FeeType,
		Amount:     spec.Amount,
		DateIssued: now,
		Notes:      spec.Notes,
	}
	const q = `
		INSERT INTO fines (borrow_id, user_id, fee_type, amount, date_issued, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := tx.QueryRowContext(ctx, q,
		f.BorrowID, f.UserID, f.FeeType, f.Amount, f.DateIssued, f.Notes).Scan(&f.ID); err != nil {
		return nil, err
	}
	return f, nil
}

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

// Read accessors. The display title lives in one of three category child
// tables, so listings left-join all three and coalesce.

func (r *repo) ListActiveByUser(ctx context.Context, userID int64) ([]model.LoanRow, error) {
	status := model.BorrowLoanedOut
	return r.List(ctx, Filter{UserID: &userID, Status: &status})
}

func (r *repo) HistoryByUser(ctx context.Context, userID int64) ([]model.LoanRow, error) {
	return r.List(ctx, Filter{UserID: &userID})
}

func (r *repo) List(ctx context.Context, f Filter) ([]model.LoanRow, error) {
	ds := goqu.Dialect("postgres").
		From(goqu.T("borrows").As("b")).
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		LeftJoin(goqu.T("books").As("bk"), goqu.On(goqu.I("bk.item_id").Eq(goqu.I("b.item_id")))).
		LeftJoin(goqu.T("movies").As("mv"), goqu.On(goqu.I("mv.item_id").Eq(goqu.I("b.item_id")))).
		LeftJoin(goqu.T("devices").As("dv"), goqu.On(goqu.I("dv.item_id").Eq(goqu.I("b.item_id")))).
		Select(
			goqu.I("b.id"),
			goqu.I("b.item_id"),
			goqu.I("i.category"),
			goqu.COALESCE(goqu.I("bk.title"), goqu.I("mv.title"), goqu.I("dv.title"), goqu.V("")).As("title"),
			goqu.I("b.user_id"),
			goqu.I("b.borrow_date"),
			goqu.I("b.due_date"),
			goqu.I("b.return_date"),
			goqu.I("b.status"),
		).
		Order(goqu.I("b.borrow_date").Desc(), goqu.I("b.id").Desc())

	if f.UserID != nil {
		ds = ds.Where(goqu.I("b.user_id").Eq(*f.UserID))
	}
	if f.Status != nil {
		ds = ds.Where(goqu.I("b.status").Eq(string(*f.Status)))
	}
	if f.Category != nil {
		ds = ds.Where(goqu.I("i.category").Eq(string(*f.Category)))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LoanRow
	for rows.Next() {
		var lr model.LoanRow
		if err := rows.Scan(&lr.BorrowID, &lr.ItemID, &lr.Category, &lr.Title,
			&lr.UserID, &lr.BorrowDate, &lr.DueDate, &lr.ReturnDate, &lr.Status); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}
