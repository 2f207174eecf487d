package database

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates tables and seeds the loan-policy reference rows.
// Safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		email         TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'patron',
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		id         BIGSERIAL PRIMARY KEY,
		category   TEXT NOT NULL CHECK (category IN ('BOOK','MOVIE','DEVICE')),
		available  BIGINT NOT NULL DEFAULT 0 CHECK (available >= 0),
		on_hold    BIGINT NOT NULL DEFAULT 0 CHECK (on_hold >= 0),
		loaned_out BIGINT NOT NULL DEFAULT 0 CHECK (loaned_out >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS books (
		item_id BIGINT PRIMARY KEY REFERENCES items(id),
		title   TEXT NOT NULL,
		author  TEXT NOT NULL DEFAULT '',
		isbn    TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS movies (
		item_id  BIGINT PRIMARY KEY REFERENCES items(id),
		title    TEXT NOT NULL,
		director TEXT NOT NULL DEFAULT '',
		year     INT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS devices (
		item_id      BIGINT PRIMARY KEY REFERENCES items(id),
		title        TEXT NOT NULL,
		manufacturer TEXT NOT NULL DEFAULT '',
		serial       TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS holds (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id),
		item_id      BIGINT NOT NULL REFERENCES items(id),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at   TIMESTAMPTZ NOT NULL,
		picked_up_at TIMESTAMPTZ,
		canceled_at  TIMESTAMPTZ,
		released_at  TIMESTAMPTZ,
		CHECK (picked_up_at IS NULL OR canceled_at IS NULL)
	)`,

	`CREATE TABLE IF NOT EXISTS waitlist_entries (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		item_id    BIGINT NOT NULL REFERENCES items(id),
		start_date DATE NOT NULL DEFAULT CURRENT_DATE,
		CONSTRAINT waitlist_user_item_key UNIQUE (user_id, item_id)
	)`,

	`CREATE TABLE IF NOT EXISTS borrows (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id),
		item_id     BIGINT NOT NULL REFERENCES items(id),
		hold_id     BIGINT NOT NULL REFERENCES holds(id),
		borrow_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		due_date    TIMESTAMPTZ NOT NULL,
		return_date TIMESTAMPTZ,
		status      TEXT NOT NULL CHECK (status IN ('LOANED_OUT','RETURNED','LOST'))
	)`,

	`CREATE TABLE IF NOT EXISTS fines (
		id            BIGSERIAL PRIMARY KEY,
		borrow_id     BIGINT NOT NULL REFERENCES borrows(id),
		user_id       BIGINT NOT NULL REFERENCES users(id),
		fee_type      TEXT NOT NULL CHECK (fee_type IN ('LATE','LOST','DAMAGED')),
		amount        NUMERIC(10,2) NOT NULL CHECK (amount > 0),
		date_issued   TIMESTAMPTZ NOT NULL DEFAULT now(),
		date_paid     TIMESTAMPTZ,
		notes         TEXT NOT NULL DEFAULT '',
		waived_at     TIMESTAMPTZ,
		waived_reason TEXT NOT NULL DEFAULT '',
		CHECK (date_paid IS NULL OR waived_at IS NULL)
	)`,

	`CREATE TABLE IF NOT EXISTS loan_policies (
		category        TEXT PRIMARY KEY,
		loan_days       INT NOT NULL,
		daily_late_fee  NUMERIC(10,2) NOT NULL DEFAULT 0,
		lost_after_days INT NOT NULL DEFAULT 0,
		lost_fee        NUMERIC(10,2) NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS memberships (
		user_id    BIGINT PRIMARY KEY REFERENCES users(id),
		auto_renew BOOLEAN NOT NULL DEFAULT true,
		expires_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS membership_payments (
		id      BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		amount  NUMERIC(10,2) NOT NULL,
		paid_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_holds_item_id ON holds(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_holds_user_id ON holds(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_holds_expires_at ON holds(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_borrows_user_id ON borrows(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_borrows_status ON borrows(status)`,
	`CREATE INDEX IF NOT EXISTS idx_fines_user_id ON fines(user_id)`,

	`INSERT INTO loan_policies (category, loan_days, daily_late_fee, lost_after_days, lost_fee)
	 VALUES ('BOOK', 14, 0.50, 30, 25.00),
	        ('MOVIE', 7, 1.00, 14, 30.00),
	        ('DEVICE', 7, 2.00, 14, 150.00)
	 ON CONFLICT (category) DO NOTHING`,
}
