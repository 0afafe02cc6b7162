package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

type migration struct {
	version int
	name    string
	stmts   []string
}

// Ordered schema history. Versions run once each, tracked in
// schema_migrations; never edit an applied entry, always append.
//
// Migration 2 is the legacy-field backfill: early deployments stored the
// pipeline stage in deal_stage and the followup timestamp in last_follow_up.
// The rename happens here, at the data-access boundary, so nothing above
// this package ever sees the old names.
var migrations = []migration{
	{
		version: 1,
		name:    "base schema",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				company_name TEXT,
				role TEXT NOT NULL,
				api_key_hash TEXT NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS partner_applications (
				id UUID PRIMARY KEY,
				company_name TEXT NOT NULL,
				contact_name TEXT NOT NULL,
				contact_email TEXT NOT NULL,
				contact_phone TEXT,
				website TEXT,
				country TEXT,
				message TEXT,
				status TEXT NOT NULL,
				review_note TEXT,
				reviewed_by UUID REFERENCES users(id),
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS deals (
				id UUID PRIMARY KEY,
				partner_id UUID REFERENCES users(id),
				created_by UUID REFERENCES users(id),
				status TEXT NOT NULL,
				customer_name TEXT NOT NULL,
				contact_name TEXT NOT NULL,
				contact_email TEXT,
				contact_phone TEXT,
				customer_address TEXT,
				customer_city TEXT,
				customer_country TEXT,
				opportunity_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
				commission_rate DOUBLE PRECISION,
				camera_count INTEGER,
				interested_usecases TEXT[],
				notes TEXT,
				expected_close_date TIMESTAMPTZ NOT NULL,
				last_followup_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ
			)`,
			`CREATE TABLE IF NOT EXISTS customers (
				id UUID PRIMARY KEY,
				partner_id UUID NOT NULL REFERENCES users(id),
				name TEXT NOT NULL,
				contact_name TEXT,
				contact_email TEXT,
				contact_phone TEXT,
				address TEXT,
				city TEXT,
				country TEXT,
				notes TEXT,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS quotes (
				id UUID PRIMARY KEY,
				created_by UUID NOT NULL REFERENCES users(id),
				client_name TEXT NOT NULL,
				client_company TEXT NOT NULL,
				client_email TEXT,
				client_address TEXT,
				client_city TEXT,
				subscription_type TEXT NOT NULL,
				total_cameras INTEGER NOT NULL,
				selected_scenarios TEXT[],
				discount_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
				quote_date TIMESTAMPTZ NOT NULL,
				one_time_base_cost DOUBLE PRECISION NOT NULL,
				additional_cameras INTEGER NOT NULL,
				additional_camera_cost DOUBLE PRECISION NOT NULL,
				monthly_recurring DOUBLE PRECISION NOT NULL,
				annual_recurring DOUBLE PRECISION NOT NULL,
				discount_amount DOUBLE PRECISION NOT NULL,
				discounted_annual_recurring DOUBLE PRECISION NOT NULL,
				contract_length_months INTEGER NOT NULL,
				total_contract_value DOUBLE PRECISION NOT NULL,
				second_currency_code TEXT,
				exchange_rate DOUBLE PRECISION,
				rate_updated_at TIMESTAMPTZ,
				payment_reference TEXT,
				payment_status TEXT,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS learning_resources (
				id UUID PRIMARY KEY,
				title TEXT NOT NULL,
				type TEXT NOT NULL,
				url TEXT NOT NULL,
				description TEXT,
				tags TEXT[],
				published BOOLEAN NOT NULL DEFAULT FALSE,
				created_by UUID REFERENCES users(id),
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_deals_partner_id ON deals(partner_id)`,
			`CREATE INDEX IF NOT EXISTS idx_deals_status ON deals(status)`,
			`CREATE INDEX IF NOT EXISTS idx_customers_partner_id ON customers(partner_id)`,
			`CREATE INDEX IF NOT EXISTS idx_quotes_created_by ON quotes(created_by)`,
		},
	},
	{
		version: 2,
		name:    "backfill legacy deal columns",
		stmts: []string{
			`DO $$ BEGIN
				IF EXISTS (SELECT 1 FROM information_schema.columns
					WHERE table_name = 'deals' AND column_name = 'deal_stage') THEN
					UPDATE deals SET status = deal_stage
						WHERE (status IS NULL OR status = '') AND deal_stage IS NOT NULL;
					ALTER TABLE deals DROP COLUMN deal_stage;
				END IF;
			END $$`,
			`DO $$ BEGIN
				IF EXISTS (SELECT 1 FROM information_schema.columns
					WHERE table_name = 'deals' AND column_name = 'last_follow_up') THEN
					UPDATE deals SET last_followup_at = last_follow_up
						WHERE last_followup_at IS NULL AND last_follow_up IS NOT NULL;
					ALTER TABLE deals DROP COLUMN last_follow_up;
				END IF;
			END $$`,
		},
	},
	{
		version: 3,
		name:    "idempotency keys",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS idempotency_keys (
				key TEXT NOT NULL,
				user_id UUID NOT NULL REFERENCES users(id),
				quote_id UUID NOT NULL REFERENCES quotes(id),
				request_hash TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (user_id, key)
			)`,
		},
	},
}

// Migrate applies all pending schema migrations in order
func Migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.version, err)
		}
		if exists {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}
		for _, stmt := range m.stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}

		logger.Info("Applied migration",
			zap.Int("version", m.version),
			zap.String("name", m.name),
		)
	}

	return nil
}
