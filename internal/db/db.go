package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/openoutreach/outreach-backend/internal/config"
)

// Open connects to Postgres and verifies the connection.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return conn, nil
}

// Migrate creates the schema if it does not exist. The unique constraints
// back the application-level duplicate guards in the scanner and dispatcher.
func Migrate(conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS businesses (
			id           SERIAL PRIMARY KEY,
			name         VARCHAR(255) NOT NULL UNIQUE,
			website      VARCHAR(255),
			email        VARCHAR(255),
			phone_number VARCHAR(50),
			address      TEXT,
			status       VARCHAR(50) NOT NULL DEFAULT 'pending_scan',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id          SERIAL PRIMARY KEY,
			business_id INTEGER NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			type        VARCHAR(50) NOT NULL,
			value       TEXT NOT NULL,
			source      VARCHAR(50) NOT NULL,
			is_primary  BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ,
			CONSTRAINT unique_business_contact UNIQUE (business_id, type, value)
		)`,
		`CREATE TABLE IF NOT EXISTS campaigns (
			id               SERIAL PRIMARY KEY,
			name             VARCHAR(255) NOT NULL UNIQUE,
			message_template TEXT NOT NULL,
			status           VARCHAR(50) NOT NULL DEFAULT 'draft',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id                   SERIAL PRIMARY KEY,
			campaign_id          INTEGER NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
			business_id          INTEGER NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			contact_id           INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
			platform             VARCHAR(50) NOT NULL,
			personalized_content TEXT NOT NULL,
			status               VARCHAR(50) NOT NULL DEFAULT 'pending',
			sent_at              TIMESTAMPTZ,
			opened_at            TIMESTAMPTZ,
			replied_at           TIMESTAMPTZ,
			CONSTRAINT unique_campaign_message UNIQUE (campaign_id, business_id, contact_id, platform)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
