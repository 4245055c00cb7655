// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// driverType is "sqlite" or "postgres"; the two dialects differ only in how
// auto-incrementing primary keys are declared.
func CreateSchema(db *sql.DB, driverType string) error {
	idType := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driverType == "postgres" {
		idType = "BIGSERIAL PRIMARY KEY"
	}

	_, err := db.Exec(strings.ReplaceAll(schema, "{{ID}}", idType))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id {{ID}},
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    hashed_password TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

-- Suggestions
-- version is bumped on every authoritative write (vote change, status
-- transition) and rides along on all responses and push frames so that
-- clients can discard stale updates.
CREATE TABLE IF NOT EXISTS suggestions (
    id {{ID}},
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'implemented', 'rejected')),
    author_id BIGINT NOT NULL REFERENCES users(id),
    version BIGINT NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_suggestions_category ON suggestions(category);
CREATE INDEX IF NOT EXISTS idx_suggestions_status ON suggestions(status);
CREATE INDEX IF NOT EXISTS idx_suggestions_author_id ON suggestions(author_id);

-- Votes
CREATE TABLE IF NOT EXISTS votes (
    id {{ID}},
    user_id BIGINT NOT NULL REFERENCES users(id),
    suggestion_id BIGINT NOT NULL REFERENCES suggestions(id),
    is_upvote BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, suggestion_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_suggestion_id ON votes(suggestion_id);
`
