// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Schema

Three tables:

  - users: accounts with unique username and email
  - suggestions: proposed entries with status lifecycle and write version
  - votes: one row per (user, suggestion), upvote or downvote

# Usage

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	...
	err = db.CreateSchema(conn, cfg.DatabaseType)

Both sqlite (embedded, via modernc.org/sqlite) and postgres (via lib/pq) are
supported. Queries throughout the codebase use $1-style placeholders, which
both drivers bind positionally as long as each placeholder appears exactly
once and in order.
*/
package db
