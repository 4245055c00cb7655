// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration.

Settings are resolved in order of precedence: CLI flags, environment
variables, an optional YAML config file (-config), built-in defaults.

	JWT_SECRET=... go run . -p 8000 -t sqlite -d voting_system.db

Required settings:

  - JWT_SECRET (--jwt-secret): access token signing secret

Optional settings:

  - PORT (-p): server port (default 8000)
  - DATABASE_URL (-d): DSN or sqlite file path (default voting_system.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default sqlite)
  - ACCESS_TOKEN_TTL_MINUTES: token lifetime (default 30)
*/
package cliparse
