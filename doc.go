// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Voting-System API server.

Voting-System is a real-time suggestion-voting service: members propose
items, cast one vote each, and every connected client converges on the same
tally through a websocket push channel broadcasting incremental deltas.

# Starting the Server

The server requires a token signing secret via environment variable, CLI
flag, or .env file:

	JWT_SECRET=supersecret go run .

Or with flags:

	go run . -p 8000 -t sqlite -d voting_system.db --jwt-secret supersecret

# Configuration

Required settings:

  - JWT_SECRET (--jwt-secret): access token signing secret

Optional settings:

  - PORT (-p): server port (default: 8000)
  - DATABASE_URL (-d): connection string or sqlite file path
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ACCESS_TOKEN_TTL_MINUTES: token lifetime (default: 30)
  - -config: optional YAML config file

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (users, suggestions, votes, websocket)
  - hub: websocket connection registry and delta broadcasting
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, bearer auth
  - models: domain, request/response, and push-frame types
  - auth: password hashing and JWT access tokens
  - db: connection and schema creation
  - cliparse: configuration parsing

Client-side packages consume the same API:

  - client: snapshot loads and write operations over HTTP
  - realtime: the push channel client with reconnect
  - engine: the canonical in-memory collection and merge policy
  - view: filtered/searched/sorted projections for presentation

See package documentation for each component.
*/
package main
