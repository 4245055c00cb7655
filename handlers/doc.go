// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voting API.

# Handler Types

Each handler is a struct with database, config, and (where it broadcasts)
hub dependencies:

  - UserHandler: registration, login, current user
  - SuggestionHandler: listing, creation, status transitions
  - VoteHandler: vote cast/change, removal, vote info
  - WSHandler: websocket upgrade for the push channel

Handlers are created via constructor functions:

	suggestionHandler := handlers.NewSuggestionHandler(db, cfg, h)

# Authentication

All suggestion and vote endpoints require a bearer token issued by
POST /auth/login; the router wraps them with middleware.RequireAuth.

# Write Versioning

Every authoritative write to a suggestion (vote change, status transition)
increments its version column inside the write transaction. Responses and
broadcast frames carry the version so clients can discard updates that
arrive out of order.

# Push Broadcasts

Write handlers publish deltas through the hub after committing:

	vote cast / removed    → vote_update{suggestion_id, new_vote_count, version, actor_id, user_vote}
	status transition      → suggestion_update{suggestion}
	suggestion created     → new_suggestion{suggestion}

# Status Lifecycle

Suggestions start active and may be moved by their author to implemented or
rejected exactly once:

	PATCH /suggestions/{id}/status

A transition on a non-active suggestion yields 409 Conflict; a non-author
caller gets 403 Forbidden. Voting on your own suggestion is also 403.
*/
package handlers
