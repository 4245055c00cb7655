// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain, and push-frame types.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: username, email, password
  - LoginRequest: username, password
  - CreateSuggestionRequest: title, description, category
  - CastVoteRequest: suggestion_id, is_upvote
  - TransitionStatusRequest: status

# Response Types

Types for JSON responses:

  - TokenResponse: access_token, token_type
  - VoteResponse: suggestion_id, vote_count, user_vote, version
  - CategoryStat: category, count
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: registered account
  - Suggestion: proposed entry with aggregate vote count, write version,
    and a terminal status lifecycle (active → implemented | rejected)
  - Vote: one user's vote on one suggestion
  - VoteState: tri-state (up, down, none) view of a user's own vote

# Push Frames

Frame is the envelope for every websocket message, discriminated by Type:

	vote_update, suggestion_update, new_suggestion,
	connection_established, error, ping, pong, subscribe, subscribed

Typed payloads (VoteUpdate, SuggestionUpdate) are decoded from Frame.Data.
Unknown frame types must be ignored by receivers.
*/
package models
