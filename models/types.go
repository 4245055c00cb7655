// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Suggestion status constants
const (
	StatusActive      = "active"
	StatusImplemented = "implemented"
	StatusRejected    = "rejected"
)

// VoteState is a user's current vote on one suggestion.
type VoteState int

const (
	VoteNone VoteState = iota
	VoteUp
	VoteDown
)

func (v VoteState) String() string {
	switch v {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "none"
	}
}

// VoteStateOf converts the wire representation (true/false/null) to a VoteState.
func VoteStateOf(isUpvote *bool) VoteState {
	switch {
	case isUpvote == nil:
		return VoteNone
	case *isUpvote:
		return VoteUp
	default:
		return VoteDown
	}
}

// Request types

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateSuggestionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type CastVoteRequest struct {
	SuggestionID int64 `json:"suggestion_id"`
	IsUpvote     bool  `json:"is_upvote"`
}

type TransitionStatusRequest struct {
	Status string `json:"status"`
}

// Response types

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// VoteResponse is the authoritative post-write vote aggregate, returned
// synchronously from the vote endpoints. The same values go out on the push
// channel as a vote_update frame.
type VoteResponse struct {
	Message      string `json:"message,omitempty"`
	SuggestionID int64  `json:"suggestion_id"`
	VoteCount    int    `json:"vote_count"`
	UserVote     *bool  `json:"user_vote"`
	Version      int64  `json:"version"`
}

type CategoryStat struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Suggestion struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	AuthorID    int64      `json:"author_id"`
	VoteCount   int        `json:"vote_count"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Author      User       `json:"author"`
}

type Vote struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	SuggestionID int64     `json:"suggestion_id"`
	IsUpvote     bool      `json:"is_upvote"`
	CreatedAt    time.Time `json:"created_at"`
}
