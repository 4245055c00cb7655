// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "encoding/json"

// Push frame type discriminators. Frames with an unrecognized type must be
// ignored by receivers so that new frame types can be introduced without
// breaking older clients.
const (
	FrameVoteUpdate            = "vote_update"
	FrameSuggestionUpdate      = "suggestion_update"
	FrameNewSuggestion         = "new_suggestion"
	FrameConnectionEstablished = "connection_established"
	FrameError                 = "error"
	FramePing                  = "ping"
	FramePong                  = "pong"
	FrameSubscribe             = "subscribe"
	FrameSubscribed            = "subscribed"
)

// Frame is the envelope for every message on the push channel, in both
// directions. Data is decoded further based on Type.
type Frame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
	UserID    int64           `json:"user_id,omitempty"`
}

// VoteUpdate is the payload of a vote_update frame. Version is the
// suggestion's monotonic write version; receivers must discard updates whose
// version is not newer than the one they already hold. ActorID identifies the
// user whose vote changed, so each client can decide whether UserVote is its
// own.
type VoteUpdate struct {
	SuggestionID int64 `json:"suggestion_id"`
	NewVoteCount int   `json:"new_vote_count"`
	Version      int64 `json:"version"`
	ActorID      int64 `json:"actor_id"`
	UserVote     *bool `json:"user_vote"`
}

// SuggestionUpdate is the payload of a suggestion_update frame: a full
// replacement of one suggestion record.
type SuggestionUpdate struct {
	Suggestion Suggestion `json:"suggestion"`
}

// NewFrame builds a frame whose payload marshals from data. Marshal errors
// are impossible for the payload types used here, so they are ignored.
func NewFrame(frameType string, data any) Frame {
	raw, _ := json.Marshal(data)
	return Frame{Type: frameType, Data: raw}
}
