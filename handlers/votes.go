// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ARRNAV26/Voting-System/cliparse"
	"github.com/ARRNAV26/Voting-System/hub"
	"github.com/ARRNAV26/Voting-System/middleware"
	"github.com/ARRNAV26/Voting-System/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub *hub.Hub
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config, h *hub.Hub) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, hub: h}
}

// Cast handles POST /votes - create or change a vote on a suggestion.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.MustUser(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SuggestionID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "suggestion_id is required")
		return
	}

	var authorID int64
	err := h.db.QueryRow(`
		SELECT author_id FROM suggestions WHERE id = $1
	`, req.SuggestionID).Scan(&authorID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Suggestion not found")
		return
	}
	if err != nil {
		slog.Error("failed to query suggestion", "error", err, "suggestion_id", req.SuggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if authorID == user.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Cannot vote on your own suggestion")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Upsert: change the existing vote or create a new one.
	var voteID int64
	err = tx.QueryRow(`
		SELECT id FROM votes WHERE user_id = $1 AND suggestion_id = $2
	`, user.ID, req.SuggestionID).Scan(&voteID)
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(`
			INSERT INTO votes (user_id, suggestion_id, is_upvote, created_at)
			VALUES ($1, $2, $3, $4)
		`, user.ID, req.SuggestionID, req.IsUpvote, time.Now().UTC())
	case err == nil:
		_, err = tx.Exec(`
			UPDATE votes SET is_upvote = $1 WHERE id = $2
		`, req.IsUpvote, voteID)
	}
	if err != nil {
		slog.Error("failed to save vote", "error", err, "suggestion_id", req.SuggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	count, version, err := bumpAndCount(tx, req.SuggestionID)
	if err != nil {
		slog.Error("failed to update vote count", "error", err, "suggestion_id", req.SuggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	isUpvote := req.IsUpvote
	slog.Info("vote recorded", "suggestion_id", req.SuggestionID, "user_id", user.ID, "upvote", isUpvote, "version", version)

	h.hub.BroadcastVoteUpdate(models.VoteUpdate{
		SuggestionID: req.SuggestionID,
		NewVoteCount: count,
		Version:      version,
		ActorID:      user.ID,
		UserVote:     &isUpvote,
	})

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Message:      "Vote recorded successfully",
		SuggestionID: req.SuggestionID,
		VoteCount:    count,
		UserVote:     &isUpvote,
		Version:      version,
	})
}

// Remove handles DELETE /votes/{id} - withdraw the caller's vote.
func (h *VoteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.MustUser(w, r)
	if !ok {
		return
	}

	suggestionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid suggestion id")
		return
	}

	var exists bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM suggestions WHERE id = $1)
	`, suggestionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query suggestion", "error", err, "suggestion_id", suggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Suggestion not found")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var voteID int64
	err = tx.QueryRow(`
		SELECT id FROM votes WHERE user_id = $1 AND suggestion_id = $2
	`, user.ID, suggestionID).Scan(&voteID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No vote found for this suggestion")
		return
	}
	if err != nil {
		slog.Error("failed to query vote", "error", err, "suggestion_id", suggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if _, err := tx.Exec(`DELETE FROM votes WHERE id = $1`, voteID); err != nil {
		slog.Error("failed to delete vote", "error", err, "suggestion_id", suggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove vote")
		return
	}

	count, version, err := bumpAndCount(tx, suggestionID)
	if err != nil {
		slog.Error("failed to update vote count", "error", err, "suggestion_id", suggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote removal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove vote")
		return
	}

	slog.Info("vote removed", "suggestion_id", suggestionID, "user_id", user.ID, "version", version)

	h.hub.BroadcastVoteUpdate(models.VoteUpdate{
		SuggestionID: suggestionID,
		NewVoteCount: count,
		Version:      version,
		ActorID:      user.ID,
		UserVote:     nil,
	})

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Message:      "Vote removed successfully",
		SuggestionID: suggestionID,
		VoteCount:    count,
		UserVote:     nil,
		Version:      version,
	})
}

// Info handles GET /votes/{id} - the caller's vote and the current count.
func (h *VoteHandler) Info(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.MustUser(w, r)
	if !ok {
		return
	}

	suggestionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid suggestion id")
		return
	}

	var version int64
	err = h.db.QueryRow(`
		SELECT version FROM suggestions WHERE id = $1
	`, suggestionID).Scan(&version)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Suggestion not found")
		return
	}
	if err != nil {
		slog.Error("failed to query suggestion", "error", err, "suggestion_id", suggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var userVote *bool
	var isUpvote bool
	err = h.db.QueryRow(`
		SELECT is_upvote FROM votes WHERE user_id = $1 AND suggestion_id = $2
	`, user.ID, suggestionID).Scan(&isUpvote)
	if err == nil {
		userVote = &isUpvote
	} else if err != sql.ErrNoRows {
		slog.Error("failed to query vote", "error", err, "suggestion_id", suggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	count, err := countVotes(h.db, suggestionID)
	if err != nil {
		slog.Error("failed to count votes", "error", err, "suggestion_id", suggestionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		SuggestionID: suggestionID,
		VoteCount:    count,
		UserVote:     userVote,
		Version:      version,
	})
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func countVotes(q querier, suggestionID int64) (int, error) {
	var count int
	err := q.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN is_upvote THEN 1 ELSE -1 END), 0)
		FROM votes WHERE suggestion_id = $1
	`, suggestionID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return clampCount(count), nil
}

// bumpAndCount increments the suggestion's write version and returns the
// clamped aggregate count, both within the caller's transaction so that the
// (count, version) pair broadcast to clients is consistent.
func bumpAndCount(tx *sql.Tx, suggestionID int64) (count int, version int64, err error) {
	err = tx.QueryRow(`
		UPDATE suggestions SET version = version + 1, updated_at = $1 WHERE id = $2
		RETURNING version
	`, time.Now().UTC(), suggestionID).Scan(&version)
	if err != nil {
		return 0, 0, err
	}
	count, err = countVotes(tx, suggestionID)
	return count, version, err
}
