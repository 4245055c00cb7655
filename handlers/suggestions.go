// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ARRNAV26/Voting-System/cliparse"
	"github.com/ARRNAV26/Voting-System/hub"
	"github.com/ARRNAV26/Voting-System/middleware"
	"github.com/ARRNAV26/Voting-System/models"
)

type SuggestionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub *hub.Hub
}

func NewSuggestionHandler(db *sql.DB, cfg cliparse.Config, h *hub.Hub) *SuggestionHandler {
	return &SuggestionHandler{db: db, cfg: cfg, hub: h}
}

// voteCountExpr computes the aggregate count (upvotes minus downvotes) for
// the suggestion row under the alias s. Clamping to zero happens in Go.
const voteCountExpr = `COALESCE((
	SELECT SUM(CASE WHEN v.is_upvote THEN 1 ELSE -1 END)
	FROM votes v WHERE v.suggestion_id = s.id
), 0) AS vote_count`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func suggestionQuery() sq.SelectBuilder {
	return psql.Select(
		"s.id", "s.title", "s.description", "s.category", "s.status",
		"s.author_id", "s.version", "s.created_at", "s.updated_at",
		voteCountExpr,
		"u.id", "u.username", "u.email", "u.is_active", "u.created_at",
	).
		From("suggestions s").
		Join("users u ON u.id = s.author_id")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSuggestion(row rowScanner) (models.Suggestion, error) {
	var (
		s         models.Suggestion
		updatedAt sql.NullTime
		rawCount  int
	)
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.Category, &s.Status,
		&s.AuthorID, &s.Version, &s.CreatedAt, &updatedAt,
		&rawCount,
		&s.Author.ID, &s.Author.Username, &s.Author.Email, &s.Author.IsActive, &s.Author.CreatedAt,
	)
	if err != nil {
		return models.Suggestion{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		s.UpdatedAt = &t
	}
	s.VoteCount = clampCount(rawCount)
	return s, nil
}

// clampCount keeps displayed vote counts non-negative even when downvotes
// outnumber upvotes.
func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// List handles GET /suggestions with optional category, status, skip, and
// limit query parameters. When limit is set, results are ordered by vote
// count descending (leaderboard); otherwise by creation time descending.
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := suggestionQuery()

	if category := r.URL.Query().Get("category"); category != "" {
		q = q.Where(sq.Eq{"s.category": category})
	}
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where(sq.Eq{"s.status": status})
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < 1 || n > 100 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be 1-100")
			return
		}
		limit = n
	}

	if limit > 0 {
		q = q.OrderBy("vote_count DESC", "s.created_at DESC").Limit(uint64(limit))
	} else {
		q = q.OrderBy("s.created_at DESC").Limit(100)
	}

	if rawSkip := r.URL.Query().Get("skip"); rawSkip != "" {
		n, err := strconv.Atoi(rawSkip)
		if err != nil || n < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "skip must be >= 0")
			return
		}
		q = q.Offset(uint64(n))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		slog.Error("failed to build suggestions query", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
		return
	}

	rows, err := h.db.Query(sqlStr, args...)
	if err != nil {
		slog.Error("failed to query suggestions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	suggestions := make([]models.Suggestion, 0)
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			slog.Error("failed to scan suggestion", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read suggestions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, suggestions)
}

// Top handles GET /suggestions/top
func (h *SuggestionHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < 1 || n > 50 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be 1-50")
			return
		}
		limit = n
	}

	sqlStr, args, err := suggestionQuery().
		OrderBy("vote_count DESC", "s.created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		slog.Error("failed to build top query", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
		return
	}

	rows, err := h.db.Query(sqlStr, args...)
	if err != nil {
		slog.Error("failed to query top suggestions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	suggestions := make([]models.Suggestion, 0, limit)
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			slog.Error("failed to scan suggestion", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read top suggestions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, suggestions)
}

// Categories handles GET /suggestions/categories
func (h *SuggestionHandler) Categories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT category, COUNT(*) FROM suggestions GROUP BY category ORDER BY category
	`)
	if err != nil {
		slog.Error("failed to query categories", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	stats := make([]models.CategoryStat, 0)
	for rows.Next() {
		var cs models.CategoryStat
		if err := rows.Scan(&cs.Category, &cs.Count); err != nil {
			slog.Error("failed to scan category", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		stats = append(stats, cs)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read categories", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// Get handles GET /suggestions/{id}
func (h *SuggestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid suggestion id")
		return
	}

	s, err := h.getSuggestion(id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Suggestion not found")
		return
	}
	if err != nil {
		slog.Error("failed to query suggestion", "error", err, "suggestion_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, s)
}

func (h *SuggestionHandler) getSuggestion(id int64) (models.Suggestion, error) {
	sqlStr, args, err := suggestionQuery().Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return models.Suggestion{}, err
	}
	return scanSuggestion(h.db.QueryRow(sqlStr, args...))
}

// Create handles POST /suggestions
func (h *SuggestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.MustUser(w, r)
	if !ok {
		return
	}

	var req models.CreateSuggestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Title) > 200 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title must be at most 200 characters")
		return
	}
	if req.Description == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.Category == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category is required")
		return
	}

	s := models.Suggestion{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.StatusActive,
		AuthorID:    user.ID,
		Version:     1,
		CreatedAt:   time.Now().UTC(),
		Author:      user,
	}
	err := h.db.QueryRow(`
		INSERT INTO suggestions (title, description, category, status, author_id, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, s.Title, s.Description, s.Category, s.Status, s.AuthorID, s.Version, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		slog.Error("failed to insert suggestion", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create suggestion")
		return
	}

	slog.Info("suggestion created", "suggestion_id", s.ID, "author_id", user.ID, "category", s.Category)

	// The creator receives both this response and the broadcast; clients
	// dedupe by suggestion id.
	h.hub.BroadcastNewSuggestion(s)

	middleware.JSONResponse(w, http.StatusCreated, s)
}

// TransitionStatus handles PATCH /suggestions/{id}/status
func (h *SuggestionHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.MustUser(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid suggestion id")
		return
	}

	var req models.TransitionStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Status != models.StatusImplemented && req.Status != models.StatusRejected {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be 'implemented' or 'rejected'")
		return
	}

	var authorID int64
	var status string
	err = h.db.QueryRow(`
		SELECT author_id, status FROM suggestions WHERE id = $1
	`, id).Scan(&authorID, &status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Suggestion not found")
		return
	}
	if err != nil {
		slog.Error("failed to query suggestion", "error", err, "suggestion_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if authorID != user.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the author can update this suggestion's status")
		return
	}
	if status != models.StatusActive {
		middleware.ErrorResponse(w, http.StatusConflict, "Only active suggestions can be updated")
		return
	}

	// Guarded update: the status filter makes the active -> terminal
	// transition race-safe even with a concurrent transition attempt.
	var version int64
	err = h.db.QueryRow(`
		UPDATE suggestions SET status = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND status = 'active'
		RETURNING version
	`, req.Status, time.Now().UTC(), id).Scan(&version)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusConflict, "Only active suggestions can be updated")
		return
	}
	if err != nil {
		slog.Error("failed to update status", "error", err, "suggestion_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	s, err := h.getSuggestion(id)
	if err != nil {
		slog.Error("failed to reload suggestion", "error", err, "suggestion_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("suggestion status updated", "suggestion_id", id, "status", req.Status, "version", version)
	h.hub.BroadcastSuggestionUpdate(s)

	middleware.JSONResponse(w, http.StatusOK, s)
}
