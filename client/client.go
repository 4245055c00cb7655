// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/ARRNAV26/Voting-System/engine"
	"github.com/ARRNAV26/Voting-System/models"
)

// Sentinel errors mapped from HTTP status codes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// ErrVoteInFlight is returned when a vote mutation for the same
	// suggestion is still waiting on the server.
	ErrVoteInFlight = errors.New("vote already in flight")
)

// ValidationError is a 400 response or a locally rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Session is the explicit per-client context: where to talk, as whom.
// Nothing in this package reads ambient state, two sessions for different
// users can live in one process.
type Session struct {
	BaseURL string
	Token   string
	ActorID int64
}

// Client issues authenticated mutations and reads against the REST API.
type Client struct {
	session Session
	http    *http.Client

	mu       sync.Mutex
	inflight map[int64]bool
}

// New creates a client for the session. httpClient may be nil, in which case
// a client with a 15 second timeout is used.
func New(session Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		session:  session,
		http:     httpClient,
		inflight: make(map[int64]bool),
	}
}

// Session returns the session this client was created with.
func (c *Client) Session() Session { return c.session }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.session.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// statusError maps an error response to the package's sentinel errors,
// preserving the server's message.
func statusError(resp *http.Response) error {
	var body models.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &ValidationError{Message: msg}
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	default:
		return fmt.Errorf("server error: %d %s", resp.StatusCode, msg)
	}
}

// Suggestions fetches the suggestion list. Zero-valued options are omitted.
type ListOptions struct {
	Category string
	Status   string
	Limit    int
	Skip     int
}

func (c *Client) Suggestions(ctx context.Context, opts ListOptions) ([]models.Suggestion, error) {
	q := url.Values{}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		q.Set("skip", strconv.Itoa(opts.Skip))
	}

	path := "/suggestions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []models.Suggestion
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TopSuggestions fetches the leaderboard.
func (c *Client) TopSuggestions(ctx context.Context, limit int) ([]models.Suggestion, error) {
	path := "/suggestions/top"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []models.Suggestion
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories fetches per-category suggestion counts.
func (c *Client) Categories(ctx context.Context) ([]models.CategoryStat, error) {
	var out []models.CategoryStat
	if err := c.do(ctx, http.MethodGet, "/suggestions/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Suggestion fetches one suggestion by id.
func (c *Client) Suggestion(ctx context.Context, id int64) (models.Suggestion, error) {
	var out models.Suggestion
	if err := c.do(ctx, http.MethodGet, "/suggestions/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return models.Suggestion{}, err
	}
	return out, nil
}

// CreateSuggestion submits a new suggestion. Empty title or description are
// rejected locally before any request is made.
func (c *Client) CreateSuggestion(ctx context.Context, req models.CreateSuggestionRequest) (models.Suggestion, error) {
	if req.Title == "" {
		return models.Suggestion{}, &ValidationError{Message: "title is required"}
	}
	if req.Description == "" {
		return models.Suggestion{}, &ValidationError{Message: "description is required"}
	}
	if req.Category == "" {
		return models.Suggestion{}, &ValidationError{Message: "category is required"}
	}

	var out models.Suggestion
	if err := c.do(ctx, http.MethodPost, "/suggestions", req, &out); err != nil {
		return models.Suggestion{}, err
	}
	return out, nil
}

// CastVote submits an up or down vote and returns the authoritative result.
func (c *Client) CastVote(ctx context.Context, suggestionID int64, isUpvote bool) (models.VoteResponse, error) {
	var out models.VoteResponse
	err := c.do(ctx, http.MethodPost, "/votes",
		models.CastVoteRequest{SuggestionID: suggestionID, IsUpvote: isUpvote}, &out)
	if err != nil {
		return models.VoteResponse{}, err
	}
	return out, nil
}

// RemoveVote retracts the actor's vote on a suggestion.
func (c *Client) RemoveVote(ctx context.Context, suggestionID int64) (models.VoteResponse, error) {
	var out models.VoteResponse
	err := c.do(ctx, http.MethodDelete, "/votes/"+strconv.FormatInt(suggestionID, 10), nil, &out)
	if err != nil {
		return models.VoteResponse{}, err
	}
	return out, nil
}

// VoteInfo fetches the actor's current vote state on a suggestion.
func (c *Client) VoteInfo(ctx context.Context, suggestionID int64) (models.VoteResponse, error) {
	var out models.VoteResponse
	err := c.do(ctx, http.MethodGet, "/votes/"+strconv.FormatInt(suggestionID, 10), nil, &out)
	if err != nil {
		return models.VoteResponse{}, err
	}
	return out, nil
}

// TransitionStatus moves a suggestion the actor authored to a terminal
// status ("implemented" or "rejected").
func (c *Client) TransitionStatus(ctx context.Context, suggestionID int64, status string) (models.Suggestion, error) {
	var out models.Suggestion
	err := c.do(ctx, http.MethodPatch,
		"/suggestions/"+strconv.FormatInt(suggestionID, 10)+"/status",
		models.TransitionStatusRequest{Status: status}, &out)
	if err != nil {
		return models.Suggestion{}, err
	}
	return out, nil
}

// beginVote marks a suggestion as having a vote mutation in flight.
func (c *Client) beginVote(suggestionID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[suggestionID] {
		return ErrVoteInFlight
	}
	c.inflight[suggestionID] = true
	return nil
}

func (c *Client) endVote(suggestionID int64) {
	c.mu.Lock()
	delete(c.inflight, suggestionID)
	c.mu.Unlock()
}

// Vote is the two-phase vote flow against a store: send the mutation, and
// only on success fold the confirmed result into the replica. Nothing is
// applied optimistically, so a failed request leaves the replica untouched.
// A second vote for the same suggestion while one is pending returns
// ErrVoteInFlight.
func (c *Client) Vote(ctx context.Context, store *engine.Store, suggestionID int64, isUpvote bool) error {
	if err := c.beginVote(suggestionID); err != nil {
		return err
	}
	defer c.endVote(suggestionID)

	resp, err := c.CastVote(ctx, suggestionID, isUpvote)
	if err != nil {
		return err
	}
	store.ApplyLocalVoteResult(resp.SuggestionID, resp.VoteCount, resp.Version, models.VoteStateOf(resp.UserVote))
	return nil
}

// Unvote retracts the actor's vote through the same two-phase flow as Vote.
func (c *Client) Unvote(ctx context.Context, store *engine.Store, suggestionID int64) error {
	if err := c.beginVote(suggestionID); err != nil {
		return err
	}
	defer c.endVote(suggestionID)

	resp, err := c.RemoveVote(ctx, suggestionID)
	if err != nil {
		return err
	}
	store.ApplyLocalVoteResult(resp.SuggestionID, resp.VoteCount, resp.Version, models.VoteNone)
	return nil
}

// LoadInto fetches a full snapshot and installs it in the store under the
// snapshot generation guard: if another LoadInto began after this one, the
// older response is discarded.
func (c *Client) LoadInto(ctx context.Context, store *engine.Store, opts ListOptions) error {
	gen := store.BeginLoad()
	suggestions, err := c.Suggestions(ctx, opts)
	if err != nil {
		return err
	}
	store.LoadSnapshot(gen, suggestions)
	return nil
}
