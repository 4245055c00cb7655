// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ARRNAV26/Voting-System/engine"
	"github.com/ARRNAV26/Voting-System/middleware"
	"github.com/ARRNAV26/Voting-System/models"
)

func newTestClient(srv *httptest.Server) *Client {
	return New(Session{BaseURL: srv.URL, Token: "test-token", ActorID: 1}, srv.Client())
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		message  string
		expected error
	}{
		{name: "401 unauthorized", status: http.StatusUnauthorized, message: "Invalid or expired token", expected: ErrUnauthorized},
		{name: "403 forbidden", status: http.StatusForbidden, message: "Cannot vote on your own suggestion", expected: ErrForbidden},
		{name: "404 not found", status: http.StatusNotFound, message: "Suggestion not found", expected: ErrNotFound},
		{name: "409 conflict", status: http.StatusConflict, message: "Only active suggestions can be updated", expected: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				middleware.ErrorResponse(w, tt.status, tt.message)
			}))
			defer srv.Close()

			c := newTestClient(srv)
			_, err := c.CastVote(context.Background(), 1, true)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestValidationErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.CreateSuggestion(context.Background(), models.CreateSuggestionRequest{
		Title: "x", Description: "y", Category: "z",
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if ve.Message != "title is required" {
		t.Errorf("Expected server message preserved, got %q", ve.Message)
	}
}

func TestCreateSuggestionLocalValidation(t *testing.T) {
	// No server: local validation must reject before any request is made.
	c := New(Session{BaseURL: "http://localhost:1", ActorID: 1}, nil)

	tests := []struct {
		name string
		req  models.CreateSuggestionRequest
	}{
		{name: "empty title", req: models.CreateSuggestionRequest{Description: "d", Category: "c"}},
		{name: "empty description", req: models.CreateSuggestionRequest{Title: "t", Category: "c"}},
		{name: "empty category", req: models.CreateSuggestionRequest{Title: "t", Description: "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateSuggestion(context.Background(), tt.req)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestRequestCarriesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		middleware.JSONResponse(w, http.StatusOK, []models.Suggestion{})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if _, err := c.Suggestions(context.Background(), ListOptions{}); err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Expected bearer token header, got %q", gotAuth)
	}
}

func TestVoteAppliesResultOnSuccess(t *testing.T) {
	up := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
			SuggestionID: 1, VoteCount: 3, Version: 5, UserVote: &up,
		})
	}))
	defer srv.Close()

	store := engine.NewStore(1)
	gen := store.BeginLoad()
	store.LoadSnapshot(gen, []models.Suggestion{{ID: 1, Title: "First", VoteCount: 2, Version: 4}})

	c := newTestClient(srv)
	if err := c.Vote(context.Background(), store, 1, true); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}

	s, _ := store.Suggestion(1)
	if s.VoteCount != 3 || s.Version != 5 {
		t.Errorf("Expected count=3 version=5, got count=%d version=%d", s.VoteCount, s.Version)
	}
	if store.ActorVote(1) != models.VoteUp {
		t.Errorf("Expected actor vote up, got %v", store.ActorVote(1))
	}
}

func TestVoteDoesNotTouchStoreOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Cannot vote on your own suggestion")
	}))
	defer srv.Close()

	store := engine.NewStore(1)
	gen := store.BeginLoad()
	store.LoadSnapshot(gen, []models.Suggestion{{ID: 1, Title: "Mine", VoteCount: 2, Version: 4}})

	c := newTestClient(srv)
	err := c.Vote(context.Background(), store, 1, true)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}

	s, _ := store.Suggestion(1)
	if s.VoteCount != 2 || s.Version != 4 {
		t.Errorf("Expected replica untouched, got count=%d version=%d", s.VoteCount, s.Version)
	}
	if store.ActorVote(1) != models.VoteNone {
		t.Errorf("Expected no actor vote, got %v", store.ActorVote(1))
	}
}

func TestVoteInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	up := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
			SuggestionID: 1, VoteCount: 1, Version: 2, UserVote: &up,
		})
	}))
	defer srv.Close()

	store := engine.NewStore(1)
	gen := store.BeginLoad()
	store.LoadSnapshot(gen, []models.Suggestion{{ID: 1, Title: "First", Version: 1}})

	c := newTestClient(srv)

	var wg sync.WaitGroup
	wg.Add(1)
	firstErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		firstErr <- c.Vote(context.Background(), store, 1, true)
	}()

	// Wait until the first vote is registered as in flight.
	deadline := time.Now().Add(2 * time.Second)
	for {
		c.mu.Lock()
		pending := c.inflight[1]
		c.mu.Unlock()
		if pending {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("First vote never became in flight")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := c.Vote(context.Background(), store, 1, false); !errors.Is(err, ErrVoteInFlight) {
		t.Errorf("Expected ErrVoteInFlight, got %v", err)
	}

	close(release)
	wg.Wait()
	if err := <-firstErr; err != nil {
		t.Errorf("Expected first vote to succeed, got %v", err)
	}

	// The guard clears once the mutation settles.
	if err := c.Vote(context.Background(), store, 1, false); err != nil {
		t.Errorf("Expected follow-up vote to succeed, got %v", err)
	}
}

func TestUnvoteClearsActorVote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got %s", r.Method)
		}
		middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
			SuggestionID: 1, VoteCount: 0, Version: 3, UserVote: nil,
		})
	}))
	defer srv.Close()

	store := engine.NewStore(1)
	gen := store.BeginLoad()
	store.LoadSnapshot(gen, []models.Suggestion{{ID: 1, Title: "First", VoteCount: 1, Version: 2}})
	store.ApplyLocalVoteResult(1, 1, 2, models.VoteUp)

	c := newTestClient(srv)
	if err := c.Unvote(context.Background(), store, 1); err != nil {
		t.Fatalf("Unvote failed: %v", err)
	}

	if store.ActorVote(1) != models.VoteNone {
		t.Errorf("Expected actor vote cleared, got %v", store.ActorVote(1))
	}
	s, _ := store.Suggestion(1)
	if s.VoteCount != 0 || s.Version != 3 {
		t.Errorf("Expected count=0 version=3, got count=%d version=%d", s.VoteCount, s.Version)
	}
}

func TestSuggestionsQueryParameters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		middleware.JSONResponse(w, http.StatusOK, []models.Suggestion{})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Suggestions(context.Background(), ListOptions{Category: "ui", Status: "active", Limit: 20, Skip: 5})
	if err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}
	if gotQuery != "category=ui&limit=20&skip=5&status=active" {
		t.Errorf("Unexpected query string: %q", gotQuery)
	}
}

func TestLoadInto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, []models.Suggestion{
			{ID: 1, Title: "First", VoteCount: 2, Version: 3},
			{ID: 2, Title: "Second", VoteCount: 0, Version: 1},
		})
	}))
	defer srv.Close()

	store := engine.NewStore(1)
	c := newTestClient(srv)
	if err := c.LoadInto(context.Background(), store, ListOptions{}); err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}

	if store.Len() != 2 {
		t.Errorf("Expected 2 suggestions loaded, got %d", store.Len())
	}
}
