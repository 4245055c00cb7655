// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/ARRNAV26/Voting-System/cliparse"
	"github.com/ARRNAV26/Voting-System/handlers"
	"github.com/ARRNAV26/Voting-System/hub"
	"github.com/ARRNAV26/Voting-System/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, h *hub.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	suggestionHandler := handlers.NewSuggestionHandler(db, cfg, h)
	voteHandler := handlers.NewVoteHandler(db, cfg, h)
	wsHandler := handlers.NewWSHandler(cfg, h)

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(db, cfg.JWTSecret, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(userHandler.Login))
	mux.HandleFunc("GET /auth/me", authed(userHandler.Me))

	// Suggestions
	mux.HandleFunc("GET /suggestions", authed(suggestionHandler.List))
	mux.HandleFunc("GET /suggestions/top", authed(suggestionHandler.Top))
	mux.HandleFunc("GET /suggestions/categories", authed(suggestionHandler.Categories))
	mux.HandleFunc("GET /suggestions/{id}", authed(suggestionHandler.Get))
	mux.HandleFunc("POST /suggestions", authed(suggestionHandler.Create))
	mux.HandleFunc("PATCH /suggestions/{id}/status", authed(suggestionHandler.TransitionStatus))

	// Votes
	mux.HandleFunc("POST /votes", authed(voteHandler.Cast))
	mux.HandleFunc("DELETE /votes/{id}", authed(voteHandler.Remove))
	mux.HandleFunc("GET /votes/{id}", authed(voteHandler.Info))

	// Push channel (token is checked inside the handler; websocket clients
	// cannot set an Authorization header)
	mux.HandleFunc("GET /ws/{id}", wsHandler.Connect)

	// Root endpoint. "GET /" is the mux catch-all, so unknown paths land
	// here and get a 404.
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("voting-system API v1"))
	})

	return mux
}
