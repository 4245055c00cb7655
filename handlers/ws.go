// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ARRNAV26/Voting-System/auth"
	"github.com/ARRNAV26/Voting-System/cliparse"
	"github.com/ARRNAV26/Voting-System/hub"
	"github.com/ARRNAV26/Voting-System/middleware"
	"github.com/ARRNAV26/Voting-System/models"
)

const (
	// If nothing arrives within readWait the peer is considered gone.
	// Clients send application-level pings well inside this window.
	readWait       = 90 * time.Second
	maxMessageSize = 4096
)

type WSHandler struct {
	cfg cliparse.Config
	hub *hub.Hub

	upgrader websocket.Upgrader
}

func NewWSHandler(cfg cliparse.Config, h *hub.Hub) *WSHandler {
	return &WSHandler{
		cfg: cfg,
		hub: h,
		upgrader: websocket.Upgrader{
			// Cross-origin policy is handled by the CORS middleware for the
			// REST surface; browsers connect to the push endpoint from the
			// frontend origin directly.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect handles GET /ws/{id} - upgrade to a websocket push connection for
// the given user. The bearer token is passed as a query parameter because
// browser websocket clients cannot set headers.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "token query parameter required")
		return
	}
	tokenUserID, err := auth.ValidateAccessToken(token, h.cfg.JWTSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if tokenUserID != userID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Token does not match user id")
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed", "error", err, "user_id", userID)
		return
	}

	conn := h.hub.Register(userID, ws)
	defer func() {
		h.hub.Unregister(conn)
		ws.Close()
	}()

	conn.Send(models.Frame{
		Type:    models.FrameConnectionEstablished,
		Message: fmt.Sprintf("Connected as user %d", userID),
		UserID:  userID,
	})

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(readWait))

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("push connection read failed", "error", err, "conn_id", conn.ID)
			}
			return
		}
		ws.SetReadDeadline(time.Now().Add(readWait))

		var frame models.Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			conn.Send(models.Frame{Type: models.FrameError, Message: "Malformed message", UserID: userID})
			continue
		}

		switch frame.Type {
		case models.FramePing:
			conn.Send(models.Frame{
				Type:      models.FramePong,
				Timestamp: frame.Timestamp,
				UserID:    userID,
			})
		case models.FrameSubscribe:
			conn.Send(models.Frame{
				Type:    models.FrameSubscribed,
				Message: "Subscribed to real-time updates",
				UserID:  userID,
			})
		default:
			conn.Send(models.Frame{Type: models.FrameError, Message: "Unknown message type", UserID: userID})
		}
	}
}
