// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub manages websocket push connections and broadcasts delta frames.

Each authenticated user may hold one or more connections; the hub keys them
by user id and a per-connection uuid. Handlers register a connection after
the upgrade and unregister it when the read loop ends:

	c := h.Register(userID, ws)
	defer h.Unregister(c)

Write handlers broadcast authoritative changes to every client:

	h.BroadcastVoteUpdate(update)
	h.BroadcastSuggestionUpdate(suggestion)
	h.BroadcastNewSuggestion(suggestion)

Each connection has a single writer goroutine fed by a bounded queue; frames
for a slow consumer are dropped rather than blocking the broadcast.
*/
package hub
