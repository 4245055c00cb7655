// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all API routes using Go 1.22+ routing patterns.

Routes are grouped by concern: authentication (/auth/...), suggestions
(/suggestions...), votes (/votes...), and the websocket push endpoint
(/ws/{id}). Authenticated routes are wrapped with logging and bearer-token
middleware.
*/
package router
