// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client is the authenticated REST client used by interactive
frontends.

Every client is built from an explicit Session (base URL, bearer token,
actor id); there is no ambient global state, so one process can drive
several sessions at once.

HTTP error statuses map to sentinel errors (ErrUnauthorized, ErrForbidden,
ErrNotFound, ErrConflict) or a ValidationError for 400s, preserving the
server's message for display.

Vote mutations follow a two-phase flow: Vote and Unvote send the request
first and fold the confirmed result into an engine.Store only after the
server accepts it. Nothing is applied optimistically, and a second vote for
the same suggestion while one is pending is rejected with ErrVoteInFlight.
*/
package client
