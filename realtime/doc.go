// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime maintains the client side of the push channel.

A Channel owns one websocket connection to the server's /ws endpoint and
keeps it alive on the caller's behalf: application-level pings on an
interval, a read deadline that detects silent peers, and automatic
reconnection with capped exponential backoff plus jitter when the transport
drops. Callers observe the lifecycle through Options.OnStateChange
(idle, connecting, open, closed).

Received frames are decoded and dispatched to a Handler one at a time from
the read goroutine. Unknown frame types are ignored and malformed frames are
dropped, so protocol additions never break a deployed client.
*/
package realtime
