// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/ARRNAV26/Voting-System/models"
)

// State is the lifecycle state of a push channel.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "idle"
	}
}

// Handler receives decoded push frames. Calls are made from the channel's
// read goroutine, one at a time.
type Handler interface {
	HandleVoteUpdate(models.VoteUpdate)
	HandleSuggestionUpdate(models.Suggestion)
	HandleNewSuggestion(models.Suggestion)
}

// Options configures a Channel. Zero values get sensible defaults.
type Options struct {
	// URL is the full websocket endpoint, including the user id path segment
	// and the token query parameter.
	URL string

	// PingInterval is how often an application-level ping frame is sent on an
	// open connection. Default 25 seconds.
	PingInterval time.Duration

	// ReadTimeout is the longest silence tolerated before the connection is
	// considered dead. Default 90 seconds.
	ReadTimeout time.Duration

	// InitialRetryDelay and MaxRetryDelay bound the exponential backoff
	// between reconnect attempts. Defaults 500ms and 30s.
	InitialRetryDelay time.Duration
	MaxRetryDelay     time.Duration

	// OnStateChange, when set, is invoked on every lifecycle transition.
	OnStateChange func(State)
}

func (o *Options) setDefaults() {
	if o.PingInterval <= 0 {
		o.PingInterval = 25 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 90 * time.Second
	}
	if o.InitialRetryDelay <= 0 {
		o.InitialRetryDelay = 500 * time.Millisecond
	}
	if o.MaxRetryDelay <= 0 {
		o.MaxRetryDelay = 30 * time.Second
	}
}

// Channel maintains one logical push connection to the server, transparently
// reconnecting with capped exponential backoff when the transport drops.
// Frames received while connected are decoded and dispatched to the Handler;
// frames with an unknown type are ignored and malformed frames are dropped.
type Channel struct {
	opts    Options
	handler Handler

	mu      sync.Mutex
	state   State
	conn    *websocket.Conn
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewChannel creates a channel in the idle state. Connect starts it.
func NewChannel(opts Options, handler Handler) *Channel {
	opts.setDefaults()
	return &Channel{opts: opts, handler: handler}
}

// Connect starts the connection loop. Calling Connect on a running channel
// is a no-op, so accidental double starts cannot open two sockets. After a
// Disconnect, Connect opens a fresh connection loop.
func (c *Channel) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	ctx, c.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	go c.run(ctx, done)
}

// Disconnect tears the connection down, suppresses reconnection, and waits
// for the connection loop to exit. The channel returns to the idle state;
// a later Connect starts it again.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	conn := c.conn
	done := c.done
	c.mu.Unlock()

	cancel()
	if conn != nil {
		conn.Close()
	}
	<-done

	c.mu.Lock()
	c.started = false
	c.mu.Unlock()
	c.setState(StateIdle)
}

// State reports the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	cb := c.opts.OnStateChange
	c.mu.Unlock()

	if cb != nil {
		cb(s)
	}
}

func (c *Channel) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer c.setState(StateClosed)

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = c.opts.InitialRetryDelay
	retry.MaxInterval = c.opts.MaxRetryDelay

	for {
		if ctx.Err() != nil {
			return
		}
		c.setState(StateConnecting)

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.opts.URL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			delay := retry.NextBackOff()
			slog.Warn("Push channel dial failed", "error", err, "retry_in", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		retry.Reset()
		c.setState(StateOpen)

		c.serve(ctx, conn)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}
}

// serve reads frames until the connection dies or the context is canceled.
func (c *Channel) serve(ctx context.Context, conn *websocket.Conn) {
	var writeMu sync.Mutex
	stopPing := make(chan struct{})
	defer close(stopPing)

	go func() {
		ticker := time.NewTicker(c.opts.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				frame := models.Frame{Type: models.FramePing, Timestamp: time.Now().Unix()}
				writeMu.Lock()
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				err := conn.WriteJSON(frame)
				writeMu.Unlock()
				if err != nil {
					conn.Close()
					return
				}
			case <-stopPing:
				return
			case <-ctx.Done():
				conn.Close()
				return
			}
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("Push channel read failed", "error", err)
			}
			return
		}
		c.dispatch(data)
	}
}

func (c *Channel) dispatch(data []byte) {
	var frame models.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		slog.Warn("Dropping malformed push frame", "error", err)
		return
	}

	switch frame.Type {
	case models.FrameVoteUpdate:
		var u models.VoteUpdate
		if err := json.Unmarshal(frame.Data, &u); err != nil {
			slog.Warn("Dropping malformed vote_update payload", "error", err)
			return
		}
		c.handler.HandleVoteUpdate(u)

	case models.FrameSuggestionUpdate:
		var u models.SuggestionUpdate
		if err := json.Unmarshal(frame.Data, &u); err != nil {
			slog.Warn("Dropping malformed suggestion_update payload", "error", err)
			return
		}
		c.handler.HandleSuggestionUpdate(u.Suggestion)

	case models.FrameNewSuggestion:
		var u models.SuggestionUpdate
		if err := json.Unmarshal(frame.Data, &u); err != nil {
			slog.Warn("Dropping malformed new_suggestion payload", "error", err)
			return
		}
		c.handler.HandleNewSuggestion(u.Suggestion)

	case models.FrameConnectionEstablished, models.FramePong, models.FrameSubscribed:
		// Control acknowledgements carry no replica state.

	case models.FrameError:
		slog.Warn("Push channel error frame", "message", frame.Message)

	default:
		slog.Debug("Ignoring unknown push frame type", "type", frame.Type)
	}
}
