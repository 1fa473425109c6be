// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coordinator issues search service requests for one search box and
// decides which completion may become visible.
//
// At most one request is outstanding per Coordinator. Every request carries
// a Token taken from a monotonically increasing sequence; a completion is
// published only if its token is still the latest one issued, regardless of
// the order in which responses arrive. Superseded requests are aborted
// through their context.
package coordinator

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/rohanthewiz/logger"

	"github.com/pdiddy/buffet-search/internal/cache"
)

// Token identifies one issued request. Zero means "no request yet".
type Token uint64

func (t Token) String() string { return strconv.FormatUint(uint64(t), 10) }

// Status describes the published view.
type Status int

const (
	// StatusIdle means nothing has been requested since the last reset.
	StatusIdle Status = iota
	// StatusPending means the latest request is in flight.
	StatusPending
	// StatusReady means the view holds the latest request's payload.
	StatusReady
	// StatusFailed means the latest request failed; the payload is empty.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// View is the published state: which request it belongs to, its status,
// and its payload. Views are values; callers get copies.
type View[T any] struct {
	Token   Token
	Key     string
	Status  Status
	Payload T
	Cached  bool
}

// Loader performs one network call. It must honour ctx cancellation.
type Loader[T any] func(ctx context.Context) (T, error)

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	notify func()
	name   string
}

// WithNotify registers a callback invoked after every asynchronous
// publication. It runs with no Coordinator lock held.
func WithNotify(fn func()) Option {
	return func(o *options) { o.notify = fn }
}

// WithName sets the name used in log fields (e.g. "results").
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Coordinator serializes the requests of one search box.
type Coordinator[T any] struct {
	mu     sync.Mutex
	seq    Token
	cancel context.CancelFunc
	view   View[T]
	closed bool

	cache *cache.Cache[T]
	empty T
	opts  options
	wg    sync.WaitGroup
}

// New returns a Coordinator that stores successful payloads in c. empty is
// the payload published when a request fails.
func New[T any](c *cache.Cache[T], empty T, opts ...Option) *Coordinator[T] {
	o := options{name: "search"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Coordinator[T]{
		cache: c,
		empty: empty,
		opts:  o,
		view:  View[T]{Payload: empty},
	}
}

// Resolve serves key from the cache when possible. On a hit the payload is
// published immediately, superseding any in-flight request, and Resolve
// reports true. On a miss it behaves like Fetch. If the latest request is
// already in flight for key, that request is kept and its token returned.
func (c *Coordinator[T]) Resolve(ctx context.Context, key string, load Loader[T]) (Token, bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, false
	}
	if c.view.Status == StatusPending && c.view.Key == key {
		tok := c.seq
		c.mu.Unlock()
		return tok, false
	}
	if payload, ok := c.cache.Get(key); ok {
		c.supersedeLocked()
		c.view = View[T]{Token: c.seq, Key: key, Status: StatusReady, Payload: payload, Cached: true}
		tok := c.seq
		c.mu.Unlock()
		return tok, true
	}
	c.mu.Unlock()
	return c.Fetch(ctx, key, load), false
}

// Fetch aborts the in-flight request, issues a new token, and runs load on
// its own goroutine. It returns without waiting for the response.
func (c *Coordinator[T]) Fetch(ctx context.Context, key string, load Loader[T]) Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0
	}

	c.supersedeLocked()
	tok := c.seq
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.view = View[T]{Token: tok, Key: key, Status: StatusPending, Payload: c.empty}

	c.wg.Add(1)
	go c.run(reqCtx, cancel, tok, key, load)
	return tok
}

func (c *Coordinator[T]) run(ctx context.Context, cancel context.CancelFunc, tok Token, key string, load Loader[T]) {
	defer c.wg.Done()
	defer cancel()

	payload, err := load(ctx)
	if c.complete(ctx, tok, key, payload, err) && c.opts.notify != nil {
		c.opts.notify()
	}
}

// complete applies one response and reports whether it was published.
func (c *Coordinator[T]) complete(ctx context.Context, tok Token, key string, payload T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		// The key fully describes the request, so a superseded success is
		// still worth remembering.
		c.cache.Set(key, payload)
		if tok != c.seq || c.closed {
			logger.Debug("discarding superseded response",
				"coordinator", c.opts.name, "key", key,
				"token", tok.String(), "latest", c.seq.String())
			return false
		}
		c.view = View[T]{Token: tok, Key: key, Status: StatusReady, Payload: payload}
		c.cancel = nil
		return true
	}

	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		// Aborted: whoever superseded this request owns publication.
		return false
	}
	if tok != c.seq || c.closed {
		logger.Debug("discarding superseded failure",
			"coordinator", c.opts.name, "key", key, "token", tok.String())
		return false
	}

	logger.LogErr(err, "search request failed", "coordinator", c.opts.name, "key", key)
	c.view = View[T]{Token: tok, Key: key, Status: StatusFailed, Payload: c.empty}
	c.cancel = nil
	return true
}

// supersedeLocked aborts the in-flight request and advances the sequence so
// its completion can no longer publish.
func (c *Coordinator[T]) supersedeLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
}

// Reset aborts the in-flight request and clears the view.
func (c *Coordinator[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.supersedeLocked()
	c.view = View[T]{Token: c.seq, Payload: c.empty}
}

// Close aborts the in-flight request. No completion publishes afterwards
// and further Fetch calls are ignored.
func (c *Coordinator[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.supersedeLocked()
	c.closed = true
}

// View returns a copy of the published view.
func (c *Coordinator[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Latest returns the most recently issued token.
func (c *Coordinator[T]) Latest() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Wait blocks until every started request goroutine has returned.
func (c *Coordinator[T]) Wait() {
	c.wg.Wait()
}
