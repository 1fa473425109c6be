// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fixture

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"

	"github.com/pdiddy/buffet-search/pkg/types"
)

// Server serves a Dataset over HTTP with the search service's routes:
//
//	GET /search?q=&limit=&citySlug=
//	GET /search-suggestions?citySlug=
//	GET /health
type Server struct {
	data    *Dataset
	latency time.Duration
	apiKey  string
	verbose bool
	ready   chan struct{}
	srv     *rweb.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAPIKey rejects requests whose X-API-Key header differs from key.
func WithAPIKey(key string) ServerOption {
	return func(s *Server) { s.apiKey = key }
}

// WithVerbose turns on rweb's request logging.
func WithVerbose(v bool) ServerOption {
	return func(s *Server) { s.verbose = v }
}

// WithReady signals on ch once the listener is up.
func WithReady(ch chan struct{}) ServerOption {
	return func(s *Server) { s.ready = ch }
}

// NewServer builds the fixture server. Run starts it.
func NewServer(cfg types.FixtureConfig, data *Dataset, opts ...ServerOption) *Server {
	s := &Server{data: data, latency: cfg.Latency}
	for _, opt := range opts {
		opt(s)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = types.DefaultFixtureAddr
	}
	s.srv = rweb.NewServer(rweb.ServerOptions{
		Address:   addr,
		Verbose:   s.verbose,
		ReadyChan: s.ready,
	})

	if s.verbose {
		s.srv.Use(rweb.RequestInfo)
	}
	s.srv.Use(s.requireKey)
	s.srv.Get("/search", s.search)
	s.srv.Get("/search-suggestions", s.suggestions)
	s.srv.Get("/health", func(ctx rweb.Context) error {
		return ctx.WriteJSON(map[string]string{"status": "ok"})
	})
	return s
}

// Run blocks serving requests.
func (s *Server) Run() error {
	logger.Info("fixture search service starting",
		"places", strconv.Itoa(len(s.data.Places)), "latency", s.latency.String())
	return s.srv.Run()
}

// Port is the bound port, valid after the ready signal.
func (s *Server) Port() string {
	return s.srv.GetListenPort()
}

func (s *Server) requireKey(ctx rweb.Context) error {
	if s.apiKey != "" && ctx.Request().Header("X-API-Key") != s.apiKey {
		ctx.SetStatus(http.StatusUnauthorized)
		return ctx.WriteJSON(map[string]string{"error": "invalid api key"})
	}
	return ctx.Next()
}

func (s *Server) search(ctx rweb.Context) error {
	s.delay()
	q := ctx.Request().QueryParam("q")
	limit, _ := strconv.Atoi(ctx.Request().QueryParam("limit"))
	city := ctx.Request().QueryParam("citySlug")

	res := s.data.Lookup(q, limit, city)
	logger.Debug("fixture search", "q", q, "city", city, "results", strconv.Itoa(res.Total()))
	return ctx.WriteJSON(res)
}

func (s *Server) suggestions(ctx rweb.Context) error {
	s.delay()
	city := ctx.Request().QueryParam("citySlug")
	return ctx.WriteJSON(map[string]types.SuggestionBundle{
		"suggestions": s.data.Popular(city),
	})
}

func (s *Server) delay() {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
}
