// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the fund-matcher pages and JSON API.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/pdiddy/fund-matcher/internal/leads"
	"github.com/pdiddy/fund-matcher/internal/secrets"
	"github.com/pdiddy/fund-matcher/internal/session"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "fm_session"

// KeyUpdateDisabled is shown when the API key cannot be changed from the page.
const KeyUpdateDisabled = "이 환경에서는 API Key 설정을 지원하지 않습니다."

// Matcher runs one search.
type Matcher interface {
	Match(ctx context.Context, info types.BusinessInfo, apiKey string) (types.SearchResult, error)
	Format() types.ResponseFormat
}

// Options configures a Server.
type Options struct {
	Matcher  Matcher
	Keys     *secrets.Store
	Sessions *session.Registry
	Leads    *leads.Intake

	// AllowKeyUpdate enables POST /settings/key.
	AllowKeyUpdate bool

	// BaseContext parents background searches started through the JSON
	// API. Cancelling it stops them. Defaults to context.Background.
	BaseContext context.Context

	Log zerolog.Logger
}

// Server holds the handlers' dependencies.
type Server struct {
	matcher        Matcher
	keys           *secrets.Store
	sessions       *session.Registry
	leads          *leads.Intake
	allowKeyUpdate bool
	baseCtx        context.Context
	log            zerolog.Logger
}

// New returns a server for opts.
func New(opts Options) *Server {
	base := opts.BaseContext
	if base == nil {
		base = context.Background()
	}
	return &Server{
		matcher:        opts.Matcher,
		keys:           opts.Keys,
		sessions:       opts.Sessions,
		leads:          opts.Leads,
		allowKeyUpdate: opts.AllowKeyUpdate,
		baseCtx:        base,
		log:            opts.Log.With().Str("component", "web").Logger(),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("req_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("elapsed", d).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/search", s.handleSearch)
	r.Post("/search/stop", s.handleStop)
	r.Post("/settings/key", s.handleSetKey)
	r.Post("/leads", s.handleLead)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleAPIState)
		r.Post("/search", s.handleAPIStart)
		r.Delete("/search", s.handleAPIStop)
		r.Get("/bizno", s.handleAPIBizno)
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// session returns the caller's session, issuing a cookie for new ones.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess := s.sessions.Get(id)
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// matchFunc binds the current API key to the matcher.
func (s *Server) matchFunc() session.MatchFunc {
	return func(ctx context.Context, info types.BusinessInfo) (types.SearchResult, error) {
		return s.matcher.Match(ctx, info, s.keys.APIKey())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"format":        s.matcher.Format(),
		"keyConfigured": s.keys.Configured(),
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
