// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the browser front end: a form that collects a topic,
// a year cutoff, and the tree sizes, and a page that renders the resulting
// report. The same report is also available as JSON under /api/v1.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pdiddy/topic-tree/internal/discover"
	"github.com/pdiddy/topic-tree/internal/render"
	"github.com/pdiddy/topic-tree/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// ReportBuilder produces a report for a request. *discover.Builder
// satisfies it.
type ReportBuilder interface {
	Build(ctx context.Context, req discover.Request) (*types.Report, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	builder  ReportBuilder
	defaults types.TreeConfig
	origins  []string
	logger   *slog.Logger
	pages    *template.Template
}

// NewServer parses the embedded templates and returns a Server. defaults
// prefill the form and fill parameters missing from a request.
func NewServer(builder ReportBuilder, defaults types.TreeConfig, allowedOrigins []string, logger *slog.Logger) (*Server, error) {
	if builder == nil {
		return nil, errors.New("web: report builder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	pages, err := template.New("pages").Funcs(template.FuncMap{
		"year":      render.YearLabel,
		"cutoff":    render.CutoffLabel,
		"inc":       func(i int) int { return i + 1 },
		"emptyHint": render.EmptyMessage,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Server{
		builder:  builder,
		defaults: defaults,
		origins:  allowedOrigins,
		logger:   logger,
		pages:    pages,
	}, nil
}

// Routes returns the router for the GUI and the JSON API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Get("/", s.handleIndex)
	r.Get("/report", s.handleReport)
	r.Post("/report", s.handleReport)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Api-Key"},
			MaxAge:         300,
		}))
		r.Get("/report", s.handleAPIReport)
	})

	return r
}

// NewHTTPServer wraps the router in an http.Server with the configured
// timeouts.
func (s *Server) NewHTTPServer(cfg types.ServeConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.InfoContext(r.Context(), "http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", chimiddleware.GetReqID(r.Context()),
					"remote", r.RemoteAddr,
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
