// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pdiddy/topic-tree/internal/render"
	"github.com/pdiddy/topic-tree/internal/scholar"
	"github.com/pdiddy/topic-tree/pkg/types"
)

type reportPage struct {
	Form   formValues
	Report *types.Report
	Error  string
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "index.html", s.defaultForm())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		form := s.defaultForm()
		form.Error = "Could not read the form."
		s.renderPage(w, r, http.StatusBadRequest, "index.html", form)
		return
	}
	req, form, err := parseForm(r.Form, s.defaults)
	if err != nil {
		form.Error = sentence(err)
		s.renderPage(w, r, http.StatusBadRequest, "index.html", form)
		return
	}
	req.APIKey = apiKeyFrom(r)

	report, err := s.builder.Build(r.Context(), req)
	if err != nil {
		status, msg := s.buildFailure(r.Context(), err)
		if status == 0 {
			return
		}
		s.renderPage(w, r, status, "report.html", reportPage{Form: form, Error: msg})
		return
	}
	s.renderPage(w, r, http.StatusOK, "report.html", reportPage{Form: form, Report: report})
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	req, _, err := parseForm(r.URL.Query(), s.defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, sentence(err))
		return
	}
	req.APIKey = strings.TrimSpace(r.Header.Get("X-Api-Key"))

	report, err := s.builder.Build(r.Context(), req)
	if err != nil {
		status, msg := s.buildFailure(r.Context(), err)
		if status == 0 {
			return
		}
		writeError(w, status, msg)
		return
	}

	var buf bytes.Buffer
	if err := render.JSON(&buf, report); err != nil {
		s.logger.ErrorContext(r.Context(), "encoding report", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode report")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// buildFailure maps a Build error to a status and a message for the user.
// A zero status means the client went away and nothing should be written.
func (s *Server) buildFailure(ctx context.Context, err error) (int, string) {
	switch {
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		s.logger.InfoContext(ctx, "request cancelled while building report")
		return 0, ""
	case scholar.IsTransport(err):
		s.logger.WarnContext(ctx, "Semantic Scholar unreachable", "error", err)
		return http.StatusBadGateway, "Could not reach Semantic Scholar: " + err.Error()
	default:
		s.logger.ErrorContext(ctx, "building report", "error", err)
		return http.StatusInternalServerError, "Failed to build the report: " + err.Error()
	}
}

// renderPage executes a template into a buffer so a template failure can
// still produce a clean 500.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering page", "template", name, "error", err)
		http.Error(w, "internal error rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
