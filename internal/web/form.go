// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/topic-tree/internal/discover"
	"github.com/pdiddy/topic-tree/pkg/types"
)

// Form input ranges.
const (
	MinYearLow   = 1900
	MinYearHigh  = 2100
	MaxSeeds     = 30
	MaxChildren  = 20
	defaultQuery = "Ultrasound is life"
)

// formValues is what the form shows: the raw values the user entered, so a
// rejected submission can be re-rendered as typed.
type formValues struct {
	Query    string
	MinYear  string
	Seeds    string
	Children string
	Error    string

	MinYearLow  int
	MinYearHigh int
	MaxSeeds    int
	MaxChildren int
}

func (s *Server) defaultForm() formValues {
	return withRanges(formValues{
		Query:    defaultQuery,
		MinYear:  strconv.Itoa(s.defaults.MinYear),
		Seeds:    strconv.Itoa(s.defaults.Seeds),
		Children: strconv.Itoa(s.defaults.Children),
	})
}

func withRanges(f formValues) formValues {
	f.MinYearLow = MinYearLow
	f.MinYearHigh = MinYearHigh
	f.MaxSeeds = MaxSeeds
	f.MaxChildren = MaxChildren
	return f
}

// parseForm reads form values into a request. Missing numeric parameters
// take the configured defaults. The API key is not read here: it is only
// accepted from a POST body or a header, never from the URL.
func parseForm(q url.Values, defaults types.TreeConfig) (discover.Request, formValues, error) {
	f := withRanges(formValues{
		Query:    q.Get("query"),
		MinYear:  valueOr(q, "min_year", strconv.Itoa(defaults.MinYear)),
		Seeds:    valueOr(q, "seeds", strconv.Itoa(defaults.Seeds)),
		Children: valueOr(q, "children", strconv.Itoa(defaults.Children)),
	})

	req := discover.Request{Topic: strings.TrimSpace(f.Query)}
	if req.Topic == "" {
		return req, f, errors.New("topic query is empty")
	}

	var err error
	if req.MinYear, err = intInRange("minimum publication year", f.MinYear, MinYearLow, MinYearHigh); err != nil {
		return req, f, err
	}
	if req.TopN, err = intInRange("number of seed papers", f.Seeds, 1, MaxSeeds); err != nil {
		return req, f, err
	}
	if req.TopK, err = intInRange("citing papers per seed", f.Children, 1, MaxChildren); err != nil {
		return req, f, err
	}
	return req, f, nil
}

func valueOr(q url.Values, key, fallback string) string {
	if v := strings.TrimSpace(q.Get(key)); v != "" {
		return v
	}
	return fallback
}

func intInRange(label, raw string, low, high int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", label, raw)
	}
	if n < low || n > high {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", label, low, high, n)
	}
	return n, nil
}

// sentence turns an error into the message shown to the user.
func sentence(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	msg = strings.ToUpper(msg[:1]) + msg[1:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}

// apiKeyFrom returns the per-request API key: the api_key field of a POST
// body, else the X-Api-Key header.
func apiKeyFrom(r *http.Request) string {
	if key := strings.TrimSpace(r.PostForm.Get("api_key")); key != "" {
		return key
	}
	return strings.TrimSpace(r.Header.Get("X-Api-Key"))
}
