// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover turns a topic into a citation tree: the most-cited seed
// papers on the topic and, for each seed, the most-cited papers citing it.
// Calls to the graph API are made one at a time, in order.
package discover

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/topic-tree/internal/scholar"
	"github.com/pdiddy/topic-tree/pkg/types"
)

// PaperSearcher runs a single topic search against the graph API.
type PaperSearcher interface {
	Search(ctx context.Context, p scholar.SearchParams) ([]types.Paper, error)
}

// SeedFinder finds the most-cited papers matching a topic.
type SeedFinder struct {
	API PaperSearcher
	// PageSize is the number of search results requested; the API default
	// applies when zero.
	PageSize int
}

// FindSeeds searches once for topic, drops papers older than minYear (or of
// unknown year when minYear is set), and returns the topN most-cited.
//
// Zero matches yield an empty slice and a nil error. Any failure of the
// search call is returned unchanged so callers can tell transport failures
// from API errors.
func (f *SeedFinder) FindSeeds(ctx context.Context, topic string, minYear, topN int) ([]types.Paper, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is empty")
	}
	if minYear < 0 {
		return nil, fmt.Errorf("minimum year must not be negative, got %d", minYear)
	}
	if topN <= 0 {
		return nil, fmt.Errorf("number of seeds must be positive, got %d", topN)
	}

	found, err := f.API.Search(ctx, scholar.SearchParams{
		Query:   topic,
		MinYear: minYear,
		Limit:   f.PageSize,
	})
	if err != nil {
		return nil, err
	}

	eligible := make([]types.Paper, 0, len(found))
	for _, p := range found {
		if minYear > 0 && (!p.HasYear() || p.Year < minYear) {
			continue
		}
		eligible = append(eligible, p)
	}
	return TopByCitations(eligible, topN), nil
}
