// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/topic-tree/internal/scholar"
	"github.com/pdiddy/topic-tree/pkg/types"
)

// Request holds the parameters of one topic-tree run.
type Request struct {
	Topic   string
	MinYear int
	TopN    int
	TopK    int

	// APIKey, when set, replaces the configured Graph API key for this
	// request only.
	APIKey string
}

// Validate checks the request before any API call is made.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.Topic) == "":
		return fmt.Errorf("topic is empty: provide a search query")
	case r.MinYear < 0:
		return fmt.Errorf("minimum year must not be negative, got %d", r.MinYear)
	case r.TopN <= 0:
		return fmt.Errorf("number of seeds must be positive, got %d", r.TopN)
	case r.TopK <= 0:
		return fmt.Errorf("number of citing papers must be positive, got %d", r.TopK)
	}
	return nil
}

// Builder assembles reports from a SeedFinder and a CitationExpander.
type Builder struct {
	Seeds     *SeedFinder
	Citations *CitationExpander
	Logger    *slog.Logger

	// now and newID are replaced in tests.
	now   func() time.Time
	newID func() string
}

// NewBuilder wires a Builder to a graph API client.
func NewBuilder(client *scholar.Client, cfg types.ScholarConfig, logger *slog.Logger) *Builder {
	return &Builder{
		Seeds:     &SeedFinder{API: client, PageSize: cfg.SearchLimit},
		Citations: &CitationExpander{API: client, PageSize: cfg.CitationLimit},
		Logger:    logger,
	}
}

// Build runs the seed search once, then one citation lookup per seed, in
// seed order.
//
// Only a transport failure of the seed search aborts the run. Other seed
// search failures produce a report without seeds and a warning. A failed
// citation lookup leaves that seed without citing papers and with a note.
func (b *Builder) Build(ctx context.Context, req Request) (*types.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	report := &types.Report{
		ID:          b.id(),
		Topic:       strings.TrimSpace(req.Topic),
		MinYear:     req.MinYear,
		TopN:        req.TopN,
		TopK:        req.TopK,
		GeneratedAt: b.clock(),
		Seeds:       []types.SeedEntry{},
	}
	log := b.logger().With("report_id", report.ID)

	finder, expander := b.components(strings.TrimSpace(req.APIKey))

	seeds, err := finder.FindSeeds(ctx, report.Topic, req.MinYear, req.TopN)
	if err != nil {
		if scholar.IsTransport(err) {
			return nil, fmt.Errorf("searching seed papers: %w", err)
		}
		log.WarnContext(ctx, "seed search failed", "topic", report.Topic, "error", err)
		report.Warnings = append(report.Warnings, fmt.Sprintf("seed search failed: %v", err))
		return report, nil
	}
	log.InfoContext(ctx, "seed papers found", "topic", report.Topic, "seeds", len(seeds))

	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := types.SeedEntry{Seed: seed, Citing: []types.Paper{}}
		citing, err := expander.Expand(ctx, seed.ID, req.TopK)
		if err != nil {
			log.WarnContext(ctx, "citation lookup failed", "paper_id", seed.ID, "error", err)
			entry.Note = fmt.Sprintf("citation lookup failed: %v", err)
		} else {
			entry.Citing = citing
		}
		report.Seeds = append(report.Seeds, entry)
	}
	return report, nil
}

// components returns the finder and expander for one request. A non-empty
// apiKey rebinds Graph API clients to that key; other implementations are
// used as they are.
func (b *Builder) components(apiKey string) (*SeedFinder, *CitationExpander) {
	finder, expander := b.Seeds, b.Citations
	if apiKey == "" {
		return finder, expander
	}
	if c, ok := finder.API.(*scholar.Client); ok {
		finder = &SeedFinder{API: c.WithAPIKey(apiKey), PageSize: finder.PageSize}
	}
	if c, ok := expander.API.(*scholar.Client); ok {
		expander = &CitationExpander{API: c.WithAPIKey(apiKey), PageSize: expander.PageSize}
	}
	return finder, expander
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Builder) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now().UTC()
}

func (b *Builder) id() string {
	if b.newID != nil {
		return b.newID()
	}
	return uuid.NewString()
}
