// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of topic-tree: the Paper
// records fetched from the academic graph API, the Report assembled for one
// request, and the configuration of each component.
package types

import "time"

// SeedEntry pairs a seed paper with the most-cited papers that cite it.
type SeedEntry struct {
	// Seed is a highly-cited paper matching the topic.
	Seed Paper `json:"seed" yaml:"seed"`

	// Citing holds the top citing papers, citation count non-increasing.
	Citing []Paper `json:"citing" yaml:"citing"`

	// Note explains an empty Citing list when the lookup failed.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Report is the result of one topic-tree run. It is built fresh per request
// and discarded after presentation.
type Report struct {
	// ID identifies the run in logs and in the browser page.
	ID string `json:"id" yaml:"id"`

	// Topic is the search string as entered.
	Topic string `json:"topic" yaml:"topic"`

	// MinYear is the publication year cutoff; zero means no cutoff.
	MinYear int `json:"min_year" yaml:"min_year"`

	// TopN is the number of seeds requested.
	TopN int `json:"top_n" yaml:"top_n"`

	// TopK is the number of citing papers requested per seed.
	TopK int `json:"top_k" yaml:"top_k"`

	// GeneratedAt is when the report was assembled.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Seeds are ordered by seed citation count, non-increasing.
	Seeds []SeedEntry `json:"seeds" yaml:"seeds"`

	// Warnings collects non-fatal problems met while building the report.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// IsEmpty reports whether the topic yielded no seeds.
func (r *Report) IsEmpty() bool { return len(r.Seeds) == 0 }
