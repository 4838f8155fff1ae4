// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// doiResolver is prefixed to a DOI to build a resolvable link.
const doiResolver = "https://doi.org/"

// UntitledPaper is shown for papers the API returns without a title.
const UntitledPaper = "(untitled)"

// Paper holds the metadata of one paper as returned by the academic graph API.
// A Paper is immutable once fetched.
type Paper struct {
	// ID is the API-assigned paper identifier (Semantic Scholar paperId).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title, trimmed. Never empty: untitled papers carry
	// UntitledPaper.
	Title string `json:"title" yaml:"title"`

	// Year is the publication year. Zero means the API did not report one.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// CitationCount is the number of papers citing this one. Never negative.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// URL is the Semantic Scholar page for the paper.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// DOI is the Digital Object Identifier, when known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// HasYear reports whether the publication year is known.
func (p Paper) HasYear() bool { return p.Year > 0 }

// Link returns the preferred link for the paper: the DOI resolver URL when a
// DOI is known, otherwise the API page URL. It returns "" when neither exists.
func (p Paper) Link() string {
	if doi := strings.TrimSpace(p.DOI); doi != "" {
		return doiResolver + doi
	}
	return p.URL
}
