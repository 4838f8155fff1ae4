// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/topic-tree/pkg/types"
)

// CitationLister lists the papers citing a paper in a single API call.
type CitationLister interface {
	Citations(ctx context.Context, paperID string, limit int) ([]types.Paper, error)
}

// CitationExpander finds the most-cited papers that cite a seed.
type CitationExpander struct {
	API CitationLister
	// PageSize is the number of citing papers requested; the API default
	// applies when zero.
	PageSize int
}

// Expand returns the topK most-cited papers citing paperID.
//
// A seed without an identifier or without indexed citations yields an empty
// slice and a nil error. When the lookup fails the result is empty and the
// error is returned for the caller to report.
func (e *CitationExpander) Expand(ctx context.Context, paperID string, topK int) ([]types.Paper, error) {
	if topK <= 0 {
		return []types.Paper{}, fmt.Errorf("number of citing papers must be positive, got %d", topK)
	}
	if strings.TrimSpace(paperID) == "" {
		return []types.Paper{}, nil
	}

	citing, err := e.API.Citations(ctx, paperID, e.PageSize)
	if err != nil {
		return []types.Paper{}, fmt.Errorf("listing citations of %s: %w", paperID, err)
	}
	return TopByCitations(citing, topK), nil
}
