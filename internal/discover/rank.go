// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"sort"

	"github.com/pdiddy/topic-tree/pkg/types"
)

// TopByCitations returns the n most-cited papers, citation count
// non-increasing. Ties keep their input order. The input is not modified.
// A negative n keeps every paper.
func TopByCitations(papers []types.Paper, n int) []types.Paper {
	ranked := make([]types.Paper, len(papers))
	copy(ranked, papers)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CitationCount > ranked[j].CitationCount
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
