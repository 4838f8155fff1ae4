// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"

	"github.com/pdiddy/topic-tree/pkg/types"
)

const (
	branchMid  = "   ├─"
	branchLast = "   └─"
)

// FormatPaperLine renders one paper as "Title — year — N cites  <link>".
func FormatPaperLine(p types.Paper) string {
	line := fmt.Sprintf("%s — %s — %d cites", p.Title, YearLabel(p), p.CitationCount)
	if link := p.Link(); link != "" {
		line += "  <" + link + ">"
	}
	return line
}

// Text writes the report as a numbered console tree: each seed followed by
// its citing papers on branches. Report warnings are left to the log so the
// stream holds only the tree.
func Text(w io.Writer, report *types.Report) error {
	ew := &errWriter{w: w}

	if report.IsEmpty() {
		ew.printf("%s\n", EmptyMessage(report))
		return ew.err
	}

	ew.printf("\nTOPIC: %s\n", report.Topic)
	ew.printf("Year cutoff: %s\n", CutoffLabel(report.MinYear))
	ew.printf("Seeds: %d | Children per seed: %d\n\n", len(report.Seeds), report.TopK)

	for i, entry := range report.Seeds {
		ew.printf("%d. %s\n", i+1, FormatPaperLine(entry.Seed))
		if len(entry.Citing) == 0 {
			ew.printf("%s (%s)\n", branchLast, NoCitingMessage(entry))
			continue
		}
		for j, child := range entry.Citing {
			branch := branchMid
			if j == len(entry.Citing)-1 {
				branch = branchLast
			}
			ew.printf("%s %s\n", branch, FormatPaperLine(child))
		}
	}
	return ew.err
}

// errWriter keeps the first write error so rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
