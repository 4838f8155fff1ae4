// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/pdiddy/topic-tree/pkg/types"
)

// Markdown writes the report as a Markdown document: a summary table, then
// one section per seed with a table of its citing papers.
func Markdown(w io.Writer, report *types.Report) error {
	md := markdown.NewMarkdown(w)

	md.H1("Topic tree: " + report.Topic)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Report", "`" + report.ID + "`"},
			{"Year cutoff", CutoffLabel(report.MinYear)},
			{"Seeds", strconv.Itoa(len(report.Seeds))},
			{"Children per seed", strconv.Itoa(report.TopK)},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	if len(report.Warnings) > 0 {
		md.H2("Warnings")
		md.PlainText("")
		md.BulletList(report.Warnings...)
		md.PlainText("")
	}

	if report.IsEmpty() {
		md.PlainText(EmptyMessage(report))
		return md.Build()
	}

	for i, entry := range report.Seeds {
		md.H2(fmt.Sprintf("%d. %s", i+1, entry.Seed.Title))
		md.PlainText("")
		md.PlainText(summaryLine(entry.Seed))
		md.PlainText("")

		if len(entry.Citing) == 0 {
			md.PlainText("_" + capitalize(NoCitingMessage(entry)) + "._")
			md.PlainText("")
			continue
		}

		rows := make([][]string, 0, len(entry.Citing))
		for j, child := range entry.Citing {
			rows = append(rows, []string{
				strconv.Itoa(j + 1),
				cell(child.Title),
				YearLabel(child),
				strconv.Itoa(child.CitationCount),
				linkCell(child),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "Citing paper", "Year", "Citations", "Link"},
			Rows:   rows,
		})
		md.PlainText("")
	}
	return md.Build()
}

func summaryLine(p types.Paper) string {
	line := fmt.Sprintf("%s · %d cites", YearLabel(p), p.CitationCount)
	if link := p.Link(); link != "" {
		line += " · " + markdown.Link("open paper", link)
	}
	return line
}

func linkCell(p types.Paper) string {
	link := p.Link()
	if link == "" {
		return ""
	}
	return markdown.Link("link", link)
}

// cell escapes pipes so titles cannot break the table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
