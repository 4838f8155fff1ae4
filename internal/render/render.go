// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render presents a topic-tree report: a console tree, JSON, YAML, or
// Markdown. The HTML page lives with the web front end.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/topic-tree/pkg/types"
)

// Format selects a report rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted formats, for flag help.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown}

// ParseFormat maps a name to a Format. "md" and "yml" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "tree":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format %q (want one of %s)", s, formatList())
}

// Write renders report to w in format f.
func Write(w io.Writer, report *types.Report, f Format) error {
	switch f {
	case FormatText, "":
		return Text(w, report)
	case FormatJSON:
		return JSON(w, report)
	case FormatYAML:
		return YAML(w, report)
	case FormatMarkdown:
		return Markdown(w, report)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, report *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// YAML writes the report as a YAML document.
func YAML(w io.Writer, report *types.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// YearLabel returns the paper year or "n/a" when unknown.
func YearLabel(p types.Paper) string {
	if !p.HasYear() {
		return "n/a"
	}
	return fmt.Sprintf("%d", p.Year)
}

// CutoffLabel describes the year cutoff of a report.
func CutoffLabel(minYear int) string {
	if minYear <= 0 {
		return "none"
	}
	return fmt.Sprintf("≥ %d", minYear)
}

// EmptyMessage is shown when a topic yields no seed papers.
func EmptyMessage(report *types.Report) string {
	if report.MinYear > 0 {
		return fmt.Sprintf("No papers found for '%s' with year ≥ %d.", report.Topic, report.MinYear)
	}
	return fmt.Sprintf("No papers found for '%s'.", report.Topic)
}

// NoCitingMessage explains an empty citing list.
func NoCitingMessage(entry types.SeedEntry) string {
	if entry.Note != "" {
		return entry.Note
	}
	return "no citing papers found"
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
