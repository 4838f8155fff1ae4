// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/topic-tree/internal/discover"
	"github.com/pdiddy/topic-tree/internal/render"
)

func newTreeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the citation tree for a topic",
		Long: `Tree runs one topic search, keeps the most-cited papers published in or after
--min-year as seeds, then looks up the most-cited citing papers of each seed.

Only a network failure of the topic search is fatal. A seed whose citations
cannot be fetched is shown without children.`,
		Example: `  topic-tree tree --query "graph neural networks"
  topic-tree tree --query "lidar odometry" --min-year 2019 --seeds 5 --children 3 --format markdown`,
		Args: cobra.NoArgs,
		RunE: a.runTree,
	}

	cmd.Flags().String("query", "", "topic to search for (required)")
	cmd.Flags().Int("min-year", 0, "earliest publication year; 0 disables the cutoff (default 2021)")
	cmd.Flags().Int("seeds", 0, "number of seed papers (default 10)")
	cmd.Flags().Int("children", 0, "citing papers per seed (default 5)")
	cmd.Flags().String("format", string(render.FormatText), "output format: text, json, yaml, markdown")
	cmd.MarkFlagRequired("query")

	a.v.BindPFlag("tree.min_year", cmd.Flags().Lookup("min-year"))
	a.v.BindPFlag("tree.seeds", cmd.Flags().Lookup("seeds"))
	a.v.BindPFlag("tree.children", cmd.Flags().Lookup("children"))

	return cmd
}

func (a *app) runTree(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	query, _ := cmd.Flags().GetString("query")

	req := discover.Request{
		Topic:   query,
		MinYear: a.cfg.Tree.MinYear,
		TopN:    a.cfg.Tree.Seeds,
		TopK:    a.cfg.Tree.Children,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	report, err := a.newBuilder().Build(cmd.Context(), req)
	if err != nil {
		return err
	}

	if err := render.Write(cmd.OutOrStdout(), report, format); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
