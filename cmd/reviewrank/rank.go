package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/reviewrank"
)

var rankCmd = &cobra.Command{
	Use:   "rank [paths...]",
	Short: "Rank reviews by predicted helpfulness",
	Long: `Rank reads a batch of reviews, drops those without enough votes, and writes
the rest as YAML, most helpful first.

Examples:
  reviewrank rank reviews.yaml               # Print all ranked reviews
  reviewrank rank reviews.yaml --limit 5     # Print the top five
  reviewrank rank reviews.yaml -o top.yaml   # Write to a file`,
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("output", "o", "", "output file (default: config output.path or stdout)")
	rankCmd.Flags().Int("limit", 0, "keep only the top N reviews (default: config output.limit)")
}

func runRank(cmd *cobra.Command, args []string) error {
	src, err := reviewSource(args)
	if err != nil {
		return err
	}

	ranker := reviewrank.NewRanker(
		reviewrank.WithFeatureOpts(featureOpts()...),
		reviewrank.WithVectorizeOpts(vectorizeOpts()...),
		reviewrank.WithForestOpts(forestOpts()...),
	)

	ranked, err := ranker.Rank(commandContext(cmd), src)
	if err != nil {
		return err
	}

	limit := cfg.Output.Limit
	if cmd.Flags().Changed("limit") {
		limit, _ = cmd.Flags().GetInt("limit")
	}
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	path := cfg.Output.Path
	if cmd.Flags().Changed("output") {
		path, _ = cmd.Flags().GetString("output")
	}
	return writeYAML(cmd.OutOrStdout(), path, ranked)
}

// writeYAML encodes v to path, or to w when path is empty.
func writeYAML(w io.Writer, path string, v any) error {
	if path != "" {
		f, err := os.Create(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
