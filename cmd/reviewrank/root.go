package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/reviewrank"
	"github.com/tsawler/reviewrank/internal/config"
	"github.com/tsawler/reviewrank/internal/logger"
	"github.com/tsawler/reviewrank/internal/metrics"
	"github.com/tsawler/reviewrank/source"
)

var (
	cfgFile  string
	verbose  bool
	cfg      config.Config
	log      *zap.Logger
	registry *prometheus.Registry
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reviewrank",
	Short: "Rank product reviews by predicted helpfulness",
	Long: `reviewrank scores product reviews with a random forest trained on their
vote history, text and rating, and lists the most helpful first.

Example usage:
  reviewrank rank reviews.yaml               # Rank reviews from a file
  reviewrank rank --config rr.yaml page.html # Rank reviews from saved pages
  reviewrank evaluate reviews.yaml           # Hold-out and k-fold error report`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command, then writes the collected metrics whether
// the command succeeded or not.
func Execute() error {
	err := rootCmd.Execute()
	if merr := writeMetrics(); merr != nil {
		err = errors.Join(err, merr)
	}
	if log != nil {
		_ = log.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// initConfig loads configuration and sets up logging and metrics.
func initConfig() error {
	var err error
	registry = nil

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log, err = logger.NewLogger(cfg.Logging.Env, level)
	if err != nil {
		return err
	}

	registry = prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	log.Debug("configuration loaded",
		zap.String("config", cfgFile),
		zap.String("source", cfg.Source.Kind),
		zap.Int("trees", cfg.Forest.Trees))
	return nil
}

// writeMetrics writes the registry to the configured textfile. It is a no-op
// when no path is set or the command failed before configuration loaded.
func writeMetrics() error {
	if registry == nil || cfg.Metrics.TextfilePath == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(cfg.Metrics.TextfilePath, registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// commandContext returns the command's context carrying the logger, tagged
// with the command name.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.ContextWithLogger(ctx, log)
	return logger.WithFields(ctx, zap.String("command", cmd.Name()))
}

// reviewSource picks the source named by the config. Arguments, if any,
// replace the configured paths.
func reviewSource(args []string) (reviewrank.ReviewSource, error) {
	paths := cfg.Source.Paths
	if len(args) > 0 {
		paths = args
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no review paths given")
	}

	switch cfg.Source.Kind {
	case "html":
		return source.HTML{Paths: paths}, nil
	default:
		if len(paths) > 1 {
			return multiFile(paths), nil
		}
		return source.File{Path: paths[0]}, nil
	}
}

// multiFile concatenates several review files.
type multiFile []string

func (m multiFile) Reviews(ctx context.Context) ([]reviewrank.Review, error) {
	var all []reviewrank.Review
	for _, p := range m {
		reviews, err := source.File{Path: p}.Reviews(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, reviews...)
	}
	return all, nil
}

func featureOpts() []reviewrank.FeatureOpt {
	return []reviewrank.FeatureOpt{
		reviewrank.WithMinNetVotes(*cfg.Pipeline.MinNetVotes),
		reviewrank.WithWorkers(cfg.Pipeline.Workers),
	}
}

func vectorizeOpts() []reviewrank.VectorizeOpt {
	return []reviewrank.VectorizeOpt{
		reviewrank.WithMinDocFreq(*cfg.Pipeline.MinDocFreq),
		reviewrank.WithSentimentColumns(cfg.Pipeline.SentimentColumns),
	}
}

func forestOpts() []reviewrank.ForestOpt {
	return []reviewrank.ForestOpt{
		reviewrank.WithTrees(cfg.Forest.Trees),
		reviewrank.WithSeed(cfg.Forest.Seed),
		reviewrank.WithMaxDepth(cfg.Forest.MaxDepth),
		reviewrank.WithMinSamplesLeaf(cfg.Forest.MinSamplesLeaf),
	}
}
