package reviewrank

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tsawler/reviewrank/internal/logger"
	"github.com/tsawler/reviewrank/internal/metrics"
)

// A ReviewSource supplies a batch of raw reviews.
type ReviewSource interface {
	Reviews(ctx context.Context) ([]Review, error)
}

// A RankerOpt represents a setting that changes a Ranker.
type RankerOpt func(r *Ranker)

// WithFeatureOpts sets the options passed to BuildFeatures.
func WithFeatureOpts(opts ...FeatureOpt) RankerOpt {
	return func(r *Ranker) {
		r.featureOpts = append(r.featureOpts, opts...)
	}
}

// WithVectorizeOpts sets the options passed to Vectorize.
func WithVectorizeOpts(opts ...VectorizeOpt) RankerOpt {
	return func(r *Ranker) {
		r.vectorizeOpts = append(r.vectorizeOpts, opts...)
	}
}

// WithForestOpts sets the options passed to FitAndScore.
func WithForestOpts(opts ...ForestOpt) RankerOpt {
	return func(r *Ranker) {
		r.forestOpts = append(r.forestOpts, opts...)
	}
}

// WithRankerLogger sets the Ranker's logger. Without it, the logger carried
// by the context is used.
func WithRankerLogger(l *zap.Logger) RankerOpt {
	return func(r *Ranker) {
		r.logger = l
	}
}

// A Ranker runs the whole pipeline over a batch: feature building,
// vectorization, then in-sample forest scoring.
type Ranker struct {
	featureOpts   []FeatureOpt
	vectorizeOpts []VectorizeOpt
	forestOpts    []ForestOpt
	logger        *zap.Logger
}

// NewRanker creates a Ranker with the given options.
func NewRanker(opts ...RankerOpt) *Ranker {
	r := &Ranker{}
	for _, applyOpt := range opts {
		applyOpt(r)
	}
	return r
}

// Rank fetches reviews from src and ranks them. See RankReviews.
func (r *Ranker) Rank(ctx context.Context, src ReviewSource) ([]RankedReview, error) {
	reviews, err := src.Reviews(ctx)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	return r.RankReviews(ctx, reviews)
}

// RankReviews scores every review that survives the signal filter and returns
// them by descending score. Ties keep input order.
func (r *Ranker) RankReviews(ctx context.Context, reviews []Review) ([]RankedReview, error) {
	ranked, err := r.rank(ctx, reviews)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RunsTotal.WithLabelValues("ok").Inc()
	return ranked, nil
}

func (r *Ranker) rank(ctx context.Context, reviews []Review) ([]RankedReview, error) {
	log := r.logger
	if log == nil {
		log = logger.FromContext(ctx)
	}
	start := time.Now()

	featureOpts := append([]FeatureOpt{WithLogger(log)}, r.featureOpts...)
	records, err := BuildFeatures(reviews, featureOpts...)
	if err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, y, err := Vectorize(records, r.vectorizeOpts...)
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}
	rows, cols := x.Dims()
	log.Debug("vectorized",
		zap.Int("rows", rows),
		zap.Int("columns", cols),
		zap.Int("vocabulary", len(x.Vocabulary())))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores, err := FitAndScore(x, y, r.forestOpts...)
	if err != nil {
		return nil, fmt.Errorf("fit and score: %w", err)
	}

	fit := Score(y.RawVector().Data, scores)
	metrics.FitRMSE.Set(fit.RMSE)
	metrics.ReviewsTotal.WithLabelValues("scored").Add(float64(len(scores)))

	ranked := make([]RankedReview, len(records))
	for i, rec := range records {
		ranked[i] = RankedReview{
			Review: reviews[rec.Index],
			Record: rec,
			Score:  scores[i],
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	log.Info("reviews ranked",
		zap.Int("input", len(reviews)),
		zap.Int("ranked", len(ranked)),
		zap.Float64("fit_rmse", fit.RMSE),
		zap.Float64("fit_r2", fit.R2),
		zap.Duration("elapsed", time.Since(start)))

	return ranked, nil
}
