package reviewrank

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/reviewrank/internal/metrics"
)

// DefaultMinNetVotes is the net vote count a review must exceed to carry a
// usable helpfulness signal.
const DefaultMinNetVotes = 10

// A FeatureOpt represents a setting that changes feature building.
type FeatureOpt func(opts *FeatureOpts)

// FeatureOpts controls BuildFeatures:
type FeatureOpts struct {
	MinNetVotes int         // Reviews need strictly more net votes than this
	Workers     int         // Upper bound on reviews processed concurrently
	Model       *Model      // Language resources; nil means DefaultModel
	Logger      *zap.Logger // Stage logger; nil means no logging
}

// WithMinNetVotes sets the signal filter threshold. Lowering it below zero
// admits reviews with no votes at all, whose target is undefined.
func WithMinNetVotes(n int) FeatureOpt {
	return func(opts *FeatureOpts) {
		opts.MinNetVotes = n
	}
}

// WithWorkers bounds the number of reviews processed concurrently. Values
// below one mean GOMAXPROCS.
func WithWorkers(n int) FeatureOpt {
	return func(opts *FeatureOpts) {
		opts.Workers = n
	}
}

// UsingModel sets the Model used for sentiment, segmentation and normalization.
func UsingModel(model *Model) FeatureOpt {
	return func(opts *FeatureOpts) {
		opts.Model = model
	}
}

// WithLogger sets the logger for stage progress.
func WithLogger(logger *zap.Logger) FeatureOpt {
	return func(opts *FeatureOpts) {
		opts.Logger = logger
	}
}

func defaultFeatureOpts() FeatureOpts {
	return FeatureOpts{
		MinNetVotes: DefaultMinNetVotes,
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// BuildFeatures turns raw reviews into feature records.
//
// Reviews with no more than MinNetVotes net votes are dropped. Each survivor
// is labelled with the sentiment of its original body, given a helpfulness
// target and a sentence count, and finally has its body normalized. Records
// keep the relative order of their reviews.
//
// Every review is validated before the filter runs, so a malformed review
// fails the batch with an *InvalidReviewError even when it would have been
// dropped. Negative vote counts would otherwise skew NetVotes.
func BuildFeatures(reviews []Review, opts ...FeatureOpt) ([]FeatureRecord, error) {
	base := defaultFeatureOpts()
	for _, applyOpt := range opts {
		applyOpt(&base)
	}
	if base.Workers < 1 {
		base.Workers = runtime.GOMAXPROCS(0)
	}
	if base.Logger == nil {
		base.Logger = zap.NewNop()
	}
	if base.Model == nil {
		model, err := DefaultModel()
		if err != nil {
			return nil, fmt.Errorf("build features: %w", err)
		}
		base.Model = model
	}

	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("features").Observe(time.Since(start).Seconds())
	}()
	metrics.ReviewsTotal.WithLabelValues("input").Add(float64(len(reviews)))

	records := make([]FeatureRecord, 0, len(reviews))
	for i, r := range reviews {
		if err := r.Validate(); err != nil {
			return nil, &InvalidReviewError{Index: i, Reason: err}
		}
		if r.NetVotes() <= base.MinNetVotes {
			continue
		}
		target, ok := Helpfulness(r.Upvotes, r.Downvotes)
		if !ok {
			return nil, &UndefinedTargetError{Index: i}
		}
		records = append(records, FeatureRecord{
			Index:  i,
			Rating: r.Rating,
			Target: target,
		})
	}
	base.Logger.Debug("signal filter applied",
		zap.Int("input", len(reviews)),
		zap.Int("kept", len(records)),
		zap.Int("min_net_votes", base.MinNetVotes))

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: none of %d reviews has more than %d net votes",
			ErrEmptyInput, len(reviews), base.MinNetVotes)
	}
	metrics.ReviewsTotal.WithLabelValues("kept").Add(float64(len(records)))

	// Each goroutine owns one slot of records.
	var g errgroup.Group
	g.SetLimit(base.Workers)
	for i := range records {
		rec := &records[i]
		g.Go(func() error {
			body := reviews[rec.Index].Body
			doc, err := NewDocument(body, UsingDocumentModel(base.Model), WithTokenization(false))
			if err != nil {
				return fmt.Errorf("review %d: %w", rec.Index, err)
			}
			rec.Sentiment = doc.Sentiment()
			rec.NumSentences = len(doc.Sentences())

			rec.Body = base.Model.Normalize(body)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}

	base.Logger.Debug("features built",
		zap.Int("records", len(records)),
		zap.Int("workers", base.Workers),
		zap.Duration("elapsed", time.Since(start)))

	return records, nil
}

// Helpfulness returns upvotes/(upvotes+downvotes) rounded to two decimals,
// half to even. ok is false when there are no votes.
func Helpfulness(upvotes, downvotes int) (target float64, ok bool) {
	total := upvotes + downvotes
	if total == 0 {
		return 0, false
	}
	return math.RoundToEven(float64(upvotes)/float64(total)*100) / 100, true
}
