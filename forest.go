package reviewrank

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/tsawler/reviewrank/internal/metrics"
)

// Forest defaults.
const (
	DefaultTrees = 100
	DefaultSeed  = 0
)

// A ForestOpt represents a setting that changes how the ranking forest is fit.
type ForestOpt func(opts *ForestOpts)

// ForestOpts controls the random forest:
type ForestOpts struct {
	Trees          int   // Number of trees in the ensemble
	Seed           int64 // Seed for bootstrap sampling and feature order
	MaxDepth       int   // Maximum tree depth; 0 grows until leaves are pure
	MinSamplesLeaf int   // Minimum samples in each leaf
}

// WithTrees sets the ensemble size.
func WithTrees(n int) ForestOpt {
	return func(opts *ForestOpts) {
		opts.Trees = n
	}
}

// WithSeed sets the random seed.
func WithSeed(seed int64) ForestOpt {
	return func(opts *ForestOpts) {
		opts.Seed = seed
	}
}

// WithMaxDepth limits tree depth. Zero means unlimited.
func WithMaxDepth(depth int) ForestOpt {
	return func(opts *ForestOpts) {
		opts.MaxDepth = depth
	}
}

// WithMinSamplesLeaf sets the smallest number of samples a leaf may hold.
func WithMinSamplesLeaf(n int) ForestOpt {
	return func(opts *ForestOpts) {
		opts.MinSamplesLeaf = n
	}
}

// DefaultForestOpts returns the forest settings used when no option is given.
func DefaultForestOpts() ForestOpts {
	return ForestOpts{
		Trees:          DefaultTrees,
		Seed:           DefaultSeed,
		MinSamplesLeaf: 1,
	}
}

func (o ForestOpts) validate() error {
	switch {
	case o.Trees < 1:
		return fmt.Errorf("%w: trees %d", ErrInvalidOption, o.Trees)
	case o.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth %d", ErrInvalidOption, o.MaxDepth)
	case o.MinSamplesLeaf < 1:
		return fmt.Errorf("%w: min_samples_leaf %d", ErrInvalidOption, o.MinSamplesLeaf)
	}
	return nil
}

// A Forest is a fitted random forest regressor. It is read-only and safe for
// concurrent use.
type Forest struct {
	trees     []*regressionTree
	nFeatures int
}

// FitForest fits a random forest regressor on x and y.
//
// Each tree is grown on a bootstrap sample of the rows and considers every
// feature at every split. Trees draw their seeds in order from one generator
// seeded with Seed, so a fit is fully determined by its inputs and options.
func FitForest(x mat.Matrix, y mat.Vector, opts ...ForestOpt) (*Forest, error) {
	base := DefaultForestOpts()
	for _, applyOpt := range opts {
		applyOpt(&base)
	}
	if err := base.validate(); err != nil {
		return nil, err
	}
	if err := checkShape(x, y); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("fit").Observe(time.Since(start).Seconds())
	}()

	n, c := x.Dims()
	cols := denseColumns(x)
	target := make([]float64, n)
	for i := range target {
		target[i] = y.AtVec(i)
	}

	rng := rand.New(rand.NewSource(base.Seed))
	forest := &Forest{
		trees:     make([]*regressionTree, base.Trees),
		nFeatures: c,
	}
	samples := make([]int, n)
	for t := range forest.trees {
		treeRNG := rand.New(rand.NewSource(rng.Int63()))
		for i := range samples {
			samples[i] = treeRNG.Intn(n)
		}
		forest.trees[t] = growTree(cols, target, samples, base, treeRNG)
	}

	return forest, nil
}

// Predict returns the mean tree prediction for each row of x.
func (f *Forest) Predict(x mat.Matrix) ([]float64, error) {
	r, c := x.Dims()
	if c != f.nFeatures {
		return nil, fmt.Errorf("%w: matrix has %d columns, forest was fit on %d",
			ErrShapeMismatch, c, f.nFeatures)
	}

	fm, sparse := x.(*FeatureMatrix)
	scores := make([]float64, r)
	for i := range scores {
		row := func(j int) float64 { return x.At(i, j) }
		if sparse {
			row = fm.rowFunc(i)
		}
		var sum float64
		for _, t := range f.trees {
			sum += t.predict(row)
		}
		scores[i] = sum / float64(len(f.trees))
	}
	return scores, nil
}

// FitAndScore fits a forest on x and y and returns its in-sample predictions,
// one per row of x in row order.
func FitAndScore(x mat.Matrix, y mat.Vector, opts ...ForestOpt) ([]float64, error) {
	forest, err := FitForest(x, y, opts...)
	if err != nil {
		return nil, err
	}
	return forest.Predict(x)
}

func checkShape(x mat.Matrix, y mat.Vector) error {
	rows, targets := 0, 0
	if x != nil {
		rows, _ = x.Dims()
	}
	if y != nil {
		targets = y.Len()
	}
	if rows == 0 || rows != targets {
		return &ShapeMismatchError{Rows: rows, Targets: targets}
	}
	return nil
}
