package reviewrank

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// TrainingConfig contains configuration for model evaluation
type TrainingConfig struct {
	Forest       []ForestOpt
	TestFraction float64 // Share of rows held out by Evaluate
	Seed         int64   // Seed for the row shuffle
	Context      context.Context
	// ProgressCallback, if set, is called after each cross-validation fold.
	ProgressCallback func(fold int, result ValidationResult)
}

// DefaultTrainingConfig returns a default training configuration
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		TestFraction: 0.2,
		Seed:         DefaultSeed,
		Context:      context.Background(),
	}
}

// TrainingMetrics contains metrics from fitting on a training split
type TrainingMetrics struct {
	TrainRows    int
	TestRows     int
	TrainingTime time.Duration
}

// CrossValidationResult contains results from cross-validation
type CrossValidationResult struct {
	MeanMAPE    float64
	StdMAPE     float64
	MeanRMSE    float64
	StdRMSE     float64
	MeanR2      float64
	FoldResults []ValidationResult
}

// ValidationResult contains regression metrics on held-out rows
type ValidationResult struct {
	MAPE float64 // Mean absolute percentage error, as a fraction
	RMSE float64 // Root mean squared error
	R2   float64 // Coefficient of determination
}

// Trainer measures how well the ranking forest generalizes. Production
// ranking scores in-sample; the Trainer is for checking that choice.
type Trainer struct {
	config TrainingConfig
}

// NewTrainer creates a new trainer with the given configuration
func NewTrainer(config TrainingConfig) *Trainer {
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Trainer{config: config}
}

// Evaluate fits on a shuffled share of the rows and scores the rest.
func (t *Trainer) Evaluate(x mat.Matrix, y mat.Vector) (ValidationResult, TrainingMetrics, error) {
	startTime := time.Now()

	if err := checkShape(x, y); err != nil {
		return ValidationResult{}, TrainingMetrics{}, err
	}
	if t.config.TestFraction <= 0 || t.config.TestFraction >= 1 {
		return ValidationResult{}, TrainingMetrics{},
			fmt.Errorf("%w: test_fraction %v outside (0, 1)", ErrInvalidOption, t.config.TestFraction)
	}

	n, _ := x.Dims()
	perm := rand.New(rand.NewSource(t.config.Seed)).Perm(n)
	testRows := int(math.Ceil(float64(n) * t.config.TestFraction))
	if testRows >= n {
		return ValidationResult{}, TrainingMetrics{},
			fmt.Errorf("%w: %d rows leave nothing to train on", ErrShapeMismatch, n)
	}

	result, err := t.fitAndValidate(x, y, perm[testRows:], perm[:testRows])
	if err != nil {
		return ValidationResult{}, TrainingMetrics{}, err
	}

	return result, TrainingMetrics{
		TrainRows:    n - testRows,
		TestRows:     testRows,
		TrainingTime: time.Since(startTime),
	}, nil
}

// CrossValidate performs k-fold cross-validation over shuffled rows.
func (t *Trainer) CrossValidate(x mat.Matrix, y mat.Vector, k int) (CrossValidationResult, error) {
	if k <= 1 {
		return CrossValidationResult{}, fmt.Errorf("%w: k must be greater than 1", ErrInvalidOption)
	}
	if err := checkShape(x, y); err != nil {
		return CrossValidationResult{}, err
	}
	n, _ := x.Dims()
	if n < k {
		return CrossValidationResult{}, fmt.Errorf("%w: %d rows for %d folds", ErrShapeMismatch, n, k)
	}

	perm := rand.New(rand.NewSource(t.config.Seed)).Perm(n)
	foldSize := n / k
	results := make([]ValidationResult, k)

	for fold := 0; fold < k; fold++ {
		select {
		case <-t.config.Context.Done():
			return CrossValidationResult{}, t.config.Context.Err()
		default:
		}

		start := fold * foldSize
		end := start + foldSize
		if fold == k-1 {
			end = n // Include remaining rows in last fold
		}

		test := perm[start:end]
		train := make([]int, 0, n-len(test))
		train = append(train, perm[:start]...)
		train = append(train, perm[end:]...)

		result, err := t.fitAndValidate(x, y, train, test)
		if err != nil {
			return CrossValidationResult{}, fmt.Errorf("fold %d: %w", fold, err)
		}
		results[fold] = result

		if t.config.ProgressCallback != nil {
			t.config.ProgressCallback(fold, result)
		}
	}

	mapes := make([]float64, k)
	rmses := make([]float64, k)
	r2s := make([]float64, k)
	for i, r := range results {
		mapes[i], rmses[i], r2s[i] = r.MAPE, r.RMSE, r.R2
	}
	meanMAPE, stdMAPE := stat.PopMeanStdDev(mapes, nil)
	meanRMSE, stdRMSE := stat.PopMeanStdDev(rmses, nil)

	return CrossValidationResult{
		MeanMAPE:    meanMAPE,
		StdMAPE:     stdMAPE,
		MeanRMSE:    meanRMSE,
		StdRMSE:     stdRMSE,
		MeanR2:      stat.Mean(r2s, nil),
		FoldResults: results,
	}, nil
}

func (t *Trainer) fitAndValidate(x mat.Matrix, y mat.Vector, train, test []int) (ValidationResult, error) {
	forest, err := FitForest(subsetRows(x, train), subsetVec(y, train), t.config.Forest...)
	if err != nil {
		return ValidationResult{}, err
	}
	predicted, err := forest.Predict(subsetRows(x, test))
	if err != nil {
		return ValidationResult{}, err
	}
	actual := make([]float64, len(test))
	for k, i := range test {
		actual[k] = y.AtVec(i)
	}
	return Score(actual, predicted), nil
}

// Score computes regression metrics for predicted against actual.
//
// MAPE divides by max(|actual|, machine epsilon), so a zero target gives a
// large but finite error. R2 is 1 for a perfect fit of constant targets and
// 0 for an imperfect one.
func Score(actual, predicted []float64) ValidationResult {
	n := float64(len(actual))
	if n == 0 {
		return ValidationResult{}
	}

	var ape float64
	for i, a := range actual {
		ape += math.Abs(a-predicted[i]) / math.Max(math.Abs(a), epsilon)
	}
	rmse := floats.Distance(actual, predicted, 2) / math.Sqrt(n)

	var r2 float64
	switch {
	case rmse == 0:
		r2 = 1
	case stat.Variance(actual, nil) > 0:
		r2 = stat.RSquaredFrom(predicted, actual, nil)
	}

	return ValidationResult{
		MAPE: ape / n,
		RMSE: rmse,
		R2:   r2,
	}
}

// epsilon is the float64 machine epsilon.
const epsilon = 2.220446049250313e-16

func subsetVec(v mat.Vector, idx []int) *mat.VecDense {
	out := mat.NewVecDense(len(idx), nil)
	for k, i := range idx {
		out.SetVec(k, v.AtVec(i))
	}
	return out
}
