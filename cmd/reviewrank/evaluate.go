package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/reviewrank"
	"github.com/tsawler/reviewrank/internal/logger"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [paths...]",
	Short: "Measure how well the ranking model generalizes",
	Long: `Evaluate fits the ranking model on part of the reviews and scores the rest,
once as a shuffled hold-out split and once as k-fold cross-validation.

Examples:
  reviewrank evaluate reviews.yaml           # Default split and folds
  reviewrank evaluate reviews.yaml --folds 10`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().Int("folds", 0, "number of cross-validation folds (default: config evaluation.folds)")
}

type evaluationReport struct {
	Rows            int                              `yaml:"rows"`
	Columns         int                              `yaml:"columns"`
	HoldOut         reviewrank.ValidationResult      `yaml:"hold_out"`
	CrossValidation reviewrank.CrossValidationResult `yaml:"cross_validation"`
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	log := logger.FromContext(ctx)

	src, err := reviewSource(args)
	if err != nil {
		return err
	}
	reviews, err := src.Reviews(ctx)
	if err != nil {
		return err
	}

	records, err := reviewrank.BuildFeatures(reviews,
		append(featureOpts(), reviewrank.WithLogger(log))...)
	if err != nil {
		return err
	}
	x, y, err := reviewrank.Vectorize(records, vectorizeOpts()...)
	if err != nil {
		return err
	}

	folds := cfg.Evaluation.Folds
	if cmd.Flags().Changed("folds") {
		folds, _ = cmd.Flags().GetInt("folds")
	}

	trainer := reviewrank.NewTrainer(reviewrank.TrainingConfig{
		Forest:       forestOpts(),
		TestFraction: cfg.Evaluation.TestFraction,
		Seed:         cfg.Forest.Seed,
		Context:      ctx,
		ProgressCallback: func(fold int, r reviewrank.ValidationResult) {
			log.Debug("fold scored",
				zap.Int("fold", fold),
				zap.Float64("mape", r.MAPE),
				zap.Float64("rmse", r.RMSE))
		},
	})

	holdOut, fit, err := trainer.Evaluate(x, y)
	if err != nil {
		return err
	}
	log.Info("hold-out scored",
		zap.Int("train_rows", fit.TrainRows),
		zap.Int("test_rows", fit.TestRows),
		zap.Duration("elapsed", fit.TrainingTime))

	cv, err := trainer.CrossValidate(x, y, folds)
	if err != nil {
		return err
	}

	rows, cols := x.Dims()
	return writeYAML(cmd.OutOrStdout(), "", evaluationReport{
		Rows:            rows,
		Columns:         cols,
		HoldOut:         holdOut,
		CrossValidation: cv,
	})
}
