package reviewrank

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput signals that no review survived the signal filter.
	ErrEmptyInput = errors.New("no reviews to rank")
	// ErrUndefinedTarget signals a zero vote total reaching target computation.
	ErrUndefinedTarget = errors.New("helpfulness target undefined")
	// ErrEmptyVocabulary signals that the frequency cutoff left no terms.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
	// ErrShapeMismatch signals an empty matrix or a row count differing from the target count.
	ErrShapeMismatch = errors.New("feature matrix and target shape mismatch")
	// ErrInvalidReview signals a review that violates the input contract.
	ErrInvalidReview = errors.New("invalid review")
	// ErrInvalidOption signals an out-of-range pipeline option.
	ErrInvalidOption = errors.New("invalid option")
)

// UndefinedTargetError wraps ErrUndefinedTarget with the offending review.
type UndefinedTargetError struct {
	Index int
}

func (e *UndefinedTargetError) Error() string {
	return fmt.Sprintf("%s: review %d has no votes", ErrUndefinedTarget.Error(), e.Index)
}

func (e *UndefinedTargetError) Unwrap() error { return ErrUndefinedTarget }

// ShapeMismatchError wraps ErrShapeMismatch with the observed sizes.
type ShapeMismatchError struct {
	Rows    int
	Targets int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: %d rows, %d targets", ErrShapeMismatch.Error(), e.Rows, e.Targets)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// InvalidReviewError wraps ErrInvalidReview with the review position and cause.
type InvalidReviewError struct {
	Index  int
	Reason error
}

func (e *InvalidReviewError) Error() string {
	return fmt.Sprintf("%s %d: %v", ErrInvalidReview.Error(), e.Index, e.Reason)
}

func (e *InvalidReviewError) Unwrap() error { return ErrInvalidReview }
