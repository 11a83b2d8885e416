package reviewrank

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tsawler/reviewrank/internal/metrics"
)

// DefaultMinDocFreq keeps terms that occur in at least 1% of documents.
const DefaultMinDocFreq = 0.01

// termRE accepts word-boundary tokens with at least one letter.
var termRE = regexp.MustCompile(`(?i)\b\w*[a-z]+\w*\b`)

// A VectorizeOpt represents a setting that changes vectorization.
type VectorizeOpt func(opts *VectorizeOpts)

// VectorizeOpts controls Vectorize:
type VectorizeOpts struct {
	MinDocFreq       float64 // Minimum fraction of documents containing a term
	SentimentColumns bool    // If true, append one-hot sentiment columns
}

// WithMinDocFreq sets the document frequency cutoff, a fraction of the batch.
// Values above 1 leave no term; negative values are rejected.
func WithMinDocFreq(f float64) VectorizeOpt {
	return func(opts *VectorizeOpts) {
		opts.MinDocFreq = f
	}
}

// WithSentimentColumns enables (or disables, the default) the
// sentiment_pos, sentiment_neu and sentiment_neg indicator columns.
func WithSentimentColumns(include bool) VectorizeOpt {
	return func(opts *VectorizeOpts) {
		opts.SentimentColumns = include
	}
}

// Vectorize turns feature records into the design matrix X and the target
// vector y. Row i of both belongs to records[i].
//
// The term block is TF-IDF over the normalized bodies: raw counts weighted by
// the smoothed inverse document frequency ln((1+n)/(1+df)) + 1, each row scaled
// to unit Euclidean length. Terms in fewer than MinDocFreq·n documents are
// dropped and the rest are sorted to give the column order. The rating and
// sentence count columns follow.
func Vectorize(records []FeatureRecord, opts ...VectorizeOpt) (*FeatureMatrix, *mat.VecDense, error) {
	base := VectorizeOpts{MinDocFreq: DefaultMinDocFreq}
	for _, applyOpt := range opts {
		applyOpt(&base)
	}
	if base.MinDocFreq < 0 || math.IsNaN(base.MinDocFreq) {
		return nil, nil, fmt.Errorf("%w: min_doc_freq %v", ErrInvalidOption, base.MinDocFreq)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("vectorize: %w", ErrEmptyInput)
	}

	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("vectorize").Observe(time.Since(start).Seconds())
	}()

	n := len(records)
	counts := make([]map[string]int, n)
	df := make(map[string]int)
	for i, rec := range records {
		counts[i] = termCounts(rec.Body)
		for term := range counts[i] {
			df[term]++
		}
	}

	minCount := base.MinDocFreq * float64(n)
	vocabulary := make([]string, 0, len(df))
	for term, d := range df {
		if float64(d) >= minCount {
			vocabulary = append(vocabulary, term)
		}
	}
	if len(vocabulary) == 0 {
		return nil, nil, fmt.Errorf("%w: no term in at least %.4g of %d documents",
			ErrEmptyVocabulary, base.MinDocFreq, n)
	}
	sort.Strings(vocabulary)
	metrics.VocabularySize.Set(float64(len(vocabulary)))

	column := make(map[string]int, len(vocabulary))
	idf := make([]float64, len(vocabulary))
	for j, term := range vocabulary {
		column[term] = j
		idf[j] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	terms := make([]termRow, n)
	for i, tc := range counts {
		var row termRow
		for term := range tc {
			if j, ok := column[term]; ok {
				row.cols = append(row.cols, j)
			}
		}
		sort.Ints(row.cols)
		row.weights = make([]float64, len(row.cols))
		for k, j := range row.cols {
			row.weights[k] = float64(tc[vocabulary[j]]) * idf[j]
		}
		if norm := floats.Norm(row.weights, 2); norm > 0 {
			floats.Scale(1/norm, row.weights)
		}
		terms[i] = row
	}

	numNames := []string{"rating", "num_sentences"}
	if base.SentimentColumns {
		for _, s := range Sentiments {
			numNames = append(numNames, "sentiment_"+string(s))
		}
	}
	numeric := mat.NewDense(n, len(numNames), nil)
	target := make([]float64, n)
	for i, rec := range records {
		numeric.Set(i, 0, float64(rec.Rating))
		numeric.Set(i, 1, float64(rec.NumSentences))
		if base.SentimentColumns {
			for k, s := range Sentiments {
				if rec.Sentiment == s {
					numeric.Set(i, 2+k, 1)
				}
			}
		}
		target[i] = rec.Target
	}

	x := &FeatureMatrix{
		vocabulary: vocabulary,
		terms:      terms,
		numeric:    numeric,
		numNames:   numNames,
	}
	return x, mat.NewVecDense(n, target), nil
}

// termCounts counts the lexical terms of an already normalized body.
func termCounts(body string) map[string]int {
	counts := make(map[string]int)
	for _, term := range termRE.FindAllString(strings.ToLower(body), -1) {
		if englishStopWords.contains(term) {
			continue
		}
		counts[term]++
	}
	return counts
}
