package reviewrank

import (
	"fmt"
	"sync"
)

// A Review is a single raw review as produced by a ReviewSource.
type Review struct {
	Title     string `yaml:"title" json:"title"`         // The review's headline.
	Body      string `yaml:"body" json:"body"`           // The review's text, untouched.
	Rating    int    `yaml:"rating" json:"rating"`       // Star rating, 1 through 5.
	Upvotes   int    `yaml:"upvotes" json:"upvotes"`     // "Helpful" votes.
	Downvotes int    `yaml:"downvotes" json:"downvotes"` // "Not helpful" votes.
}

// Validate reports whether r satisfies the input contract.
func (r Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating %d outside [1, 5]", r.Rating)
	}
	if r.Upvotes < 0 || r.Downvotes < 0 {
		return fmt.Errorf("negative vote count (up=%d, down=%d)", r.Upvotes, r.Downvotes)
	}
	return nil
}

// NetVotes returns upvotes minus downvotes.
func (r Review) NetVotes() int {
	return r.Upvotes - r.Downvotes
}

// A FeatureRecord holds the features derived from one review that survived the
// signal filter.
type FeatureRecord struct {
	Index        int       `yaml:"index" json:"index"`                 // Position of the source review in the input batch.
	Body         string    `yaml:"body" json:"body"`                   // Normalized review text.
	Rating       int       `yaml:"rating" json:"rating"`               // Star rating.
	Sentiment    Sentiment `yaml:"sentiment" json:"sentiment"`         // Label computed from the original text.
	NumSentences int       `yaml:"num_sentences" json:"num_sentences"` // Sentences in the original text.
	Target       float64   `yaml:"target" json:"target"`               // Helpfulness, upvotes over total votes.
}

// A RankedReview pairs a review with the features derived from it and its
// predicted helpfulness.
type RankedReview struct {
	Review Review        `yaml:"review" json:"review"`
	Record FeatureRecord `yaml:"features" json:"features"`
	Score  float64       `yaml:"score" json:"score"`
}

// A Token represents an individual token of text such as a word or punctuation
// symbol.
type Token struct {
	Text  string // The token's actual content.
	Start int    // Start position in original text
	End   int    // End position in original text
}

// A Sentence represents a segmented portion of text.
type Sentence struct {
	Text  string // The sentence's text.
	Start int    // Start position in original text
	End   int    // End position in original text
}

// String returns the text content of the sentence
func (s Sentence) String() string {
	return s.Text
}

// A TokenPool recycles Token values between tokenizer calls. The batch
// pipeline tokenizes every review body once and discards the tokens right
// after lemmatizing, so a Model shares one pool across all workers.
type TokenPool struct {
	pool sync.Pool
}

// NewTokenPool returns an empty pool.
func NewTokenPool() *TokenPool {
	tp := &TokenPool{}
	tp.pool.New = func() any { return new(Token) }
	return tp
}

// Get returns a zeroed token.
func (tp *TokenPool) Get() *Token {
	return tp.pool.Get().(*Token)
}

// Put zeroes tok and makes it available to Get. tok must not be used after.
func (tp *TokenPool) Put(tok *Token) {
	*tok = Token{}
	tp.pool.Put(tok)
}

// Sentiment is the coarse polarity label of a review.
type Sentiment string

const (
	Positive Sentiment = "pos"
	Neutral  Sentiment = "neu"
	Negative Sentiment = "neg"
)

// Sentiments lists every label in the order used for indicator columns.
var Sentiments = []Sentiment{Positive, Neutral, Negative}
