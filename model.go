package reviewrank

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jonreiter/govader"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// maxLemmaSteps bounds the walk to a lemma fixed point. The dictionary maps a
// handful of base forms onto other base forms.
const maxLemmaSteps = 4

// A Model holds the English language resources used by the pipeline: a sentence
// segmenter, a lemmatizer, a polarity analyzer and a word tokenizer.
//
// A loaded Model is read-only and safe for concurrent use.
type Model struct {
	Name string

	segmenter  *sentences.DefaultSentenceTokenizer
	lemmatizer *golem.Lemmatizer
	analyzer   *govader.SentimentIntensityAnalyzer
	tokenizer  Tokenizer
	stopWords  *stopWordSet
}

var (
	sharedModel    *Model
	sharedModelErr error
	sharedOnce     sync.Once
)

// LoadModel builds a new English Model from the embedded dictionaries.
func LoadModel() (*Model, error) {
	segmenter, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load sentence segmenter: %w", err)
	}

	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}

	return &Model{
		Name: "en-reviews-v1",

		segmenter:  segmenter,
		lemmatizer: lemmatizer,
		analyzer:   govader.NewSentimentIntensityAnalyzer(),
		tokenizer:  NewIterTokenizer(UsingTokenPool(NewTokenPool())),
		stopWords:  englishStopWords,
	}, nil
}

// DefaultModel returns the process-wide Model, loading it on first use.
func DefaultModel() (*Model, error) {
	sharedOnce.Do(func() {
		sharedModel, sharedModelErr = LoadModel()
	})
	return sharedModel, sharedModelErr
}

// mustDefaultModel is DefaultModel for callers with no error path. The
// resources are compiled into the binary, so a failure is a build defect.
func mustDefaultModel() *Model {
	m, err := DefaultModel()
	if err != nil {
		panic(err)
	}
	return m
}

// Sentences segments text into sentences, skipping blank spans.
func (m *Model) Sentences(text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []Sentence
	for _, s := range m.segmenter.Tokenize(text) {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		out = append(out, Sentence{Text: s.Text, Start: s.Start, End: s.End})
	}
	return out
}

// Lemma returns the base form of a lower-cased word.
func (m *Model) Lemma(word string) string {
	lemma := word
	for i := 0; i < maxLemmaSteps; i++ {
		next := m.lemmatizer.LemmaLower(lemma)
		if next == lemma {
			break
		}
		lemma = next
	}
	return lemma
}

// Compound returns the VADER compound polarity of text, in [-1, 1].
func (m *Model) Compound(text string) float64 {
	return m.analyzer.PolarityScores(text).Compound
}

// IsStopWord reports whether word is an English stop word.
func (m *Model) IsStopWord(word string) bool {
	return m.stopWords.contains(word)
}
