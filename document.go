package reviewrank

// A DocOpt represents a setting that changes how a review body is analyzed.
//
// For example, it might skip tokenization:
//
//	doc, err := reviewrank.NewDocument(body, reviewrank.WithTokenization(false))
type DocOpt func(doc *Document, opts *DocOpts)

// DocOpts selects the analyses NewDocument runs:
type DocOpts struct {
	Segment  bool // Split into sentences
	Tokenize bool // Split into word and punctuation tokens
	Label    bool // Compute the sentiment label
}

// WithSegmentation turns sentence segmentation on (the default) or off.
func WithSegmentation(include bool) DocOpt {
	return func(_ *Document, opts *DocOpts) {
		opts.Segment = include
	}
}

// WithTokenization turns tokenization on (the default) or off.
func WithTokenization(include bool) DocOpt {
	return func(_ *Document, opts *DocOpts) {
		opts.Tokenize = include
	}
}

// WithSentiment turns sentiment labelling on (the default) or off.
func WithSentiment(include bool) DocOpt {
	return func(_ *Document, opts *DocOpts) {
		opts.Label = include
	}
}

// UsingDocumentModel analyzes with model instead of DefaultModel.
func UsingDocumentModel(model *Model) DocOpt {
	return func(doc *Document, _ *DocOpts) {
		doc.Model = model
	}
}

// A Document is a review body together with the analyses run over its
// original, un-normalized text.
type Document struct {
	Model *Model
	Text  string

	sentences []Sentence
	tokens    []Token
	sentiment Sentiment
}

// Sentences returns the sentences of the body. Blank text has none.
func (doc *Document) Sentences() []Sentence {
	return doc.sentences
}

// Tokens returns the body's word and punctuation tokens.
func (doc *Document) Tokens() []Token {
	return doc.tokens
}

// Sentiment returns the body's label, or "" when labelling was off.
func (doc *Document) Sentiment() Sentiment {
	return doc.sentiment
}

// NewDocument analyzes a review body.
func NewDocument(text string, opts ...DocOpt) (*Document, error) {
	doc := &Document{Text: text}
	selected := DocOpts{Segment: true, Tokenize: true, Label: true}
	for _, applyOpt := range opts {
		applyOpt(doc, &selected)
	}

	if doc.Model == nil {
		m, err := DefaultModel()
		if err != nil {
			return nil, err
		}
		doc.Model = m
	}

	if selected.Label {
		doc.sentiment = doc.Model.ClassifySentiment(text)
	}
	if selected.Segment {
		doc.sentences = doc.Model.Sentences(text)
	}
	if selected.Tokenize {
		toks := doc.Model.tokenizer.Tokenize(text)
		doc.tokens = make([]Token, len(toks))
		for i, tok := range toks {
			doc.tokens[i] = *tok
		}
		doc.Model.tokenizer.Release(toks)
	}
	return doc, nil
}
