package reviewrank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("Great phone. Battery is weak! Would I buy again?")
	require.NoError(t, err)

	sents := doc.Sentences()
	require.Len(t, sents, 3)
	assert.Equal(t, "Great phone.", strings.TrimSpace(sents[0].String()))
	assert.NotEmpty(t, doc.Tokens())
}

func TestNewDocument_Options(t *testing.T) {
	doc, err := NewDocument("Good phone. Nice case.", WithTokenization(false))
	require.NoError(t, err)
	assert.Empty(t, doc.Tokens())
	assert.Len(t, doc.Sentences(), 2)

	doc, err = NewDocument("Good phone. Nice case.", WithSegmentation(false), UsingDocumentModel(mustDefaultModel()))
	require.NoError(t, err)
	assert.Empty(t, doc.Sentences())
	assert.Equal(t, []string{"Good", "phone", ".", "Nice", "case", "."}, tokenValueTexts(doc.Tokens()))
}

func TestNewDocument_Blank(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		doc, err := NewDocument(text)
		require.NoError(t, err)
		assert.Empty(t, doc.Sentences(), "text: %q", text)
	}
}

func TestNewDocument_Sentiment(t *testing.T) {
	doc, err := NewDocument("I love this phone! The camera is absolutely amazing.")
	require.NoError(t, err)
	assert.Equal(t, Positive, doc.Sentiment())

	doc, err = NewDocument("I love this phone!", WithSentiment(false))
	require.NoError(t, err)
	assert.Equal(t, Sentiment(""), doc.Sentiment())
}

func tokenValueTexts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	return texts
}
