package reviewrank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultModel_Shared(t *testing.T) {
	a, err := DefaultModel()
	require.NoError(t, err)
	b, err := DefaultModel()
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, "en-reviews-v1", a.Name)
}

func TestModelLemma(t *testing.T) {
	m := mustDefaultModel()

	tests := []struct {
		word, want string
	}{
		{"loved", "love"},
		{"batteries", "battery"},
		{"phones", "phone"},
		{"battery", "battery"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Lemma(tt.word), "word: %q", tt.word)
	}
}

func TestModelLemma_FixedPoint(t *testing.T) {
	m := mustDefaultModel()
	for _, w := range []string{"loved", "was", "better", "worst", "went", "children"} {
		lemma := m.Lemma(w)
		assert.Equal(t, lemma, m.Lemma(lemma), "word: %q", w)
	}
}
