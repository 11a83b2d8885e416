package reviewrank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestStripNonASCII(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Great!! 😀😀 product", "Great!!  product"},
		{"  café au lait  ", "caf au lait"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"bell\x07char", "bellchar"},
		{"😀", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripNonASCII(tt.in), "input: %q", tt.in)
	}
}

func TestStripPunctuation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Great!!  product, LOVED it.", "Great  product, LOVED it."},
		{"50% off - really?", "50% off - really"},
		{"don't (ever) buy", "dont ever buy"},
		{"  ***  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripPunctuation(tt.in), "input: %q", tt.in)
	}
}

func TestNormalize_EmojiAndPunctuation(t *testing.T) {
	got := Normalize("Great!! 😀😀 product, LOVED it.")
	words := strings.Fields(got)

	var kept []string
	for _, w := range words {
		switch w {
		case "great", "product", "love":
			kept = append(kept, w)
		}
	}
	assert.Equal(t, []string{"great", "product", "love"}, kept, "normalized: %q", got)
	assert.NotContains(t, words, "it")
	assert.NotContains(t, words, "LOVED")
	assert.Equal(t, got, strings.ToLower(got))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Great!! 😀😀 product, LOVED it.",
		"The batteries were dying quickly, 100% disappointed.",
		"Screens are bright; speakers are loud and the phones charge fast!",
		"Don't buy this -- worst purchase I've made.",
		"",
		"   ",
		"a an the",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input: %q", in)
	}
}

func TestNormalize_StopWordsOnly(t *testing.T) {
	assert.Equal(t, "", Normalize("It is what it is"))
}

func TestLemmatize(t *testing.T) {
	m, err := DefaultModel()
	require.NoError(t, err)

	got := strings.Fields(m.Lemmatize("batteries died"))
	assert.Equal(t, []string{"battery", "die"}, got)
}

func TestLemmatize_Concurrent(t *testing.T) {
	m, err := DefaultModel()
	require.NoError(t, err)

	bodies := []string{"batteries died", "screens cracked quickly", "great cameras"}
	want := make([]string, len(bodies))
	for i, b := range bodies {
		want[i] = m.Lemmatize(b)
	}

	var g errgroup.Group
	got := make([]string, 30)
	for i := range got {
		g.Go(func() error {
			got[i] = m.Lemmatize(bodies[i%len(bodies)])
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for i, s := range got {
		assert.Equal(t, want[i%len(bodies)], s)
	}
}
