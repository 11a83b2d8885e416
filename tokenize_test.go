package reviewrank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTexts(tokens []*Token) []string {
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	return texts
}

func TestIterTokenizer(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
		desc     string
	}{
		{"great phone", []string{"great", "phone"}, "Plain words"},
		{"great!", []string{"great", "!"}, "Trailing punctuation"},
		{"(really) good.", []string{"(", "really", ")", "good", "."}, "Brackets"},
		{"$100, 50%", []string{"$", "100", ",", "50", "%"}, "Currency and percent"},
		{"don't", []string{"do", "n't"}, "Negative contraction"},
		{"it's mine", []string{"it", "'s", "mine"}, "Possessive contraction"},
		{"“quoted”", []string{`"`, "quoted", `"`}, "Curly quotes"},
		{"U.S.A. Mr. ok", []string{"U.S.A.", "Mr.", "ok"}, "Abbreviations"},
		{"  spaced \t out\n", []string{"spaced", "out"}, "Whitespace"},
		{"", nil, "Empty"},
	}

	tokenizer := NewIterTokenizer()
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := tokenTexts(tokenizer.Tokenize(tt.text))
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIterTokenizer_Offsets(t *testing.T) {
	text := "wow, fine."
	tokens := NewIterTokenizer().Tokenize(text)

	for _, tok := range tokens {
		assert.Equal(t, tok.Text, text[tok.Start:tok.End])
	}
}

func TestIterTokenizer_Options(t *testing.T) {
	tokenizer := NewIterTokenizer(UsingSuffixes([]string{"!"}), UsingPrefixes(nil))
	assert.Equal(t, []string{"(great", "!"}, tokenTexts(tokenizer.Tokenize("(great!")))
}

func TestTokenPool(t *testing.T) {
	pool := NewTokenPool()
	tok := pool.Get()
	tok.Text = "x"
	tok.Start, tok.End = 1, 2
	pool.Put(tok)

	assert.Equal(t, Token{}, *tok)
}

func TestIterTokenizer_Release(t *testing.T) {
	pool := NewTokenPool()
	tokenizer := NewIterTokenizer(UsingTokenPool(pool))

	tokens := tokenizer.Tokenize("Great phone!")
	require.Len(t, tokens, 3)
	tokenizer.Release(tokens)
	for _, tok := range tokens {
		assert.Equal(t, Token{}, *tok)
	}

	again := tokenizer.Tokenize("Nice case.")
	assert.Equal(t, []string{"Nice", "case", "."}, tokenTexts(again))
	assert.Equal(t, 5, again[1].Start)
}

func TestIterTokenizer_ReleaseWithoutPool(t *testing.T) {
	tokenizer := NewIterTokenizer()
	tokens := tokenizer.Tokenize("Great phone!")
	tokenizer.Release(tokens)

	assert.Equal(t, []string{"Great", "phone", "!"}, tokenTexts(tokens))
}
