package reviewrank

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer splits text into word and punctuation tokens.
type Tokenizer interface {
	Tokenize(string) []*Token
	// Release hands back tokens returned by Tokenize. The caller must not
	// use them afterwards.
	Release([]*Token)
}

// iterTokenizer splits a sentence into words.
//
// Whitespace-separated spans are peeled one rune at a time: leading prefixes
// and trailing suffixes become their own tokens, and contractions are split off
// the word they attach to.
type iterTokenizer struct {
	specialRE    *regexp.Regexp
	sanitizer    *strings.Replacer
	contractions []string
	suffixes     []string
	prefixes     []string
	tokenPool    *TokenPool
}

// TokenizerOptFunc configures an iterTokenizer.
type TokenizerOptFunc func(*iterTokenizer)

// UsingSpecialRE sets the regexp matching spans that must never be split.
func UsingSpecialRE(x *regexp.Regexp) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.specialRE = x
	}
}

// UsingSuffixes sets the runes split off the end of a span.
func UsingSuffixes(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.suffixes = x
	}
}

// UsingPrefixes sets the runes split off the start of a span.
func UsingPrefixes(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.prefixes = x
	}
}

// UsingContractions sets the contraction suffixes split off a word.
func UsingContractions(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.contractions = x
	}
}

// UsingTokenPool draws tokens from pool and returns released ones to it.
// Without a pool every token is freshly allocated.
func UsingTokenPool(pool *TokenPool) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.tokenPool = pool
	}
}

// NewIterTokenizer returns the default word tokenizer.
func NewIterTokenizer(opts ...TokenizerOptFunc) *iterTokenizer {
	tok := &iterTokenizer{
		specialRE:    internalRE,
		sanitizer:    sanitizer,
		contractions: contractions,
		suffixes:     suffixes,
		prefixes:     prefixes,
	}
	for _, applyOpt := range opts {
		applyOpt(tok)
	}
	return tok
}

func (t *iterTokenizer) emit(s string, start int, toks []*Token) []*Token {
	if strings.TrimSpace(s) == "" {
		return toks
	}
	token := t.newToken()
	token.Text = s
	token.Start = start
	token.End = start + len(s)
	return append(toks, token)
}

func (t *iterTokenizer) newToken() *Token {
	if t.tokenPool == nil {
		return new(Token)
	}
	return t.tokenPool.Get()
}

// Release returns tokens to the pool, if there is one.
func (t *iterTokenizer) Release(tokens []*Token) {
	if t.tokenPool == nil {
		return
	}
	for _, tok := range tokens {
		t.tokenPool.Put(tok)
	}
}

// split breaks one whitespace-free span into tokens.
func (t *iterTokenizer) split(span string, offset int) []*Token {
	var tokens, suffs []*Token

	for span != "" {
		if t.specialRE.MatchString(span) {
			tokens = t.emit(span, offset, tokens)
			break
		}

		lower := strings.ToLower(span)
		if hasAnyPrefix(span, t.prefixes) && len(span) > 1 {
			// $100 -> [$, 100]
			tokens = t.emit(span[:1], offset, tokens)
			span = span[1:]
			offset++
		} else if idx := hasAnyIndex(lower, t.contractions); idx > 0 {
			// don't -> [do, n't]
			tokens = t.emit(span[:idx], offset, tokens)
			offset += idx
			span = span[idx:]
			tokens = t.emit(span, offset, tokens)
			break
		} else if hasAnySuffix(span, t.suffixes) && len(span) > 1 {
			// great! -> [great, !]
			end := len(span) - 1
			suffix := t.newToken()
			suffix.Text = span[end:]
			suffix.Start = offset + end
			suffix.End = offset + len(span)
			suffs = append([]*Token{suffix}, suffs...)
			span = span[:end]
		} else {
			tokens = t.emit(span, offset, tokens)
			break
		}
	}

	return append(tokens, suffs...)
}

// Tokenize splits text into a slice of tokens with byte offsets into text.
func (t *iterTokenizer) Tokenize(text string) []*Token {
	clean := t.sanitizer.Replace(text)

	var tokens []*Token
	start := -1
	for i := 0; i < len(clean); {
		r, size := utf8.DecodeRuneInString(clean[i:])
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, t.split(clean[start:i], start)...)
				start = -1
			}
		} else if start < 0 {
			start = i
		}
		i += size
	}
	if start >= 0 {
		tokens = append(tokens, t.split(clean[start:], start)...)
	}

	return tokens
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, p := range suffixes {
		if strings.HasSuffix(s, p) {
			return true
		}
	}
	return false
}

// hasAnyIndex returns the position of the first contraction that ends s.
func hasAnyIndex(s string, suffixes []string) int {
	for _, p := range suffixes {
		if strings.HasSuffix(s, p) && len(s) > len(p) {
			return len(s) - len(p)
		}
	}
	return -1
}

var internalRE = regexp.MustCompile(`^(?:[A-Za-z]\.){2,}$|^[A-Z][a-z]{1,2}\.$`)
var sanitizer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"&rsquo;", "'")
var contractions = []string{"'ll", "'s", "'re", "'m", "'ve", "'d", "n't"}
var suffixes = []string{",", ")", `"`, "]", "!", ";", ".", "?", ":", "'", "%"}
var prefixes = []string{"$", "(", `"`, "["}
