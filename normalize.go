package reviewrank

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// disallowedRE matches everything the punctuation pass removes: any byte that
// is not a word character, whitespace, or one of % , - .
var disallowedRE = regexp.MustCompile(`[^\w\s%,\-.]`)

// nonASCII matches runes outside printable ASCII, except whitespace.
var nonASCII = runes.Predicate(func(r rune) bool {
	if r > unicode.MaxASCII {
		return true
	}
	return unicode.IsControl(r) && !unicode.IsSpace(r)
})

// Normalize cleans review text for the lexical features using the shared
// Model. See (*Model).Normalize.
func Normalize(text string) string {
	return mustDefaultModel().Normalize(text)
}

// Normalize applies, in order: non-ASCII removal, punctuation removal, then
// lemmatization with stop-word removal. The passes are not commutative;
// punctuation removal assumes ASCII input and lemmatization assumes clean tokens.
//
// Normalize is idempotent.
func (m *Model) Normalize(text string) string {
	text = StripNonASCII(text)
	text = StripPunctuation(text)
	return m.Lemmatize(text)
}

// StripNonASCII deletes emoji and any other non-ASCII or control rune, then
// trims surrounding whitespace.
func StripNonASCII(text string) string {
	out, _, err := transform.String(runes.Remove(nonASCII), text)
	if err != nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(out)
}

// StripPunctuation keeps word characters, whitespace and % , - . only, then
// trims surrounding whitespace.
func StripPunctuation(text string) string {
	return strings.TrimSpace(disallowedRE.ReplaceAllString(text, ""))
}

// Lemmatize lower-cases and tokenizes text, drops stop words, replaces each
// remaining word by its lemma, and joins the result with single spaces.
func (m *Model) Lemmatize(text string) string {
	text = cases.Lower(language.English).String(text)

	tokens := m.tokenizer.Tokenize(text)
	defer m.tokenizer.Release(tokens)

	lemmas := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		word := tok.Text
		if m.IsStopWord(word) {
			continue
		}
		lemma := m.Lemma(word)
		if StripPunctuation(StripNonASCII(lemma)) != lemma {
			// The dictionary carries a few malformed base forms.
			lemma = word
		}
		// A lemma can itself be a stop word (went -> go).
		if lemma == "" || m.IsStopWord(lemma) {
			continue
		}
		lemmas = append(lemmas, lemma)
	}
	return strings.Join(lemmas, " ")
}
