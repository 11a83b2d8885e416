package reviewrank

import (
	"strings"
	"sync"

	"github.com/bbalet/stopwords"
)

// Language is an ISO 639-1 language code.
type Language string

// English is the only language the pipeline processes.
const English Language = "en"

// stopWordSet answers stop-word membership for one language.
//
// The stopwords library does not export its lists, so membership is detected
// by cleaning the single word and checking whether anything is left. Answers
// are memoized; the set is safe for concurrent use.
type stopWordSet struct {
	langCode string
	cache    sync.Map // string -> bool
}

// englishStopWords is shared by every Model and by the vectorizer.
var englishStopWords = newStopWordSet(English)

func newStopWordSet(lang Language) *stopWordSet {
	return &stopWordSet{langCode: string(lang)}
}

func (s *stopWordSet) contains(word string) bool {
	if !isAlphaWord(word) {
		return false
	}
	if v, ok := s.cache.Load(word); ok {
		return v.(bool)
	}
	cleaned := stopwords.CleanString(word, s.langCode, false)
	stop := strings.TrimSpace(cleaned) == ""
	s.cache.Store(word, stop)
	return stop
}

// isAlphaWord reports whether s is made of ASCII letters and apostrophes only.
// The library's segmenter drops digits, so "a1" would otherwise read as "a".
func isAlphaWord(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letters++
		case r == '\'':
		default:
			return false
		}
	}
	return letters > 0
}
