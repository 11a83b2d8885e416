package reviewrank

// Compound-score cut-offs. A score equal to a cut-off takes the outer label.
const (
	PositiveThreshold = 0.5
	NegativeThreshold = -0.5
)

// ClassifySentiment labels text using the shared Model.
func ClassifySentiment(text string) Sentiment {
	return mustDefaultModel().ClassifySentiment(text)
}

// ClassifySentiment labels the original, un-normalized text of a review from
// its VADER compound score. Punctuation and capitalization carry signal here,
// so this must run before Normalize.
func (m *Model) ClassifySentiment(text string) Sentiment {
	return SentimentFromCompound(m.Compound(text))
}

// SentimentFromCompound maps a compound score in [-1, 1] to a label:
//
//	score >= 0.5        -> Positive
//	-0.5 < score < 0.5  -> Neutral
//	score <= -0.5       -> Negative
//
// Every input maps to exactly one label; NaN is Neutral.
func SentimentFromCompound(score float64) Sentiment {
	switch {
	case score >= PositiveThreshold:
		return Positive
	case score <= NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}
