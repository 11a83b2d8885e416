package reviewrank

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tsawler/reviewrank/internal/logger"
)

type fixtureSource struct {
	reviews []Review
	err     error
}

func (s fixtureSource) Reviews(context.Context) ([]Review, error) {
	return s.reviews, s.err
}

func TestRanker_Rank(t *testing.T) {
	reviews := fixtureReviews()
	core, logs := observer.New(zap.InfoLevel)

	ranked, err := NewRanker(
		WithRankerLogger(zap.New(core)),
		WithForestOpts(WithTrees(30)),
	).Rank(context.Background(), fixtureSource{reviews: reviews})
	require.NoError(t, err)

	var survivors int
	for _, r := range reviews {
		if r.NetVotes() > DefaultMinNetVotes {
			survivors++
		}
	}
	require.Len(t, ranked, survivors)

	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		assert.GreaterOrEqual(t, prev.Score, cur.Score)
		if prev.Score == cur.Score {
			assert.Less(t, prev.Record.Index, cur.Record.Index, "ties keep input order")
		}
	}
	for _, r := range ranked {
		assert.Equal(t, reviews[r.Record.Index], r.Review)
	}

	assert.Equal(t, 1, logs.FilterMessage("reviews ranked").Len())
}

func TestRanker_ContextLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))

	_, err := NewRanker(WithForestOpts(WithTrees(5))).RankReviews(ctx, fixtureReviews())
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("reviews ranked").Len())
}

func TestRanker_Errors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewRanker().Rank(context.Background(), fixtureSource{err: boom})
	assert.ErrorIs(t, err, boom)

	_, err = NewRanker().Rank(context.Background(), fixtureSource{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = NewRanker(WithVectorizeOpts(WithMinDocFreq(2))).
		RankReviews(context.Background(), fixtureReviews())
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRanker().RankReviews(ctx, fixtureReviews())
	assert.ErrorIs(t, err, context.Canceled)
}
