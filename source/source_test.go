package source

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/reviewrank"
)

func TestStatic(t *testing.T) {
	s := Static{{Title: "a", Rating: 4, Upvotes: 20}}

	got, err := s.Reviews(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	got[0].Title = "changed"
	assert.Equal(t, "a", s[0].Title)
}

func TestStatic_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Static{}.Reviews(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFile(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		want  int
		first reviewrank.Review
	}{
		{
			name: "yaml mapping",
			path: "reviews.yaml",
			want: 2,
			first: reviewrank.Review{
				Title:     "Worth every penny",
				Body:      "Battery lasts two days. Camera is sharp in daylight.",
				Rating:    5,
				Upvotes:   120,
				Downvotes: 8,
			},
		},
		{
			name: "json list",
			path: "reviews.json",
			want: 1,
			first: reviewrank.Review{
				Title:     "Broke in a week",
				Body:      "Screen cracked on day five. Support never answered.",
				Rating:    1,
				Upvotes:   45,
				Downvotes: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := File{Path: filepath.Join("testdata", tt.path)}.Reviews(context.Background())
			require.NoError(t, err)
			require.Len(t, got, tt.want)
			assert.Equal(t, tt.first, got[0])
		})
	}
}

func TestFile_Missing(t *testing.T) {
	_, err := File{Path: filepath.Join("testdata", "nope.yaml")}.Reviews(context.Background())
	assert.Error(t, err)
}

func TestDecodeReviews_Scalar(t *testing.T) {
	_, err := DecodeReviews([]byte("just text"))
	assert.Error(t, err)
}

func TestHTML(t *testing.T) {
	src := HTML{Paths: []string{filepath.Join("testdata", "page.html")}}

	got, err := src.Reviews(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, reviewrank.Review{
		Title:     "Terrific purchase",
		Body:      "Great sound, the bass is deep and clear.",
		Rating:    5,
		Upvotes:   1204,
		Downvotes: 96,
	}, got[0])
	assert.Equal(t, 2, got[1].Rating)
	assert.Equal(t, 31, got[1].Upvotes)
	assert.Equal(t, 4, got[1].Downvotes)
}

func TestParseHTML_MissingRating(t *testing.T) {
	page := `<div class="col _390CkK _1gY8H-"><p class="_2xg6Ul">t</p></div>`

	_, err := ParseHTML(strings.NewReader(page), DefaultSelectors())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating")
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "5", want: 5},
		{in: "4★", want: 4},
		{in: "1,204", want: 1204},
		{in: "  17 people", want: 17},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseCount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
