// Package source provides ReviewSource implementations: in-memory fixtures,
// review files and saved review pages.
package source

import (
	"context"

	"github.com/tsawler/reviewrank"
)

// Static is a fixed batch of reviews.
type Static []reviewrank.Review

var _ reviewrank.ReviewSource = Static(nil)

// Reviews returns a copy of s.
func (s Static) Reviews(ctx context.Context) ([]reviewrank.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]reviewrank.Review, len(s))
	copy(out, s)
	return out, nil
}
