package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tsawler/reviewrank"
)

// Selectors locate review fields in a product review page. Field selectors
// are evaluated inside each block.
type Selectors struct {
	Block     string
	Title     string
	Body      string
	Rating    string
	Upvotes   string
	Downvotes string
}

// DefaultSelectors matches the review markup of Flipkart product pages.
func DefaultSelectors() Selectors {
	return Selectors{
		Block:     "div.col._390CkK._1gY8H-",
		Title:     "p._2xg6Ul",
		Body:      "div.qwjRop",
		Rating:    "div.hGSR34",
		Upvotes:   "div._2ZibVB:not(._1FP7V7)",
		Downvotes: "div._2ZibVB._1FP7V7",
	}
}

var (
	digitsExpr   = regexp.MustCompile(`\d[\d,]*`)
	readMoreExpr = regexp.MustCompile(`(?i)\s*read more\s*$`)
)

// HTML reads reviews from saved product review pages, in path order.
type HTML struct {
	Paths     []string
	Selectors Selectors // zero value means DefaultSelectors
}

var _ reviewrank.ReviewSource = HTML{}

// Reviews parses every page and concatenates their reviews.
func (h HTML) Reviews(ctx context.Context) ([]reviewrank.Review, error) {
	sel := h.Selectors
	if sel == (Selectors{}) {
		sel = DefaultSelectors()
	}

	var reviews []reviewrank.Review
	for _, path := range h.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := parseFile(path, sel)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, page...)
	}
	return reviews, nil
}

func parseFile(path string, sel Selectors) ([]reviewrank.Review, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()

	reviews, err := ParseHTML(f, sel)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", path, err)
	}
	return reviews, nil
}

// ParseHTML extracts the reviews of one page.
func ParseHTML(r io.Reader, sel Selectors) ([]reviewrank.Review, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var (
		reviews  []reviewrank.Review
		parseErr error
	)
	doc.Find(sel.Block).EachWithBreak(func(i int, block *goquery.Selection) bool {
		review, err := parseBlock(block, sel)
		if err != nil {
			parseErr = fmt.Errorf("review block %d: %w", i, err)
			return false
		}
		reviews = append(reviews, review)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return reviews, nil
}

func parseBlock(block *goquery.Selection, sel Selectors) (reviewrank.Review, error) {
	text := func(s string) string {
		return strings.TrimSpace(block.Find(s).First().Text())
	}

	rating, err := parseCount(text(sel.Rating))
	if err != nil {
		return reviewrank.Review{}, fmt.Errorf("rating: %w", err)
	}
	up, err := parseCount(text(sel.Upvotes))
	if err != nil {
		return reviewrank.Review{}, fmt.Errorf("upvotes: %w", err)
	}
	down, err := parseCount(text(sel.Downvotes))
	if err != nil {
		return reviewrank.Review{}, fmt.Errorf("downvotes: %w", err)
	}

	return reviewrank.Review{
		Title:     text(sel.Title),
		Body:      readMoreExpr.ReplaceAllString(text(sel.Body), ""),
		Rating:    rating,
		Upvotes:   up,
		Downvotes: down,
	}, nil
}

// parseCount reads the first number in s, ignoring thousands separators.
func parseCount(s string) (int, error) {
	m := digitsExpr.FindString(s)
	if m == "" {
		return 0, fmt.Errorf("no number in %q", s)
	}
	return strconv.Atoi(strings.ReplaceAll(m, ",", ""))
}
