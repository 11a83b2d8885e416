package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/reviewrank"
)

// File reads reviews from a YAML or JSON file. The document is either a list
// of reviews or a mapping with a "reviews" list.
type File struct {
	Path string
}

var _ reviewrank.ReviewSource = File{}

type reviewFile struct {
	Reviews []reviewrank.Review `yaml:"reviews"`
}

// Reviews reads and decodes the file.
func (f File) Reviews(ctx context.Context) ([]reviewrank.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Clean(f.Path))
	if err != nil {
		return nil, fmt.Errorf("read reviews %s: %w", f.Path, err)
	}
	reviews, err := DecodeReviews(data)
	if err != nil {
		return nil, fmt.Errorf("decode reviews %s: %w", f.Path, err)
	}
	return reviews, nil
}

// DecodeReviews decodes a YAML or JSON review document. JSON is accepted as
// the YAML subset it is.
func DecodeReviews(data []byte) ([]reviewrank.Review, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var reviews []reviewrank.Review
		if err := root.Decode(&reviews); err != nil {
			return nil, err
		}
		return reviews, nil
	case yaml.MappingNode:
		var rf reviewFile
		if err := root.Decode(&rf); err != nil {
			return nil, err
		}
		return rf.Reviews, nil
	default:
		return nil, fmt.Errorf("line %d: expected a list of reviews or a mapping", root.Line)
	}
}
