package repository

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// catalogFile is the document shape of a catalog with a top-level key.
type catalogFile struct {
	Matches []Match `yaml:"matches"`
}

// LoadCatalog reads matches from a YAML or JSON file. The document is either a
// list of matches or a mapping with a "matches" list. Every match must carry
// an id and pass validation.
func LoadCatalog(ctx context.Context, path string) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) ([]Match, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if len(root.Content) == 0 {
		return []Match{}, nil
	}

	var matches []Match
	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&matches); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
		}
	case yaml.MappingNode:
		var file catalogFile
		if err := doc.Decode(&file); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
		}
		matches = file.Matches
	default:
		return nil, fmt.Errorf("%w: expected a list or a mapping", ErrInvalidCatalog)
	}

	seen := make(map[string]struct{}, len(matches))
	for i := range matches {
		m := &matches[i]
		if m.ID == "" {
			return nil, fmt.Errorf("%w: match %d: %w", ErrInvalidCatalog, i, ErrMissingID)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate match id %q", ErrInvalidCatalog, m.ID)
		}
		seen[m.ID] = struct{}{}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("%w: match %q: %w", ErrInvalidCatalog, m.ID, err)
		}
	}
	if matches == nil {
		matches = []Match{}
	}
	return matches, nil
}
