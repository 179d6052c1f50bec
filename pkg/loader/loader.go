// Package loader parses technology stack files. The canonical format
// is a JSON document with an "items" array; a bare top-level array is
// accepted too since that is what ad-hoc exports tend to look like.
package loader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/orbital/pkg/model"
)

// stackFile is the canonical document shape.
type stackFile struct {
	Name  string       `json:"name,omitempty"`
	Items []model.Item `json:"items"`
}

// LoadFile reads and parses a JSON stack file.
func LoadFile(path string) ([]model.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stack file: %w", err)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return items, nil
}

// Parse decodes stack data from either document shape.
func Parse(data []byte) ([]model.Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if trimmed[0] == '[' {
		var items []model.Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return validate(items)
	}

	var doc stackFile
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return validate(doc.Items)
}

// validate enforces the per-item constraints that don't need the whole
// graph: every item has an id and a category. Cross-item checks
// (duplicate ids, dangling references) belong to the graph build.
func validate(items []model.Item) ([]model.Item, error) {
	for i, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("item %d has no id", i)
		}
		if it.Category == "" {
			return nil, fmt.Errorf("item %q has no category", it.ID)
		}
		if it.Name == "" {
			items[i].Name = it.ID
		}
	}
	return items, nil
}
