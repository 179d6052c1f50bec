// Package testutil provides deterministic fixture data for tests.
package testutil

import (
	"fmt"

	"github.com/vanderheijden86/orbital/pkg/model"
)

var categoryNames = []string{
	"language", "framework", "database", "queue", "cache",
	"observability", "infra", "testing",
}

// GenerateItems returns n items spread round-robin over the given
// number of categories, each linked to the previous item so the graph
// is connected. Output is fully deterministic.
func GenerateItems(n, categories int) []model.Item {
	if categories < 1 {
		categories = 1
	}
	items := make([]model.Item, 0, n)
	for i := 0; i < n; i++ {
		it := model.Item{
			ID:       fmt.Sprintf("tech-%03d", i),
			Name:     fmt.Sprintf("Technology %d", i),
			Category: categoryNames[i%categories%len(categoryNames)],
		}
		if categories > len(categoryNames) {
			it.Category = fmt.Sprintf("category-%d", i%categories)
		}
		if i > 0 {
			it.RelatedIDs = []string{fmt.Sprintf("tech-%03d", i-1)}
		}
		items = append(items, it)
	}
	return items
}
