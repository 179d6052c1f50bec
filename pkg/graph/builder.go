// Package graph builds the technology graph from a flat item list:
// duplicate-id validation, category grouping in first-seen order, and
// connection derivation from related-id references. It does no
// positioning; that is pkg/layout's job.
package graph

import (
	"sort"

	"github.com/vanderheijden86/orbital/pkg/metrics"
	"github.com/vanderheijden86/orbital/pkg/model"
)

// Graph is the validated, grouped view of one item set. It is built
// once per session and read-only afterwards.
type Graph struct {
	Items      []model.Item
	Categories []string // First-seen order; drives ring indexing downstream

	grouped     map[string][]model.Item
	adjacency   map[string][]string
	connections []model.Connection
	warnings    []model.InvalidReferenceWarning
}

// Build validates items and derives grouping and adjacency.
//
// An empty input is fine and yields an empty graph. Two items sharing
// an id fail the whole build with a *model.DuplicateIDError: that is a
// bug in the upstream data, not something to paper over. References to
// unknown ids and self-references are dropped from the adjacency;
// unknown ids additionally surface as warnings via Warnings().
func Build(items []model.Item) (*Graph, error) {
	defer metrics.Timer(metrics.GraphBuild)()

	g := &Graph{
		Items:     items,
		grouped:   make(map[string][]model.Item, 8),
		adjacency: make(map[string][]string, len(items)),
	}

	known := make(map[string]bool, len(items))
	for _, it := range items {
		if known[it.ID] {
			return nil, &model.DuplicateIDError{ID: it.ID}
		}
		known[it.ID] = true
	}

	for _, it := range items {
		if _, seen := g.grouped[it.Category]; !seen {
			g.Categories = append(g.Categories, it.Category)
		}
		g.grouped[it.Category] = append(g.grouped[it.Category], it)
	}

	// Resolve references. Duplicate references to the same target are
	// collapsed so a sloppy source can't double-draw an edge.
	pairSeen := make(map[string]bool)
	for _, it := range items {
		var resolved []string
		refSeen := make(map[string]bool, len(it.RelatedIDs))
		for _, ref := range it.RelatedIDs {
			if ref == it.ID || refSeen[ref] {
				continue
			}
			refSeen[ref] = true
			if !known[ref] {
				g.warnings = append(g.warnings, model.InvalidReferenceWarning{ItemID: it.ID, RefID: ref})
				continue
			}
			resolved = append(resolved, ref)

			conn := normalizePair(it.ID, ref)
			if !pairSeen[conn.Key()] {
				pairSeen[conn.Key()] = true
				g.connections = append(g.connections, conn)
			}
		}
		g.adjacency[it.ID] = resolved
	}

	// Deterministic connection order for exporters and tests.
	sort.Slice(g.connections, func(i, j int) bool {
		if g.connections[i].StartID != g.connections[j].StartID {
			return g.connections[i].StartID < g.connections[j].StartID
		}
		return g.connections[i].EndID < g.connections[j].EndID
	})

	return g, nil
}

// normalizePair orders the endpoints so each unordered pair maps to
// exactly one Connection regardless of which side declared it.
func normalizePair(a, b string) model.Connection {
	if b < a {
		a, b = b, a
	}
	return model.Connection{StartID: a, EndID: b}
}

// Members returns the items of one category in insertion order.
func (g *Graph) Members(category string) []model.Item {
	return g.grouped[category]
}

// Adjacency returns the resolved related ids for an item (dangling and
// self references already dropped).
func (g *Graph) Adjacency(id string) []string {
	return g.adjacency[id]
}

// Connections returns every unordered related pair, sorted.
func (g *Graph) Connections() []model.Connection {
	return g.connections
}

// Warnings returns the dangling-reference warnings collected during
// the build. Never nil-checked by callers; an empty slice means clean.
func (g *Graph) Warnings() []model.InvalidReferenceWarning {
	return g.warnings
}

// NodeCount returns the number of items in the graph.
func (g *Graph) NodeCount() int { return len(g.Items) }

// EdgeCount returns the number of unordered connections.
func (g *Graph) EdgeCount() int { return len(g.connections) }
