// Package ui implements the interactive terminal view: a projected
// rendering of the technology graph driven by a fixed-rate frame loop,
// with keyboard-driven focus, a markdown detail panel, snapshot export
// and live reload of the data source.
package ui

import (
	"fmt"
	"sort"

	"github.com/vanderheijden86/orbital/pkg/config"
	"github.com/vanderheijden86/orbital/pkg/graph"
	"github.com/vanderheijden86/orbital/pkg/layout"
	"github.com/vanderheijden86/orbital/pkg/model"
	"github.com/vanderheijden86/orbital/pkg/scene"
)

// Session bundles everything derived from one item set: the built
// graph, the laid-out nodes, the style table and the live scene
// controller. A data source reload replaces the whole session.
type Session struct {
	Graph       *graph.Graph
	Nodes       []model.Node
	Connections []model.Connection
	Styles      *model.StyleTable
	Stats       *graph.Stats
	Controller  *scene.Controller
}

// NewSession builds a session from raw items. The error is the graph
// build error (duplicate ids); layout and controller construction
// cannot fail.
func NewSession(items []model.Item, cfg config.Config) (*Session, error) {
	g, err := graph.Build(items)
	if err != nil {
		return nil, err
	}

	opts := layout.Options{
		BaseRadius:      cfg.Layout.BaseRadius,
		RingStep:        cfg.Layout.RingStep,
		JitterAmplitude: cfg.Layout.JitterAmplitude,
	}
	nodes := layout.Compute(g, opts)

	tier, ok := model.ParseQualityTier(cfg.UI.StartTier)
	if !ok {
		tier = model.QualityHigh
	}
	ctrl := scene.NewControllerWith(nodes, g.Connections(), scene.ControllerOptions{
		StartTier:     tier,
		DisableWobble: cfg.UI.DisableWobble,
	})

	return &Session{
		Graph:       g,
		Nodes:       nodes,
		Connections: g.Connections(),
		Styles:      model.NewStyleTable(g.Categories),
		Stats:       graph.ComputeStats(g),
		Controller:  ctrl,
	}, nil
}

// Close releases the session's controller. Idempotent.
func (s *Session) Close() {
	if s != nil && s.Controller != nil {
		s.Controller.Close()
	}
}

// NodeByID returns the session node with the given id.
func (s *Session) NodeByID(id string) (model.Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Node{}, false
}

// TextListing renders the non-interactive fallback: categories and
// their members with connection counts, usable on dumb terminals and
// in pipelines.
func (s *Session) TextListing() string {
	var out string
	out += fmt.Sprintf("%d technologies, %d connections, %d categories\n\n",
		s.Stats.NodeCount, s.Stats.EdgeCount, len(s.Graph.Categories))

	for _, cat := range s.Graph.Categories {
		members := s.Graph.Members(cat)
		out += fmt.Sprintf("%s (%d)\n", cat, len(members))
		for _, it := range members {
			deg := s.Stats.Degree[it.ID]
			out += fmt.Sprintf("  %-20s %s", it.ID, it.Name)
			if deg > 0 {
				out += fmt.Sprintf("  [%d links]", deg)
			}
			out += "\n"
		}
		out += "\n"
	}

	if ws := s.Graph.Warnings(); len(ws) > 0 {
		msgs := make([]string, 0, len(ws))
		for _, w := range ws {
			msgs = append(msgs, w.String())
		}
		sort.Strings(msgs)
		out += "warnings:\n"
		for _, m := range msgs {
			out += "  " + m + "\n"
		}
	}
	return out
}
