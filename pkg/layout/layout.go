// Package layout turns a built graph into positioned nodes. The layout
// is circular: each category owns a ring and an angular offset, and
// members are spaced evenly along the ring. It is a pure function of
// its input; the same graph always yields bit-identical positions.
package layout

import (
	"hash/fnv"
	"math"

	"github.com/vanderheijden86/orbital/pkg/graph"
	"github.com/vanderheijden86/orbital/pkg/metrics"
	"github.com/vanderheijden86/orbital/pkg/model"
)

// Options tune the ring geometry. Zero values are replaced by the
// defaults, so Options{} means the standard layout.
type Options struct {
	BaseRadius      float64 // Innermost ring radius
	RingStep        float64 // Radius increment between ring levels
	JitterAmplitude float64 // Max |y| offset per node
}

// DefaultOptions returns the standard ring geometry.
func DefaultOptions() Options {
	return Options{
		BaseRadius:      3,
		RingStep:        2,
		JitterAmplitude: 0.25,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BaseRadius == 0 {
		o.BaseRadius = d.BaseRadius
	}
	if o.RingStep == 0 {
		o.RingStep = d.RingStep
	}
	if o.JitterAmplitude == 0 {
		o.JitterAmplitude = d.JitterAmplitude
	}
	return o
}

// ringLevels is how many distinct radii the layout cycles through.
// Categories beyond the third share a radius with an earlier one but
// keep their own angular offset, so they stay visually separable.
const ringLevels = 3

// Compute positions every item of g on its category ring and returns
// the resulting nodes in the graph's item order. An empty graph yields
// an empty slice. Compute never fails: every input that survived the
// graph build has a well-defined position.
func Compute(g *graph.Graph, opts Options) []model.Node {
	defer metrics.Timer(metrics.LayoutCompute)()

	opts = opts.withDefaults()
	nodes := make([]model.Node, 0, g.NodeCount())
	if g.NodeCount() == 0 {
		return nodes
	}

	numCategories := len(g.Categories)
	positions := make(map[string]model.Vec3, g.NodeCount())

	for catIdx, category := range g.Categories {
		members := g.Members(category)
		radius := opts.BaseRadius + float64(catIdx%ringLevels)*opts.RingStep
		offset := float64(catIdx) * 2 * math.Pi / float64(numCategories)

		for j, it := range members {
			angle := offset + float64(j)*2*math.Pi/float64(len(members))
			positions[it.ID] = model.Vec3{
				X: radius * math.Cos(angle),
				Y: jitter(it.ID, opts.JitterAmplitude),
				Z: radius * math.Sin(angle),
			}
		}
	}

	catIndex := make(map[string]int, numCategories)
	for i, c := range g.Categories {
		catIndex[c] = i
	}

	for _, it := range g.Items {
		nodes = append(nodes, model.Node{
			ID:            it.ID,
			Name:          it.Name,
			Category:      it.Category,
			CategoryIndex: catIndex[it.Category],
			RelatedIDs:    g.Adjacency(it.ID),
			Notes:         it.Notes,
			URL:           it.URL,
			Position:      positions[it.ID],
		})
	}
	return nodes
}

// jitter derives a stable vertical offset in [-amp, amp] from the item
// id. Hash-based rather than random so layouts are reproducible and
// nodes never drift between sessions.
func jitter(id string, amp float64) float64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	// Map the hash onto [0,1) then center. 1<<53 keeps the division
	// exact in float64.
	u := float64(h.Sum64()>>11) / float64(1<<53)
	return (u*2 - 1) * amp
}
