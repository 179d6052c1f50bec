package graph

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Stats holds connectivity metrics for the built graph. They feed the
// summary block in snapshot exports and the TUI status line; nothing
// in the layout or the frame loop depends on them.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Density    float64
	Components int
	Degree     map[string]int
	MaxDegree  int
	HubID      string // Highest-degree node; ties broken by id
}

// ComputeStats mirrors the graph into a gonum undirected graph and
// derives degree, density and connected-component counts from it.
func ComputeStats(g *Graph) *Stats {
	s := &Stats{
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		Degree:    make(map[string]int, g.NodeCount()),
	}
	if s.NodeCount == 0 {
		return s
	}

	ug := simple.NewUndirectedGraph()
	idToNode := make(map[string]int64, s.NodeCount)
	nodeToID := make(map[int64]string, s.NodeCount)

	for _, it := range g.Items {
		n := ug.NewNode()
		ug.AddNode(n)
		idToNode[it.ID] = n.ID()
		nodeToID[n.ID()] = it.ID
	}
	for _, c := range g.Connections() {
		u := idToNode[c.StartID]
		v := idToNode[c.EndID]
		ug.SetEdge(ug.NewEdge(ug.Node(u), ug.Node(v)))
	}

	nodes := ug.Nodes()
	for nodes.Next() {
		n := nodes.Node()
		id := nodeToID[n.ID()]
		deg := ug.From(n.ID()).Len()
		s.Degree[id] = deg
		if deg > s.MaxDegree || (deg == s.MaxDegree && (s.HubID == "" || id < s.HubID)) {
			s.MaxDegree = deg
			s.HubID = id
		}
	}

	// Density of a simple undirected graph: m / (n(n-1)/2).
	if s.NodeCount > 1 {
		s.Density = float64(2*s.EdgeCount) / float64(s.NodeCount*(s.NodeCount-1))
	}

	s.Components = len(topo.ConnectedComponents(ug))
	return s
}
