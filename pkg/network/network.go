// Package network resolves the feed graph declared by water segments: each
// segment feeds either a room or another segment.
package network

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

// WeightFunc turns a fixture tally into consumption units.
type WeightFunc func(spec.Counts) float64

// Graph indexes rooms and segments by id. The first declaration of a
// duplicated id wins. Segment-to-segment feeds are kept as a directed
// graph whose nodes are declaration indexes.
type Graph struct {
	rooms    map[string]spec.Room
	segments map[string]spec.Segment
	order    []string
	feeds    *simple.DirectedGraph
	cyclic   map[string]bool
}

// Build indexes the rooms and every network's segments.
func Build(rooms []spec.Room, networks ...[]spec.Segment) *Graph {
	g := &Graph{
		rooms:    make(map[string]spec.Room, len(rooms)),
		segments: make(map[string]spec.Segment),
		feeds:    simple.NewDirectedGraph(),
		cyclic:   make(map[string]bool),
	}
	for _, r := range rooms {
		if _, dup := g.rooms[r.ID]; !dup {
			g.rooms[r.ID] = r
		}
	}
	index := make(map[string]int64)
	for _, segs := range networks {
		for _, s := range segs {
			if _, dup := g.segments[s.ID]; dup {
				continue
			}
			index[s.ID] = int64(len(g.order))
			g.segments[s.ID] = s
			g.feeds.AddNode(simple.Node(index[s.ID]))
			g.order = append(g.order, s.ID)
		}
	}
	for _, id := range g.order {
		t, ok := g.Resolve(g.segments[id])
		if !ok || t.Segment == nil {
			continue
		}
		if t.Segment.ID == id {
			g.cyclic[id] = true
			continue
		}
		g.feeds.SetEdge(g.feeds.NewEdge(simple.Node(index[id]), simple.Node(index[t.Segment.ID])))
	}
	for _, component := range topo.TarjanSCC(g.feeds) {
		if len(component) < 2 {
			continue
		}
		for _, n := range component {
			g.cyclic[g.order[n.ID()]] = true
		}
	}
	return g
}

// Target is what a segment resolves to.
type Target struct {
	Room    *spec.Room
	Segment *spec.Segment
}

// Resolve returns the destination of a segment. Segments declared as
// feeding a room only match rooms; segments feeding a segment only match
// segments; an undeclared feed kind tries rooms first.
func (g *Graph) Resolve(s spec.Segment) (Target, bool) {
	switch s.Feeds {
	case spec.FeedsSegment:
		if t, ok := g.segments[s.TargetID]; ok {
			return Target{Segment: &t}, true
		}
	case spec.FeedsRoom:
		if r, ok := g.rooms[s.TargetID]; ok {
			return Target{Room: &r}, true
		}
	default:
		if r, ok := g.rooms[s.TargetID]; ok {
			return Target{Room: &r}, true
		}
		if t, ok := g.segments[s.TargetID]; ok {
			return Target{Segment: &t}, true
		}
	}
	return Target{}, false
}

// Demand returns the consumption units carried by a segment: the weighted
// fixtures of its room, or the demand of the segment it feeds. Unresolved
// references and chains that run into a cycle contribute zero.
func (g *Graph) Demand(s spec.Segment, weight WeightFunc) float64 {
	for {
		t, ok := g.Resolve(s)
		switch {
		case !ok:
			return 0
		case t.Room != nil:
			return weight(t.Room.Fixtures)
		case g.cyclic[t.Segment.ID]:
			return 0
		}
		s = *t.Segment
	}
}

// Dangling returns the ids of segments whose target does not resolve,
// in declaration order.
func (g *Graph) Dangling() []string {
	var out []string
	for _, id := range g.order {
		if _, ok := g.Resolve(g.segments[id]); !ok {
			out = append(out, id)
		}
	}
	return out
}

// Cycles returns the sorted ids of segments that sit on a feed loop,
// including segments that feed themselves.
func (g *Graph) Cycles() []string {
	out := make([]string, 0, len(g.cyclic))
	for id := range g.cyclic {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
