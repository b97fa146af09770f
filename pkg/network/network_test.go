package network

import (
	"reflect"
	"testing"

	"github.com/home265/bob-obras-sanitarias/pkg/spec"
)

func unitWeight(c spec.Counts) float64 {
	return float64(c.Total())
}

func testRooms() []spec.Room {
	return []spec.Room{
		{ID: "bano", Fixtures: spec.Counts{"ducha": 1, "lavatorio": 1, "inodoro": 1}},
		{ID: "vacio"},
	}
}

func TestDemandRoom(t *testing.T) {
	seg := spec.Segment{ID: "t1", Feeds: spec.FeedsRoom, TargetID: "bano"}
	g := Build(testRooms(), []spec.Segment{seg})
	if d := g.Demand(seg, unitWeight); d != 3 {
		t.Errorf("demand = %v, want 3", d)
	}
}

func TestDemandChainedSegments(t *testing.T) {
	segs := []spec.Segment{
		{ID: "t1", Feeds: spec.FeedsSegment, TargetID: "t2"},
		{ID: "t2", Feeds: spec.FeedsRoom, TargetID: "bano"},
	}
	g := Build(testRooms(), segs)
	if d := g.Demand(segs[0], unitWeight); d != 3 {
		t.Errorf("demand through t2 = %v, want 3", d)
	}
}

func TestDemandDangling(t *testing.T) {
	segs := []spec.Segment{
		{ID: "t1", Feeds: spec.FeedsRoom, TargetID: "cocina"},
		{ID: "t2", Feeds: spec.FeedsRoom, TargetID: "vacio"},
	}
	g := Build(testRooms(), segs)
	if d := g.Demand(segs[0], unitWeight); d != 0 {
		t.Errorf("dangling demand = %v, want 0", d)
	}
	if d := g.Demand(segs[1], unitWeight); d != 0 {
		t.Errorf("empty room demand = %v, want 0", d)
	}
	if got := g.Dangling(); !reflect.DeepEqual(got, []string{"t1"}) {
		t.Errorf("dangling = %v, want [t1]", got)
	}
}

func TestDemandCycleTerminates(t *testing.T) {
	segs := []spec.Segment{
		{ID: "a", Feeds: spec.FeedsSegment, TargetID: "b"},
		{ID: "b", Feeds: spec.FeedsSegment, TargetID: "a"},
		{ID: "c", Feeds: spec.FeedsSegment, TargetID: "a"},
	}
	g := Build(testRooms(), segs)
	if d := g.Demand(segs[0], unitWeight); d != 0 {
		t.Errorf("cyclic demand = %v, want 0", d)
	}
	if got := g.Cycles(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("cycles = %v, want [a b]", got)
	}
}

func TestFeedKindIsRespected(t *testing.T) {
	rooms := []spec.Room{{ID: "x", Fixtures: spec.Counts{"ducha": 2}}}
	segs := []spec.Segment{
		{ID: "x", Feeds: spec.FeedsRoom, TargetID: "bano"},
		{ID: "s", Feeds: spec.FeedsSegment, TargetID: "x"},
		{ID: "r", TargetID: "x"},
	}
	g := Build(rooms, segs)
	// "s" feeds segment x, which dangles.
	if d := g.Demand(segs[1], unitWeight); d != 0 {
		t.Errorf("segment-feed demand = %v, want 0", d)
	}
	// "r" has no declared kind and resolves the room first.
	if d := g.Demand(segs[2], unitWeight); d != 2 {
		t.Errorf("default-feed demand = %v, want 2", d)
	}
}

func TestCyclesSelfFeedAndAcyclic(t *testing.T) {
	segs := []spec.Segment{
		{ID: "x", Feeds: spec.FeedsSegment, TargetID: "x"},
		{ID: "t1", Feeds: spec.FeedsSegment, TargetID: "t2"},
		{ID: "t2", Feeds: spec.FeedsSegment, TargetID: "t3"},
		{ID: "t3", Feeds: spec.FeedsRoom, TargetID: "bano"},
	}
	g := Build(testRooms(), segs)
	if got := g.Cycles(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("cycles = %v, want [x]", got)
	}
	if d := g.Demand(segs[0], unitWeight); d != 0 {
		t.Errorf("self-feed demand = %v, want 0", d)
	}
	if d := g.Demand(segs[1], unitWeight); d != 3 {
		t.Errorf("demand through t2 and t3 = %v, want 3", d)
	}
}

func TestCyclesNoneDeclared(t *testing.T) {
	g := Build(testRooms(), []spec.Segment{{ID: "t1", Feeds: spec.FeedsRoom, TargetID: "bano"}})
	if got := g.Cycles(); len(got) != 0 {
		t.Errorf("cycles = %v, want none", got)
	}
}
