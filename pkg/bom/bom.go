// Package bom aggregates material lines (bill of materials) within one
// calculation and across the calculations of a project.
package bom

import (
	"sort"

	"github.com/home265/bob-obras-sanitarias/pkg/hydraulics"
)

// Line is one aggregated material: a code, a human label, a quantity and
// its unit.
type Line struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Qty   float64 `json:"qty"`
	Unit  string  `json:"unit"`
}

type lineKey struct {
	key  string
	unit string
}

// Aggregator sums contributions by (key, unit). The first label seen for a
// pair is kept.
type Aggregator struct {
	lines map[lineKey]*Line
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{lines: make(map[lineKey]*Line)}
}

// Add accumulates qty for the (key, unit) pair.
func (a *Aggregator) Add(key, label string, qty float64, unit string) {
	if unit == "" {
		unit = UnitEach
	}
	k := lineKey{key, unit}
	if l, ok := a.lines[k]; ok {
		l.Qty += qty
		return
	}
	a.lines[k] = &Line{Key: key, Label: label, Qty: qty, Unit: unit}
}

// AddLine accumulates an existing line.
func (a *Aggregator) AddLine(l Line) {
	a.Add(l.Key, l.Label, l.Qty, l.Unit)
}

// Qty returns the accumulated quantity for a pair.
func (a *Aggregator) Qty(key, unit string) float64 {
	if l, ok := a.lines[lineKey{key, unit}]; ok {
		return l.Qty
	}
	return 0
}

// Lines returns the positive lines sorted by key, then unit.
func (a *Aggregator) Lines() []Line {
	out := make([]Line, 0, len(a.lines))
	for _, l := range a.lines {
		if l.Qty > 0 {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// Merge combines several material lists into one project-level list:
// summed by (key, unit), rounded to two decimals, sorted by label.
func Merge(lists ...[]Line) []Line {
	agg := NewAggregator()
	for _, list := range lists {
		for _, l := range list {
			agg.AddLine(l)
		}
	}
	out := agg.Lines()
	for i := range out {
		out[i].Qty = hydraulics.Round(out[i].Qty, 2)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Key < out[j].Key
	})
	return out
}
