// Package plan merges month spans and evaluated event rules into one ranked
// occurrence sequence, and packs that sequence onto a bounded number of
// display lanes.
package plan

import (
	"seocal/internal/calendar"
	"seocal/internal/model"
)

// Engine bundles the loaded lookup tables behind the query operations. It is
// immutable after construction and performs no caching, so a single Engine is
// safe to share between concurrent callers; reloading the tables means
// building a new Engine, never mutating one in place.
type Engine struct {
	index *calendar.Index
	bySY  map[syKey][]model.EventDefinition
	gy    []model.EventDefinition
}

type syKey struct {
	month int
	day   int
}

// NewEngine builds an Engine over a range index and event definitions.
// SY-anchored definitions are indexed by (month, day); Gregorian-anchored
// ones are kept as a flat list in table order, which the collector's
// deterministic sort relies on.
func NewEngine(index *calendar.Index, defs []model.EventDefinition) *Engine {
	e := &Engine{
		index: index,
		bySY:  make(map[syKey][]model.EventDefinition),
	}
	for _, def := range defs {
		if def.Anchor == model.AnchorSY {
			k := syKey{def.SYMonth, def.SYDay}
			e.bySY[k] = append(e.bySY[k], def)
		} else {
			e.gy = append(e.gy, def)
		}
	}
	return e
}

// Index exposes the underlying range index for date conversion queries.
func (e *Engine) Index() *calendar.Index { return e.index }
