// Package domain holds the pure data and pure functions of the world model
// (cost tables, production formulas, reachability, combat stats, storage
// capacity): spec.md §4.1 component C1. No I/O, no process state beyond
// these compile-time tables.
package domain

import "minute-empire-backend/internal/model"

// Quadrant is the default map half-width: valid coordinates span
// [-Quadrant, +Quadrant] on each axis. cmd/server overrides this via
// config.Quadrant and NewBounds for testability.
const Quadrant = 15

// Bounds is a square grid boundary check, inclusive on both ends:
// [-Quadrant, +Quadrant] on each axis.
type Bounds struct {
	Quadrant int
}

// NewBounds builds a Bounds with the given half-width.
func NewBounds(quadrant int) Bounds {
	if quadrant <= 0 {
		quadrant = Quadrant
	}
	return Bounds{Quadrant: quadrant}
}

// InBounds is the only reachability test against the map edge.
func (b Bounds) InBounds(loc model.Location) bool {
	return loc.X >= -b.Quadrant && loc.X <= b.Quadrant && loc.Y >= -b.Quadrant && loc.Y <= b.Quadrant
}
