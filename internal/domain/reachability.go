package domain

import "minute-empire-backend/internal/model"

func orthogonal(loc model.Location) []model.Location {
	return []model.Location{
		{X: loc.X, Y: loc.Y + 1}, {X: loc.X, Y: loc.Y - 1},
		{X: loc.X + 1, Y: loc.Y}, {X: loc.X - 1, Y: loc.Y},
	}
}

func diagonal(loc model.Location) []model.Location {
	return []model.Location{
		{X: loc.X + 1, Y: loc.Y + 1}, {X: loc.X + 1, Y: loc.Y - 1},
		{X: loc.X - 1, Y: loc.Y + 1}, {X: loc.X - 1, Y: loc.Y - 1},
	}
}

func knightsMove(loc model.Location) []model.Location {
	return []model.Location{
		{X: loc.X + 2, Y: loc.Y + 1}, {X: loc.X + 2, Y: loc.Y - 1},
		{X: loc.X - 2, Y: loc.Y + 1}, {X: loc.X - 2, Y: loc.Y - 1},
		{X: loc.X + 1, Y: loc.Y + 2}, {X: loc.X - 1, Y: loc.Y + 2},
		{X: loc.X + 1, Y: loc.Y - 2}, {X: loc.X - 1, Y: loc.Y - 2},
	}
}

// ValidMoveSpots returns the locations a single troop of type t standing at
// loc may move to, grounded on Troop.get_valid_move_spots: militia moves to
// any adjacent cell (orthogonal + diagonal), archers orthogonally only,
// light cavalry by knight's move, and pikemen by the union of all three.
func ValidMoveSpots(t model.TroopType, loc model.Location) []model.Location {
	switch t {
	case model.Militia:
		return append(orthogonal(loc), diagonal(loc)...)
	case model.Archer:
		return orthogonal(loc)
	case model.LightCavalry:
		return knightsMove(loc)
	case model.Pikeman:
		spots := append(orthogonal(loc), diagonal(loc)...)
		return append(spots, knightsMove(loc)...)
	default:
		return nil
	}
}

// ValidAttackSpots returns the locations a single troop of type t standing
// at loc may attack, grounded on Troop.get_valid_attack_spots: militia and
// light cavalry must move onto the target cell to attack (current cell
// only), archers strike any adjacent-or-diagonal cell without moving, and
// pikemen strike their own cell or any knight's-move cell.
func ValidAttackSpots(t model.TroopType, loc model.Location) []model.Location {
	switch t {
	case model.Militia, model.LightCavalry:
		return []model.Location{loc}
	case model.Archer:
		return append(orthogonal(loc), diagonal(loc)...)
	case model.Pikeman:
		return append([]model.Location{loc}, knightsMove(loc)...)
	default:
		return nil
	}
}

func locationsContain(spots []model.Location, target model.Location) bool {
	for _, s := range spots {
		if s == target {
			return true
		}
	}
	return false
}

// CanMoveTo reports whether a troop of type t at from can move to target.
func CanMoveTo(t model.TroopType, from, target model.Location) bool {
	return locationsContain(ValidMoveSpots(t, from), target)
}

// CanAttack reports whether a troop of type t at from can attack target.
func CanAttack(t model.TroopType, from, target model.Location) bool {
	return locationsContain(ValidAttackSpots(t, from), target)
}
