package domain

import "minute-empire-backend/internal/model"

// trainingCost, trainingTimeMinutes, troopStats and backpackCapacity are
// grounded on Troop.TRAINING_COSTS/TRAINING_TIMES/TROOP_STATS/
// BACKPACK_CAPACITY (original_source/backend/minute_empire/domain/troop.py).
// spec.md §4.1 only worked through militia/light_cavalry as examples; archer
// and pikeman numbers are carried over unchanged from the original since the
// spec does not redefine them.
var trainingCost = map[model.TroopType]model.Resources{
	model.Militia:      {Wood: 50, Stone: 30, Iron: 20, Food: 10},
	model.Archer:       {Wood: 70, Stone: 40, Iron: 30, Food: 20},
	model.LightCavalry: {Wood: 100, Stone: 60, Iron: 50, Food: 30},
	model.Pikeman:      {Wood: 80, Stone: 50, Iron: 40, Food: 25},
}

var trainingTimeMinutes = map[model.TroopType]float64{
	model.Militia:      1,
	model.Archer:       1,
	model.LightCavalry: 1,
	model.Pikeman:      1,
}

// TroopStats holds raw combat statistics for one troop type.
type TroopStats struct {
	Attack  float64
	Defense float64
	// RangedImmune flags archers and pikemen, the two types that have
	// ranged-immunity rules in spec.md §4.5.4. combat.Resolve applies those
	// rules by troop type and does not read this field.
	RangedImmune bool
}

var troopStats = map[model.TroopType]TroopStats{
	model.Militia:      {Attack: 1, Defense: 1},
	model.Archer:       {Attack: 1, Defense: 0.5, RangedImmune: true},
	model.LightCavalry: {Attack: 1, Defense: 1},
	model.Pikeman:      {Attack: 1, Defense: 2, RangedImmune: true},
}

// BackpackCapacity holds per-resource and aggregate carrying limits for one
// unit of a troop type.
type BackpackCapacity struct {
	PerResource model.Resources
	Total       float64
}

var backpackCapacity = map[model.TroopType]BackpackCapacity{
	model.Militia:      {PerResource: model.Resources{Wood: 50, Stone: 50, Iron: 50, Food: 50}, Total: 100},
	model.Archer:       {PerResource: model.Resources{Wood: 30, Stone: 30, Iron: 30, Food: 30}, Total: 60},
	model.LightCavalry: {PerResource: model.Resources{Wood: 100, Stone: 100, Iron: 100, Food: 100}, Total: 250},
	model.Pikeman:      {PerResource: model.Resources{Wood: 70, Stone: 70, Iron: 70, Food: 70}, Total: 150},
}

// TroopTrainingCost returns the total cost to train quantity troops of type t.
func TroopTrainingCost(t model.TroopType, quantity int) model.Resources {
	return trainingCost[t].Scale(float64(quantity))
}

// TroopTrainingTimeMinutes returns the total training duration.
func TroopTrainingTimeMinutes(t model.TroopType, quantity int) float64 {
	return trainingTimeMinutes[t] * float64(quantity)
}

// TroopStatsFor returns the raw combat stats of a troop type.
func TroopStatsFor(t model.TroopType) TroopStats {
	return troopStats[t]
}

// TroopBackpackCapacity returns the carrying capacity of quantity troops of
// type t, scaled per spec.md §4.5.6.
func TroopBackpackCapacity(t model.TroopType, quantity int) BackpackCapacity {
	base := backpackCapacity[t]
	return BackpackCapacity{
		PerResource: base.PerResource.Scale(float64(quantity)),
		Total:       base.Total * float64(quantity),
	}
}
