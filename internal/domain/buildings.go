package domain

import (
	"math"

	"minute-empire-backend/internal/model"
)

// baseCreationCost and baseUpgradeCost are grounded on the original Python
// implementation's Building.BASE_CREATION_COSTS / get_upgrade_cost base
// tables (original_source/backend/minute_empire/domain/building.py); the
// distilled spec gives the scaling law (§4.1) but not these concrete bases.
var baseCreationCost = map[model.ConstructionType]model.Resources{
	model.CityCenter: {Wood: 150, Stone: 180, Iron: 100},
	model.Warehouse:  {Wood: 70, Stone: 90, Iron: 50},
	model.Granary:    {Wood: 60, Stone: 75, Iron: 40},
	model.Wall:       {Wood: 30, Stone: 200, Iron: 80},
	model.RallyPoint: {Wood: 100, Stone: 50, Iron: 30},
	model.Barracks:   {Wood: 130, Stone: 120, Iron: 80},
	model.Archery:    {Wood: 170, Stone: 100, Iron: 100},
	model.Stable:     {Wood: 150, Stone: 150, Iron: 150},
	model.HideSpot:   {Wood: 70, Stone: 120, Iron: 60},
}

var baseUpgradeCost = map[model.ConstructionType]model.Resources{
	model.CityCenter: {Wood: 200, Stone: 240, Iron: 140},
	model.Warehouse:  {Wood: 100, Stone: 120, Iron: 70},
	model.Granary:    {Wood: 80, Stone: 100, Iron: 60},
	model.Wall:       {Wood: 50, Stone: 250, Iron: 100},
	model.RallyPoint: {Wood: 150, Stone: 70, Iron: 40},
	model.Barracks:   {Wood: 180, Stone: 150, Iron: 100},
	model.Archery:    {Wood: 220, Stone: 120, Iron: 140},
	model.Stable:     {Wood: 200, Stone: 180, Iron: 200},
	model.HideSpot:   {Wood: 100, Stone: 150, Iron: 80},
}

var baseCreationTimeMinutes = map[model.ConstructionType]float64{
	model.CityCenter: 45,
	model.Warehouse:  25,
	model.Granary:    25,
	model.Wall:       20,
	model.RallyPoint: 15,
	model.Barracks:   30,
	model.Archery:    30,
	model.Stable:     35,
	model.HideSpot:   20,
}

var baseUpgradeTimeMinutes = map[model.ConstructionType]float64{
	model.CityCenter: 30,
	model.Warehouse:  20,
	model.Granary:    20,
	model.Wall:       15,
	model.RallyPoint: 10,
	model.Barracks:   25,
	model.Archery:    25,
	model.Stable:     30,
	model.HideSpot:   15,
}

// upgradeTimeScale is the per-level time-scale base in spec.md §4.1: 1.2 for
// most buildings, 1.24 for the food-granary.
func upgradeTimeScale(t model.ConstructionType) float64 {
	if t == model.Granary {
		return 1.24
	}
	return 1.2
}

// productionBonusPerLevel is spec.md §4.1's per-level uniform multiplier
// that a building type contributes to every resource's production. Granary
// is not named in the spec's examples; we extend the pattern it describes
// (storage buildings contribute a smaller bonus than city_center) rather
// than leaving it undefined.
func productionBonusPerLevel(t model.ConstructionType) float64 {
	switch t {
	case model.CityCenter:
		return 0.05
	case model.Warehouse:
		return 0.03
	case model.Granary:
		return 0.02
	default:
		return 0
	}
}

// BuildingCreationCost returns the fixed cost to create a level-1 building.
func BuildingCreationCost(t model.ConstructionType) model.Resources {
	return baseCreationCost[t]
}

// BuildingCreationTimeMinutes returns the fixed duration to create a level-1
// building.
func BuildingCreationTimeMinutes(t model.ConstructionType) float64 {
	return baseCreationTimeMinutes[t]
}

// BuildingUpgradeCost returns the cost to upgrade a building from its
// current level to level+1: floor(base_cost × 1.5^level), per spec.md §4.1.
func BuildingUpgradeCost(t model.ConstructionType, currentLevel int) model.Resources {
	mult := math.Pow(1.5, float64(currentLevel))
	base := baseUpgradeCost[t]
	return model.Resources{
		Wood:  math.Floor(base.Wood * mult),
		Stone: math.Floor(base.Stone * mult),
		Iron:  math.Floor(base.Iron * mult),
	}
}

// BuildingUpgradeTimeMinutes returns the duration to upgrade a building from
// currentLevel to currentLevel+1: floor(base_time × scale^level).
func BuildingUpgradeTimeMinutes(t model.ConstructionType, currentLevel int) float64 {
	scale := upgradeTimeScale(t)
	return math.Floor(baseUpgradeTimeMinutes[t] * math.Pow(scale, float64(currentLevel)))
}

// BuildingProductionBonus returns the production multiplier contribution
// (before summation across buildings) of a single building at its level.
func BuildingProductionBonus(t model.ConstructionType, level int) float64 {
	return productionBonusPerLevel(t) * float64(level)
}

// ProductionBonus sums the per-building bonus across every building in a
// village's city, applied uniformly to all four resources (spec.md §4.1).
// Grounded on Village.get_production_bonus_for_resource in the original,
// generalized: the original only special-cased city_center, the spec
// generalizes to any building type with a non-zero per-level bonus.
func ProductionBonus(city model.City) float64 {
	bonus := 0.0
	if city.Wall.Level > 0 {
		bonus += BuildingProductionBonus(model.Wall, city.Wall.Level)
	}
	for _, c := range city.Constructions {
		bonus += BuildingProductionBonus(c.Type, c.Level)
	}
	return bonus
}

// fieldSlotMinCityCenterLevel gates certain resource-field slots behind a
// minimum city_center level, per spec.md §4.1.
var fieldSlotMinCityCenterLevel = map[int]int{
	0: 1, 1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 6: 1, 7: 1,
	11: 3, 12: 3, 13: 3,
	17: 5, 18: 5, 19: 5,
	8: 7, 9: 7, 10: 7,
	14: 9, 15: 9, 16: 9,
}

// FieldSlotRequiredCityCenterLevel returns the minimum city_center level
// required to build in the given resource-field slot. Slots outside the
// table require no gating (level 0).
func FieldSlotRequiredCityCenterLevel(slot int) int {
	return fieldSlotMinCityCenterLevel[slot]
}
