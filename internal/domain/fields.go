package domain

import (
	"math"

	"minute-empire-backend/internal/model"
)

// baseFieldRate, baseFieldUpgradeCost and baseFieldUpgradeTimeMinutes are
// grounded on ResourceProducer's base_rates/get_upgrade_cost/get_upgrade_time
// tables (original_source/backend/minute_empire/domain/resource_field.py);
// the scaling laws applied to them follow spec.md §4.1 instead of the
// original's (1+0.1L) / 1.4^L / 1.2^L laws, since the spec is authoritative
// over the original where the two disagree. spec.md §8 scenario 1 pins
// wood's base rate at 30 (floor(30 × 1.2¹) = 36), 3× the original's 10; the
// other three keep the original's relative ratios to wood, scaled by the
// same factor of 3.
var baseFieldRate = map[model.FieldType]float64{
	model.FieldWood:  30,
	model.FieldStone: 24,
	model.FieldIron:  18,
	model.FieldFood:  36,
}

var baseFieldUpgradeCost = map[model.FieldType]model.Resources{
	model.FieldWood:  {Wood: 50, Stone: 60, Iron: 30},
	model.FieldStone: {Wood: 60, Stone: 50, Iron: 40},
	model.FieldIron:  {Wood: 70, Stone: 80, Iron: 50},
	model.FieldFood:  {Wood: 40, Stone: 40, Iron: 20},
}

var baseFieldUpgradeTimeMinutes = map[model.FieldType]float64{
	model.FieldWood:  10,
	model.FieldStone: 12,
	model.FieldIron:  15,
	model.FieldFood:  8,
}

// FieldCreationCost is the cost to create a level-1 field, taken as the
// field's level-0-to-1 upgrade cost (no separate base_creation table exists
// for fields in the original).
func FieldCreationCost(t model.FieldType) model.Resources {
	return FieldUpgradeCost(t, 0)
}

// FieldCreationTimeMinutes mirrors FieldCreationCost's convention.
func FieldCreationTimeMinutes(t model.FieldType) float64 {
	return FieldUpgradeTimeMinutes(t, 0)
}

// FieldUpgradeCost returns the cost to upgrade a field from currentLevel to
// currentLevel+1: floor(base_cost × 1.5^level), per spec.md §4.1.
func FieldUpgradeCost(t model.FieldType, currentLevel int) model.Resources {
	mult := math.Pow(1.5, float64(currentLevel))
	base := baseFieldUpgradeCost[t]
	return model.Resources{
		Wood:  math.Floor(base.Wood * mult),
		Stone: math.Floor(base.Stone * mult),
		Iron:  math.Floor(base.Iron * mult),
	}
}

// FieldUpgradeTimeMinutes returns the duration to upgrade a field from
// currentLevel to currentLevel+1: floor(base_time × 1.42^level).
func FieldUpgradeTimeMinutes(t model.FieldType, currentLevel int) float64 {
	return math.Floor(baseFieldUpgradeTimeMinutes[t] * math.Pow(1.42, float64(currentLevel)))
}

// FieldProductionRate returns the hourly production rate of a single field
// at level, before the village-wide production bonus is applied: spec.md
// §4.1's base_rate × 1.2^level.
func FieldProductionRate(t model.FieldType, level int) float64 {
	if level <= 0 {
		return 0
	}
	return baseFieldRate[t] * math.Pow(1.2, float64(level))
}

// VillageProductionRate sums every field's rate, scaled by 1+ the village's
// aggregate building production bonus (spec.md §4.1). All four resources
// share the same bonus multiplier.
func VillageProductionRate(v *model.Village) model.Resources {
	bonus := 1 + ProductionBonus(v.City)
	var total model.Resources
	for _, f := range v.ResourceFields {
		rate := FieldProductionRate(f.Type, f.Level) * bonus
		switch f.Type.Resource() {
		case model.Wood:
			total.Wood += rate
		case model.Stone:
			total.Stone += rate
		case model.Iron:
			total.Iron += rate
		case model.Food:
			total.Food += rate
		}
	}
	return total
}

// StorageCapacity returns the village's resource storage ceiling: a flat
// 1000 per resource, with food scaled by granary level and the other three
// scaled by warehouse level (spec.md §4.1): capacity = 1000 × (1 + 0.3×L).
func StorageCapacity(v *model.Village) model.Resources {
	granary := v.BuildingOfType(model.Granary)
	warehouse := v.BuildingOfType(model.Warehouse)

	granaryLevel, warehouseLevel := 0, 0
	if granary != nil {
		granaryLevel = granary.Level
	}
	if warehouse != nil {
		warehouseLevel = warehouse.Level
	}

	const base = 1000.0
	nonFood := base * (1 + 0.3*float64(warehouseLevel))
	food := base * (1 + 0.3*float64(granaryLevel))

	return model.Resources{Wood: nonFood, Stone: nonFood, Iron: nonFood, Food: food}
}
