package domain

import (
	"math"

	"minute-empire-backend/internal/model"
)

// TotalPopulation sums every building level, every field level, and the
// target level of every queued upgrade on an already-existing target
// (spec.md §4.1's population invariant).
func TotalPopulation(v *model.Village) int {
	total := v.City.Wall.Level
	for _, c := range v.City.Constructions {
		total += c.Level
	}
	for _, f := range v.ResourceFields {
		total += f.Level
	}
	for _, t := range v.ConstructionTasks {
		if t.Processed || t.TaskType.IsDestroy() {
			continue
		}
		if t.TaskType == model.UpgradeBuilding || t.TaskType == model.UpgradeField {
			total += t.Level
		}
	}
	return total
}

// WorkingPopulation sums the target level of every pending construction task
// plus the quantity of every pending troop-training task.
func WorkingPopulation(v *model.Village) int {
	working := 0
	for _, t := range v.ConstructionTasks {
		if t.Processed {
			continue
		}
		working += t.Level
	}
	for _, t := range v.TroopTrainingTasks {
		if t.Processed {
			continue
		}
		working += t.Quantity
	}
	return working
}

// SparePopulation is total - working, the headroom available for a new
// action (spec.md §4.1, invariant I6).
func SparePopulation(v *model.Village) int {
	return TotalPopulation(v) - WorkingPopulation(v)
}

// RequiredPopulation is the population cost of submitting a new action:
// 1 for creation, round(targetLevel^2) for an upgrade, quantity for
// training (spec.md §2).
func RequiredPopulation(kind string, targetLevel, quantity int) int {
	switch kind {
	case "create":
		return 1
	case "upgrade":
		return int(math.Round(float64(targetLevel) * float64(targetLevel)))
	case "train":
		return quantity
	default:
		return 0
	}
}
