// Package combat implements the combat resolution and resource-transfer
// algorithms of spec.md §4.5.4–§4.5.7 (component C5's core math): raw power,
// ranged immunity, home bonus, snowball ratios, casualty application,
// backpack redistribution, village stealing and depositing. Pure functions
// over model types; no persistence, no scheduling. Grounded on the
// combat-constant names and clamped-median loss formula of original_source's
// troop_action_service.py, generalized to the spec's stated algorithm.
package combat

import (
	"math"
	"sort"

	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/model"
)

const (
	AllDeadThreshold  = 0.85
	AllAliveThreshold = 0.15
	SnowballExponent  = 1.5
	AttackerDiscount  = 0.3
)

// Side is one party's aggregate troop state (a single attacker stack or
// the union of defender stacks on a tile).
type Side struct {
	Troops []*model.Troop
}

func (s Side) totalATK() float64 {
	total := 0.0
	for _, t := range s.Troops {
		total += float64(t.Quantity) * domain.TroopStatsFor(t.Type).Attack
	}
	return total
}

func (s Side) totalDEF() float64 {
	total := 0.0
	for _, t := range s.Troops {
		total += float64(t.Quantity) * domain.TroopStatsFor(t.Type).Defense
	}
	return total
}

// Outcome is the result of resolving one combat.
type Outcome struct {
	AttackerAllDead      bool
	AllDefendersDefeated bool
	AttackerLossRatio    float64
	DefenderLossRatios   map[string]float64 // troop id -> loss ratio, pre-mutation
}

// Resolve applies spec.md §4.5.4's combat algorithm to attacker and
// defenders in place: Quantity is reduced by the computed loss fraction,
// and troops reaching Quantity 0 are reported as dead (callers delete them
// from the repository; Resolve does not delete, only mutates Quantity so
// callers can still read the pre-deletion id/location for cleanup).
//
// isAttackCommand distinguishes an "attack" submission (troop stays put)
// from a "move" submission that turned into combat; it gates the attacker's
// ranged immunity (archer or pikeman attacker, §4.5.4 step 2). The
// defending-archer rule of the same step applies to both kinds.
// startLocation and targetLocation are the attacker's action's start and
// target tiles; targetIsStartLocation is true when they're equal (relevant
// to the pikeman ranged-immunity carve-out). defenderHomeOwnerMatchesVillageOwner
// is true when the target tile hosts a village and at least one defender's
// home village shares that village's owner (the home-bonus condition).
func Resolve(attacker *model.Troop, defenders []*model.Troop, isAttackCommand, targetIsStartLocation bool, startLocation, targetLocation model.Location, defenderHomeOwnerMatchesVillageOwner bool) Outcome {
	atkStats := domain.TroopStatsFor(attacker.Type)

	atkA := float64(attacker.Quantity) * atkStats.Attack
	defA := float64(attacker.Quantity) * atkStats.Defense

	atkD := 0.0
	defD := 0.0
	for _, d := range defenders {
		s := domain.TroopStatsFor(d.Type)
		atkD += float64(d.Quantity) * s.Attack
		defD += float64(d.Quantity) * s.Defense
	}

	// Ranged immunity (§4.5.4 step 2).
	if isAttackCommand {
		if attacker.Type == model.Archer && domain.CanAttack(model.Archer, startLocation, targetLocation) {
			atkD = 0
		}
		if attacker.Type == model.Pikeman && !targetIsStartLocation {
			atkD = 0
		}
	}
	for _, d := range defenders {
		if d.Type == model.Archer && d.Location == targetLocation {
			atkD -= float64(d.Quantity) * domain.TroopStatsFor(d.Type).Attack
		}
	}
	if atkD < 0 {
		atkD = 0
	}

	// Home bonus (§4.5.4 step 3).
	if defenderHomeOwnerMatchesVillageOwner {
		atkA *= 1 - AttackerDiscount
		defA *= 1 - AttackerDiscount
	}

	// Snowball ratios (§4.5.4 step 4).
	rA := snowballRatio(atkA, defD)
	rD := snowballRatio(atkD, defA)

	// Loss fractions (§4.5.4 step 5).
	lossA := clampLoss(median3(0, rD, 1))
	lossD := clampLoss(median3(0, rA, 1))

	out := Outcome{DefenderLossRatios: make(map[string]float64, len(defenders))}
	out.AttackerLossRatio = lossA

	beforeA := attacker.Quantity
	attacker.Quantity = int(math.Floor(float64(beforeA) * (1 - lossA)))
	out.AttackerAllDead = attacker.Quantity <= 0

	allDefeated := true
	for _, d := range defenders {
		out.DefenderLossRatios[d.ID] = lossD
		before := d.Quantity
		d.Quantity = int(math.Floor(float64(before) * (1 - lossD)))
		if d.Quantity > 0 {
			allDefeated = false
		}
	}
	out.AllDefendersDefeated = allDefeated

	RedistributeBackpacks(attacker, beforeA, defenders, out.DefenderLossRatios)

	return out
}

func snowballRatio(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return math.Pow(numerator/denominator, SnowballExponent)
}

func median3(a, b, c float64) float64 {
	vals := []float64{a, b, c}
	sort.Float64s(vals)
	return vals[1]
}

func clampLoss(loss float64) float64 {
	if loss > AllDeadThreshold {
		return 1
	}
	if loss < AllAliveThreshold {
		return 0
	}
	return loss
}

// RedistributeBackpacks implements spec.md §4.5.7: each side's losses free a
// resource pool proportional to its loss ratio, redistributed to the
// opposing side's survivors, proportional to remaining per-resource
// capacity, clamped by per-troop per-resource and total caps. attackerQtyBefore
// is the attacker's quantity before casualties were applied (needed because
// attacker.Quantity has already been mutated to the post-combat value by the
// time this runs).
func RedistributeBackpacks(attacker *model.Troop, attackerQtyBefore int, defenders []*model.Troop, defenderLossRatios map[string]float64) {
	attackerLossRatio := 0.0
	if attackerQtyBefore > 0 {
		attackerLossRatio = 1 - float64(attacker.Quantity)/float64(attackerQtyBefore)
	}

	attackerPool := attacker.Backpack.Scale(attackerLossRatio)
	survivingDefenders := survivors(defenders)
	distributeToSurvivors(attackerPool, survivingDefenders)

	var defenderPool model.Resources
	for _, d := range defenders {
		defenderPool = defenderPool.Add(d.Backpack.Scale(defenderLossRatios[d.ID]))
	}
	if attacker.Quantity > 0 {
		distributeToSurvivors(defenderPool, []*model.Troop{attacker})
	}

	attacker.Backpack = attacker.Backpack.Scale(1 - attackerLossRatio)
	for _, d := range defenders {
		d.Backpack = d.Backpack.Scale(1 - defenderLossRatios[d.ID])
	}
}

func survivors(troops []*model.Troop) []*model.Troop {
	var out []*model.Troop
	for _, t := range troops {
		if t.Quantity > 0 {
			out = append(out, t)
		}
	}
	return out
}

// distributeToSurvivors spreads pool proportionally to each survivor's
// remaining per-resource capacity, iterating until the pool is exhausted or
// no survivor has any remaining headroom (mirrors StealFromVillage's
// iterative proportional-pass shape in §4.5.5).
func distributeToSurvivors(pool model.Resources, survivors []*model.Troop) {
	if len(survivors) == 0 || pool.IsZero() {
		return
	}

	remaining := pool
	for {
		totalCapacity := model.Resources{}
		caps := make([]model.Resources, len(survivors))
		for i, t := range survivors {
			cap := domain.TroopBackpackCapacity(t.Type, t.Quantity).PerResource.Sub(t.Backpack)
			cap = clampNonNegative(cap)
			caps[i] = cap
			totalCapacity = totalCapacity.Add(cap)
		}
		if totalCapacity.IsZero() {
			return
		}

		progressed := false
		for _, kind := range model.AllResourceKinds {
			avail := remaining.Get(kind)
			capTotal := totalCapacity.Get(kind)
			if avail <= 0 || capTotal <= 0 {
				continue
			}
			for i, t := range survivors {
				share := avail * (caps[i].Get(kind) / capTotal)
				if share <= 0 {
					continue
				}
				grant := math.Min(share, caps[i].Get(kind))
				t.Backpack = t.Backpack.Set(kind, t.Backpack.Get(kind)+grant)
				remaining = remaining.Set(kind, remaining.Get(kind)-grant)
				progressed = true
			}
		}
		if !progressed || remaining.IsZero() {
			return
		}
	}
}

func clampNonNegative(r model.Resources) model.Resources {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	return model.Resources{Wood: clamp(r.Wood), Stone: clamp(r.Stone), Iron: clamp(r.Iron), Food: clamp(r.Food)}
}

// StealFromVillage implements spec.md §4.5.5: an undefended enemy village is
// looted into the attacker's backpack. Village resources are subtracted
// first, then credited to the troop, so a crash mid-transfer never creates
// resources out of nothing (destructive-first ordering).
func StealFromVillage(v *model.Village, troop *model.Troop) {
	capacity := domain.TroopBackpackCapacity(troop.Type, troop.Quantity)
	remaining := capacity.PerResource.Sub(troop.Backpack)
	remaining = clampNonNegative(remaining)
	totalRemaining := capacity.Total - troop.Backpack.Total()
	if totalRemaining <= 0 {
		return
	}

	taken := model.Resources{}
	available := v.Resources
	for {
		totalAvailable := available.Total()
		if totalAvailable <= 0 || totalRemaining <= 0 {
			break
		}

		progressed := false
		for _, kind := range model.AllResourceKinds {
			amount := available.Get(kind)
			if amount <= 0 {
				continue
			}
			share := math.Min(totalRemaining, totalAvailable) * (amount / totalAvailable)
			grant := math.Min(share, remaining.Get(kind))
			grant = math.Min(grant, amount)
			if grant <= 0 {
				continue
			}
			taken = taken.Set(kind, taken.Get(kind)+grant)
			available = available.Set(kind, available.Get(kind)-grant)
			remaining = remaining.Set(kind, remaining.Get(kind)-grant)
			totalRemaining -= grant
			progressed = true
		}
		if !progressed {
			break
		}
	}

	v.Resources = v.Resources.Sub(taken)
	troop.Backpack = troop.Backpack.Add(taken)
}

// DepositToVillage implements spec.md §4.5.6: a troop's entire backpack is
// unloaded into its own (or an ally's) village, clamped by storage
// capacity; anything that does not fit is discarded, and the backpack is
// always zeroed afterward.
func DepositToVillage(v *model.Village, troop *model.Troop) {
	capacity := domain.StorageCapacity(v)
	v.Resources = v.Resources.Add(troop.Backpack).ClampToCapacity(capacity)
	troop.Backpack = model.Resources{}
}
