package combat

import (
	"testing"

	"minute-empire-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

// TestResolve_CavalryVsPikemenOnHomeTile is the literal scenario from
// spec.md §8.5: 100 light_cavalry attacking 100 pikemen on the pikemen's
// home tile. Expected: attacker wiped out, ~20 pikemen lost (80 survive).
func TestResolve_CavalryVsPikemenOnHomeTile(t *testing.T) {
	attacker := &model.Troop{ID: "atk", Type: model.LightCavalry, Quantity: 100}
	defender := &model.Troop{ID: "def", Type: model.Pikeman, Quantity: 100}

	out := Resolve(attacker, []*model.Troop{defender}, true, false, model.Location{}, model.Location{}, true)

	assert.True(t, out.AttackerAllDead)
	assert.Equal(t, 0, attacker.Quantity)
	assert.InDelta(t, 80, defender.Quantity, 1)
	assert.False(t, out.AllDefendersDefeated)
}

func TestResolve_OverwhelmingAttackAnnihilatesDefenders(t *testing.T) {
	attacker := &model.Troop{ID: "atk", Type: model.Militia, Quantity: 1000}
	defender := &model.Troop{ID: "def", Type: model.Militia, Quantity: 10}

	out := Resolve(attacker, []*model.Troop{defender}, true, true, model.Location{}, model.Location{}, false)

	assert.True(t, out.AllDefendersDefeated)
	assert.Equal(t, 0, defender.Quantity)
	assert.Greater(t, attacker.Quantity, 0)
}

// TestStealFromVillage_ProportionalUndefendedLoot is the literal scenario
// from spec.md §8.6.
func TestStealFromVillage_ProportionalUndefendedLoot(t *testing.T) {
	v := &model.Village{Resources: model.Resources{Wood: 500, Stone: 200, Iron: 0, Food: 800}}
	troop := &model.Troop{Type: model.Militia, Quantity: 10}

	StealFromVillage(v, troop)

	assert.InDelta(t, 1000, troop.Backpack.Total(), 0.5, "per-resource caps allow 500+200+500=1200, so the total-capacity cap of 100*10=1000 binds")
	assert.LessOrEqual(t, troop.Backpack.Wood, 500.0)
	assert.LessOrEqual(t, troop.Backpack.Stone, 500.0)
	assert.LessOrEqual(t, troop.Backpack.Food, 500.0)

	assert.InDelta(t, v.Resources.Wood+troop.Backpack.Wood, 500, 0.5)
	assert.InDelta(t, v.Resources.Stone+troop.Backpack.Stone, 200, 0.5)
	assert.InDelta(t, v.Resources.Food+troop.Backpack.Food, 800, 0.5)
}

func TestDepositToVillage_ClampsToCapacityAndEmptiesBackpack(t *testing.T) {
	v := &model.Village{Resources: model.Resources{Wood: 990}}
	troop := &model.Troop{Backpack: model.Resources{Wood: 50}}

	DepositToVillage(v, troop)

	assert.Equal(t, 1000.0, v.Resources.Wood)
	assert.Equal(t, model.Resources{}, troop.Backpack)
}
