package accrual

import (
	"testing"
	"time"

	"minute-empire-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseVillage(t0 time.Time) *model.Village {
	return &model.Village{
		ID:          "v1",
		OwnerID:     "u1",
		ResUpdateAt: t0,
		ResourceFields: []model.ResourceField{
			{Type: model.FieldWood, Level: 1, Slot: 0},
		},
	}
}

func TestAdvance_IntegratesProductionOverTime(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := baseVillage(t0)

	e := NewEngine(nil)
	require.NoError(t, e.Advance(v, t0.Add(time.Hour)))

	assert.InDelta(t, 36.0, v.Resources.Wood, 0.001) // base_rate(30) * 1.2^1, spec.md §8 scenario 1
	assert.Equal(t, t0.Add(time.Hour), v.ResUpdateAt)
}

func TestAdvance_ClampsToCapacity(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := baseVillage(t0)
	v.Resources.Wood = 999

	e := NewEngine(nil)
	require.NoError(t, e.Advance(v, t0.Add(10*time.Hour)))

	assert.Equal(t, 1000.0, v.Resources.Wood)
}

func TestAdvance_RejectsTargetBeforeCheckpoint(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := baseVillage(t0)

	e := NewEngine(nil)
	err := e.Advance(v, t0.Add(-time.Minute))
	assert.Error(t, err)
}

// TestAdvance_CheckpointInvariance is invariant I2: splitting one long
// advance into two shorter ones must produce the same final resources as a
// single advance over the full window, regardless of the intermediate
// checkpoint chosen.
func TestAdvance_CheckpointInvariance(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	applied := false
	applyTask := func(v *model.Village, task *model.ConstructionTask) error {
		applied = true
		if f := v.FieldBySlot(task.Slot); f != nil {
			f.Level = task.Level
		}
		return nil
	}

	oneShot := baseVillage(t0)
	oneShot.ConstructionTasks = []model.ConstructionTask{{
		ID: "t1", TaskType: model.UpgradeField, TargetType: string(model.FieldWood),
		Slot: 0, Level: 2, CompletionTime: t0.Add(30 * time.Minute),
	}}
	e1 := NewEngine(applyTask)
	require.NoError(t, e1.Advance(oneShot, t0.Add(2*time.Hour)))

	checkpointed := baseVillage(t0)
	checkpointed.ConstructionTasks = []model.ConstructionTask{{
		ID: "t1", TaskType: model.UpgradeField, TargetType: string(model.FieldWood),
		Slot: 0, Level: 2, CompletionTime: t0.Add(30 * time.Minute),
	}}
	e2 := NewEngine(applyTask)
	require.NoError(t, e2.Advance(checkpointed, t0.Add(45*time.Minute)))
	require.NoError(t, e2.Advance(checkpointed, t0.Add(2*time.Hour)))

	assert.True(t, applied)
	assert.InDelta(t, oneShot.Resources.Wood, checkpointed.Resources.Wood, 0.001)
}
