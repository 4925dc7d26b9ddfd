package orchestrator

import (
	"context"
	"testing"
	"time"

	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/model"
	"minute-empire-backend/internal/repository"
	"minute-empire-backend/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, *model.Village) {
	t.Helper()
	villages := repository.NewVillageRepository(nil)
	troops := repository.NewTroopRepository(nil)
	actions := repository.NewTroopActionRepository()
	users := repository.NewUserRepository()
	sched := scheduler.New()
	bounds := domain.NewBounds(15)

	o := New(villages, troops, actions, users, sched, nil, bounds)

	v := model.Village{
		ID:      "v1",
		OwnerID: "u1",
		Resources: model.Resources{
			Wood: 1000, Stone: 1000, Iron: 1000, Food: 1000,
		},
		City: model.City{Constructions: []model.Construction{{Type: model.CityCenter, Level: 3, Slot: 1}}},
	}
	require.NoError(t, villages.Add(context.Background(), v))
	return o, &v
}

func TestSubmit_CreateField_DeductsCostAndSchedulesTask(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	cmd := Command{Kind: CmdCreateField, FieldType: model.FieldWood, Slot: 0}
	result := o.Submit(ctx, "u1", "v1", cmd)
	assert.True(t, result.Success, result.Message)

	got, err := o.Villages.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, got.ConstructionTasks, 1)
	assert.Less(t, got.Resources.Wood, 1000.0, "creation cost must be deducted")
}

func TestSubmit_CreateField_RejectsOccupiedSlot(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	cmd := Command{Kind: CmdCreateField, FieldType: model.FieldWood, Slot: 0}
	require.True(t, o.Submit(ctx, "u1", "v1", cmd).Success)

	result := o.Submit(ctx, "u1", "v1", cmd)
	assert.False(t, result.Success)
}

func TestSubmit_CreateField_RejectsWrongOwner(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	cmd := Command{Kind: CmdCreateField, FieldType: model.FieldWood, Slot: 0}
	result := o.Submit(ctx, "someone-else", "v1", cmd)
	assert.False(t, result.Success)
}

func TestSubmit_CreateField_RejectsInsufficientResources(t *testing.T) {
	villages := repository.NewVillageRepository(nil)
	troops := repository.NewTroopRepository(nil)
	actions := repository.NewTroopActionRepository()
	users := repository.NewUserRepository()
	sched := scheduler.New()
	bounds := domain.NewBounds(15)
	o := New(villages, troops, actions, users, sched, nil, bounds)

	ctx := context.Background()
	require.NoError(t, villages.Add(ctx, model.Village{ID: "v2", OwnerID: "u1"}))

	result := o.Submit(ctx, "u1", "v2", Command{Kind: CmdCreateField, FieldType: model.FieldWood, Slot: 0})
	assert.False(t, result.Success)
}

func TestApplyConstructionTask_CreateThenUpgradeField(t *testing.T) {
	v := &model.Village{ID: "v1"}
	o := &Orchestrator{}

	createTask := &model.ConstructionTask{TaskType: model.CreateField, TargetType: string(model.FieldWood), Slot: 2, Level: 1}
	require.NoError(t, o.ApplyConstructionTask(v, createTask))
	require.NotNil(t, v.FieldBySlot(2))
	assert.Equal(t, 1, v.FieldBySlot(2).Level)

	upgradeTask := &model.ConstructionTask{TaskType: model.UpgradeField, TargetType: string(model.FieldWood), Slot: 2, Level: 2}
	require.NoError(t, o.ApplyConstructionTask(v, upgradeTask))
	assert.Equal(t, 2, v.FieldBySlot(2).Level)

	destroyTask := &model.ConstructionTask{TaskType: model.DestroyField, TargetType: string(model.FieldWood), Slot: 2}
	require.NoError(t, o.ApplyConstructionTask(v, destroyTask))
	assert.Nil(t, v.FieldBySlot(2))
}

func TestCompleteConstructionTask_MarksProcessedAndApplies(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	o.Now = func() time.Time { return time.Unix(0, 0) }
	cmd := Command{Kind: CmdCreateField, FieldType: model.FieldWood, Slot: 3}
	result := o.Submit(ctx, "u1", "v1", cmd)
	require.True(t, result.Success)

	v, err := o.Villages.Get(ctx, "v1")
	require.NoError(t, err)
	taskID := v.ConstructionTasks[0].ID

	require.NoError(t, o.completeConstructionTask(ctx, "v1", taskID))

	v, err = o.Villages.Get(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, v.ConstructionTasks, 1)
	assert.True(t, v.ConstructionTasks[0].Processed)
	assert.NotNil(t, v.FieldBySlot(3))

	// Completing again must be a no-op (at-most-once).
	require.NoError(t, o.completeConstructionTask(ctx, "v1", taskID))
}
