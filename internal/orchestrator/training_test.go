package orchestrator

import (
	"context"
	"testing"

	"minute-empire-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_Train_RejectsMissingBarracks(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	result := o.Submit(ctx, "u1", "v1", Command{Kind: CmdTrain, TroopType: model.Militia, Quantity: 2})
	assert.False(t, result.Success)
}

func TestSubmit_Train_SucceedsWithBarracksAndSchedulesTask(t *testing.T) {
	o, v := newTestOrchestrator(t)
	ctx := context.Background()

	v.City.Constructions = append(v.City.Constructions, model.Construction{Type: model.Barracks, Level: 1, Slot: 0})
	require.NoError(t, o.Villages.Update(ctx, v))

	result := o.Submit(ctx, "u1", "v1", Command{Kind: CmdTrain, TroopType: model.Militia, Quantity: 2})
	assert.True(t, result.Success, result.Message)

	got, err := o.Villages.Get(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, got.TroopTrainingTasks, 1)
	assert.Equal(t, 2, got.TroopTrainingTasks[0].Quantity)
}

func TestSubmit_Train_RejectsNonPositiveQuantity(t *testing.T) {
	o, v := newTestOrchestrator(t)
	ctx := context.Background()
	v.City.Constructions = append(v.City.Constructions, model.Construction{Type: model.Barracks, Level: 1, Slot: 0})
	require.NoError(t, o.Villages.Update(ctx, v))

	result := o.Submit(ctx, "u1", "v1", Command{Kind: CmdTrain, TroopType: model.Militia, Quantity: 0})
	assert.False(t, result.Success)
}

func TestCompleteTrainingTask_CreatesIdleTroop(t *testing.T) {
	o, v := newTestOrchestrator(t)
	ctx := context.Background()
	v.City.Constructions = append(v.City.Constructions, model.Construction{Type: model.Barracks, Level: 1, Slot: 0})
	require.NoError(t, o.Villages.Update(ctx, v))

	result := o.Submit(ctx, "u1", "v1", Command{Kind: CmdTrain, TroopType: model.Militia, Quantity: 3})
	require.True(t, result.Success)

	got, err := o.Villages.Get(ctx, "v1")
	require.NoError(t, err)
	taskID := got.TroopTrainingTasks[0].ID

	require.NoError(t, o.completeTrainingTask(ctx, "v1", taskID))

	troops, err := o.Troops.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, troops, 1)
	assert.Equal(t, model.ModeIdle, troops[0].Mode)
	assert.Equal(t, 3, troops[0].Quantity)
	assert.Equal(t, "v1", troops[0].HomeID)

	got, err = o.Villages.Get(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, got.TroopTrainingTasks[0].Processed)
}
