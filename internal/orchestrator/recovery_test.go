package orchestrator

import (
	"context"
	"testing"
	"time"

	"minute-empire-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectRecoveryTasks_GathersUnprocessedWorkOnly(t *testing.T) {
	o, v := newTestOrchestrator(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	v.ConstructionTasks = append(v.ConstructionTasks,
		model.ConstructionTask{ID: "ct-pending", TaskType: model.CreateField, TargetType: string(model.FieldWood), Slot: 1, Level: 1, CompletionTime: past},
		model.ConstructionTask{ID: "ct-done", TaskType: model.CreateField, TargetType: string(model.FieldStone), Slot: 2, Level: 1, CompletionTime: past, Processed: true},
	)
	v.TroopTrainingTasks = append(v.TroopTrainingTasks,
		model.TroopTrainingTask{ID: "tt-pending", TroopType: model.Militia, Quantity: 1, CompletionTime: past},
	)
	require.NoError(t, o.Villages.Update(ctx, v))

	require.NoError(t, o.Actions.Add(ctx, model.TroopAction{ID: "ta-pending", CompletionTime: past}))

	tasks, err := o.CollectRecoveryTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	var ids []string
	for _, task := range tasks {
		ids = append(ids, task.TaskID)
	}
	assert.ElementsMatch(t, []string{"ct-pending", "tt-pending", "ta-pending"}, ids)
}

func TestCollectRecoveryTasks_RunClosureCompletesConstructionTask(t *testing.T) {
	o, v := newTestOrchestrator(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	v.ConstructionTasks = append(v.ConstructionTasks,
		model.ConstructionTask{ID: "ct1", TaskType: model.CreateField, TargetType: string(model.FieldWood), Slot: 5, Level: 1, CompletionTime: past},
	)
	require.NoError(t, o.Villages.Update(ctx, v))

	tasks, err := o.CollectRecoveryTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// The Run closure ignores effectiveNow entirely; any value works.
	require.NoError(t, tasks[0].Run(ctx, time.Time{}))

	got, err := o.Villages.Get(ctx, "v1")
	require.NoError(t, err)
	require.NotNil(t, got.FieldBySlot(5))
	assert.True(t, got.ConstructionTasks[0].Processed)
}
