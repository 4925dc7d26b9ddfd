package orchestrator

import (
	"context"
	"time"

	"minute-empire-backend/internal/scheduler"
)

// CollectRecoveryTasks walks every village's unprocessed construction and
// training tasks plus every unprocessed troop action, producing the
// scheduler.RecoveryTask list spec.md §4.4's startup recovery needs. Each
// task's Run ignores the scheduler's effectiveNow: completion callbacks
// already read their own stored CompletionTime, so catch-up execution
// accrues exactly what each task would have produced at its scheduled
// instant rather than at the restart instant.
func (o *Orchestrator) CollectRecoveryTasks(ctx context.Context) ([]scheduler.RecoveryTask, error) {
	var tasks []scheduler.RecoveryTask

	villages, err := o.Villages.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range villages {
		villageID := v.ID
		for _, task := range v.ConstructionTasks {
			if task.Processed {
				continue
			}
			taskID := task.ID
			tasks = append(tasks, scheduler.RecoveryTask{
				TaskID:         taskID,
				CompletionTime: task.CompletionTime,
				Run: func(ctx context.Context, _ time.Time) error {
					return o.completeConstructionTask(ctx, villageID, taskID)
				},
			})
		}
		for _, task := range v.TroopTrainingTasks {
			if task.Processed {
				continue
			}
			taskID := task.ID
			tasks = append(tasks, scheduler.RecoveryTask{
				TaskID:         taskID,
				CompletionTime: task.CompletionTime,
				Run: func(ctx context.Context, _ time.Time) error {
					return o.completeTrainingTask(ctx, villageID, taskID)
				},
			})
		}
	}

	actions, err := o.Actions.ListUnprocessed(ctx)
	if err != nil {
		return nil, err
	}
	for _, action := range actions {
		actionID := action.ID
		tasks = append(tasks, scheduler.RecoveryTask{
			TaskID:         actionID,
			CompletionTime: action.CompletionTime,
			Run: func(ctx context.Context, _ time.Time) error {
				return o.completeTroopAction(ctx, actionID)
			},
		})
	}

	return tasks, nil
}
