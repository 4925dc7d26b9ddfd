package orchestrator

import (
	"context"
	"time"

	"minute-empire-backend/internal/apierrors"
	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/logger"
	"minute-empire-backend/internal/model"

	"go.uber.org/zap"
)

func (o *Orchestrator) submitTrain(ctx context.Context, v *model.Village, cmd Command) apierrors.Result {
	if !isValidTroopType(cmd.TroopType) {
		return apierrors.Fail(apierrors.NewValidation("unknown troop type %q", cmd.TroopType))
	}
	if cmd.Quantity <= 0 {
		return apierrors.Fail(apierrors.NewValidation("quantity must be positive"))
	}
	barracksLike := v.BuildingOfType(model.Barracks)
	if cmd.TroopType == model.Archer && v.BuildingOfType(model.Archery) == nil {
		return apierrors.Fail(apierrors.NewValidation("training archers requires an archery"))
	}
	if cmd.TroopType == model.LightCavalry && v.BuildingOfType(model.Stable) == nil {
		return apierrors.Fail(apierrors.NewValidation("training light_cavalry requires a stable"))
	}
	if (cmd.TroopType == model.Militia || cmd.TroopType == model.Pikeman) && barracksLike == nil {
		return apierrors.Fail(apierrors.NewValidation("training %s requires a barracks", cmd.TroopType))
	}

	totalCost := domain.TroopTrainingCost(cmd.TroopType, cmd.Quantity)
	if err := o.checkAffordableAndSpare(v, totalCost, "train", 0, cmd.Quantity); err != nil {
		return apierrors.Fail(err)
	}

	v.Resources = v.Resources.Sub(totalCost)
	completion := o.now().Add(time.Duration(domain.TroopTrainingTimeMinutes(cmd.TroopType, cmd.Quantity)) * time.Minute)
	task := model.TroopTrainingTask{
		ID: newTaskID(), TroopType: cmd.TroopType, Quantity: cmd.Quantity,
		StartedAt: o.now(), CompletionTime: completion,
	}
	v.TroopTrainingTasks = append(v.TroopTrainingTasks, task)
	o.scheduleTrainingCompletion(v.ID, task.ID, completion)
	return apierrors.Ok(task)
}

func (o *Orchestrator) scheduleTrainingCompletion(villageID, taskID string, completion time.Time) {
	if o.Scheduler == nil {
		return
	}
	o.Scheduler.Schedule(taskID, completion, func(ctx context.Context) error {
		return o.completeTrainingTask(ctx, villageID, taskID)
	})
}

// completeTrainingTask follows the shared completion pattern (spec.md
// §4.5.3): reload, bail if already processed, advance resources, apply the
// mutation, mark processed, persist, notify. Training never merges into an
// existing stack of the same type — every completed batch becomes its own
// new Troop document, per spec.md §3.
func (o *Orchestrator) completeTrainingTask(ctx context.Context, villageID, taskID string) error {
	v, err := o.Villages.Get(ctx, villageID)
	if err != nil {
		return err
	}

	var task *model.TroopTrainingTask
	for i := range v.TroopTrainingTasks {
		if v.TroopTrainingTasks[i].ID == taskID {
			task = &v.TroopTrainingTasks[i]
			break
		}
	}
	if task == nil || task.Processed {
		return nil
	}

	if err := o.Accrual.Advance(v, task.CompletionTime); err != nil {
		logger.WithVillage(v.ID, v.OwnerID).Error("completion: accrual advance failed", zap.Error(err))
	}

	troop := &model.Troop{
		ID:        newTaskID(),
		Type:      task.TroopType,
		HomeID:    v.ID,
		Quantity:  task.Quantity,
		Location:  v.Location,
		Mode:      model.ModeIdle,
		CreatedAt: o.now(),
	}
	task.Processed = true

	if err := o.Villages.Update(ctx, v); err != nil {
		return err
	}
	if err := o.Troops.Add(ctx, *troop); err != nil {
		logger.WithVillage(v.ID, v.OwnerID).Error("completion: failed to persist trained troop", zap.Error(err))
		return err
	}
	o.publishTaskCompleted(ctx, v.ID, v.OwnerID, taskID)
	return nil
}
