package orchestrator

import (
	"context"
	"time"

	"minute-empire-backend/internal/apierrors"
	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/model"

	"go.uber.org/zap"

	"minute-empire-backend/internal/logger"
)

func (o *Orchestrator) submitCreateField(ctx context.Context, v *model.Village, cmd Command) apierrors.Result {
	if v.FieldBySlot(cmd.Slot) != nil {
		return apierrors.Fail(apierrors.NewConflict("slot %d already has a field", cmd.Slot))
	}
	if v.PendingFieldTask(cmd.Slot) != nil {
		return apierrors.Fail(apierrors.NewConflict("slot %d already has a pending task", cmd.Slot))
	}
	if len(v.ResourceFields) >= model.MaxResourceFields {
		return apierrors.Fail(apierrors.NewValidation("village already has the maximum number of fields"))
	}
	if required := domain.FieldSlotRequiredCityCenterLevel(cmd.Slot); required > 0 {
		cc := v.BuildingOfType(model.CityCenter)
		if cc == nil || cc.Level < required {
			return apierrors.Fail(apierrors.NewValidation("slot %d requires city_center level %d", cmd.Slot, required))
		}
	}

	cost := domain.FieldCreationCost(cmd.FieldType)
	if err := o.checkAffordableAndSpare(v, cost, "create", 0, 1); err != nil {
		return apierrors.Fail(err)
	}

	v.Resources = v.Resources.Sub(cost)
	completion := o.now().Add(time.Duration(domain.FieldCreationTimeMinutes(cmd.FieldType)) * time.Minute)
	task := model.ConstructionTask{
		ID: newTaskID(), TaskType: model.CreateField, TargetType: string(cmd.FieldType),
		Slot: cmd.Slot, Level: 1, StartedAt: o.now(), CompletionTime: completion,
	}
	v.ConstructionTasks = append(v.ConstructionTasks, task)
	o.scheduleConstructionCompletion(v.ID, task.ID, completion)
	return apierrors.Ok(task)
}

func (o *Orchestrator) submitUpgradeField(ctx context.Context, v *model.Village, cmd Command) apierrors.Result {
	field := v.FieldBySlot(cmd.Slot)
	if field == nil {
		return apierrors.Fail(apierrors.NewValidation("slot %d has no field", cmd.Slot))
	}
	if v.PendingFieldTask(cmd.Slot) != nil {
		return apierrors.Fail(apierrors.NewConflict("slot %d already has a pending task", cmd.Slot))
	}

	targetLevel := field.Level + 1
	cost := domain.FieldUpgradeCost(field.Type, field.Level)
	if err := o.checkAffordableAndSpare(v, cost, "upgrade", targetLevel, 0); err != nil {
		return apierrors.Fail(err)
	}

	v.Resources = v.Resources.Sub(cost)
	completion := o.now().Add(time.Duration(domain.FieldUpgradeTimeMinutes(field.Type, field.Level)) * time.Minute)
	task := model.ConstructionTask{
		ID: newTaskID(), TaskType: model.UpgradeField, TargetType: string(field.Type),
		Slot: cmd.Slot, Level: targetLevel, StartedAt: o.now(), CompletionTime: completion,
	}
	v.ConstructionTasks = append(v.ConstructionTasks, task)
	o.scheduleConstructionCompletion(v.ID, task.ID, completion)
	return apierrors.Ok(task)
}

func (o *Orchestrator) submitDestroyField(ctx context.Context, v *model.Village, cmd Command) apierrors.Result {
	field := v.FieldBySlot(cmd.Slot)
	if field == nil {
		return apierrors.Fail(apierrors.NewValidation("slot %d has no field", cmd.Slot))
	}
	if v.PendingFieldTask(cmd.Slot) != nil {
		return apierrors.Fail(apierrors.NewConflict("slot %d already has a pending task", cmd.Slot))
	}

	completion := o.now() // destruction is immediate; no population cost, no duration in spec
	task := model.ConstructionTask{
		ID: newTaskID(), TaskType: model.DestroyField, TargetType: string(field.Type),
		Slot: cmd.Slot, Level: 0, StartedAt: o.now(), CompletionTime: completion,
	}
	v.ConstructionTasks = append(v.ConstructionTasks, task)
	o.scheduleConstructionCompletion(v.ID, task.ID, completion)
	return apierrors.Ok(task)
}

func (o *Orchestrator) submitCreateBuilding(ctx context.Context, v *model.Village, cmd Command) apierrors.Result {
	if v.ConstructionBySlot(cmd.Slot) != nil {
		return apierrors.Fail(apierrors.NewConflict("slot %d already has a building", cmd.Slot))
	}
	if v.PendingBuildingTask(cmd.Slot) != nil {
		return apierrors.Fail(apierrors.NewConflict("slot %d already has a pending task", cmd.Slot))
	}
	if len(v.City.Constructions) >= model.MaxConstructions {
		return apierrors.Fail(apierrors.NewValidation("village already has the maximum number of buildings"))
	}

	cost := domain.BuildingCreationCost(cmd.BuildType)
	if err := o.checkAffordableAndSpare(v, cost, "create", 0, 1); err != nil {
		return apierrors.Fail(err)
	}

	v.Resources = v.Resources.Sub(cost)
	completion := o.now().Add(time.Duration(domain.BuildingCreationTimeMinutes(cmd.BuildType)) * time.Minute)
	task := model.ConstructionTask{
		ID: newTaskID(), TaskType: model.CreateBuilding, TargetType: string(cmd.BuildType),
		Slot: cmd.Slot, Level: 1, StartedAt: o.now(), CompletionTime: completion,
	}
	v.ConstructionTasks = append(v.ConstructionTasks, task)
	o.scheduleConstructionCompletion(v.ID, task.ID, completion)
	return apierrors.Ok(task)
}

func (o *Orchestrator) submitUpgradeBuilding(ctx context.Context, v *model.Village, cmd Command) apierrors.Result {
	building := v.ConstructionBySlot(cmd.Slot)
	if building == nil {
		return apierrors.Fail(apierrors.NewValidation("slot %d has no building", cmd.Slot))
	}
	if v.PendingBuildingTask(cmd.Slot) != nil {
		return apierrors.Fail(apierrors.NewConflict("slot %d already has a pending task", cmd.Slot))
	}

	targetLevel := building.Level + 1
	cost := domain.BuildingUpgradeCost(building.Type, building.Level)
	if err := o.checkAffordableAndSpare(v, cost, "upgrade", targetLevel, 0); err != nil {
		return apierrors.Fail(err)
	}

	v.Resources = v.Resources.Sub(cost)
	completion := o.now().Add(time.Duration(domain.BuildingUpgradeTimeMinutes(building.Type, building.Level)) * time.Minute)
	task := model.ConstructionTask{
		ID: newTaskID(), TaskType: model.UpgradeBuilding, TargetType: string(building.Type),
		Slot: cmd.Slot, Level: targetLevel, StartedAt: o.now(), CompletionTime: completion,
	}
	v.ConstructionTasks = append(v.ConstructionTasks, task)
	o.scheduleConstructionCompletion(v.ID, task.ID, completion)
	return apierrors.Ok(task)
}

func (o *Orchestrator) submitDestroyBuilding(ctx context.Context, v *model.Village, cmd Command) apierrors.Result {
	building := v.ConstructionBySlot(cmd.Slot)
	if building == nil {
		return apierrors.Fail(apierrors.NewValidation("slot %d has no building", cmd.Slot))
	}
	if v.PendingBuildingTask(cmd.Slot) != nil {
		return apierrors.Fail(apierrors.NewConflict("slot %d already has a pending task", cmd.Slot))
	}

	completion := o.now()
	task := model.ConstructionTask{
		ID: newTaskID(), TaskType: model.DestroyBuilding, TargetType: string(building.Type),
		Slot: cmd.Slot, Level: 0, StartedAt: o.now(), CompletionTime: completion,
	}
	v.ConstructionTasks = append(v.ConstructionTasks, task)
	o.scheduleConstructionCompletion(v.ID, task.ID, completion)
	return apierrors.Ok(task)
}

// checkAffordableAndSpare runs the two stateless validators shared by every
// construction/training submission: cost affordability and population
// headroom (spec.md §2, §4.5.2 step 4).
func (o *Orchestrator) checkAffordableAndSpare(v *model.Village, cost model.Resources, kind string, targetLevel, quantity int) error {
	if !v.Resources.GreaterOrEqual(cost) {
		return apierrors.NewValidation("insufficient resources")
	}
	required := domain.RequiredPopulation(kind, targetLevel, quantity)
	if domain.SparePopulation(v) < required {
		return apierrors.NewValidation("insufficient spare population: need %d", required)
	}
	return nil
}

// scheduleConstructionCompletion registers the scheduler callback for a
// construction/field task. The callback reloads the village fresh (another
// submission may have mutated it in the meantime), guards on processed, and
// delegates to ApplyConstructionTask for the actual mutation.
func (o *Orchestrator) scheduleConstructionCompletion(villageID, taskID string, completion time.Time) {
	if o.Scheduler == nil {
		return
	}
	o.Scheduler.Schedule(taskID, completion, func(ctx context.Context) error {
		return o.completeConstructionTask(ctx, villageID, taskID)
	})
}

func (o *Orchestrator) completeConstructionTask(ctx context.Context, villageID, taskID string) error {
	v, err := o.Villages.Get(ctx, villageID)
	if err != nil {
		return err
	}

	var task *model.ConstructionTask
	for i := range v.ConstructionTasks {
		if v.ConstructionTasks[i].ID == taskID {
			task = &v.ConstructionTasks[i]
			break
		}
	}
	if task == nil || task.Processed {
		return nil // already applied, or task vanished: at-most-once, nothing to do
	}

	if err := o.Accrual.Advance(v, task.CompletionTime); err != nil {
		logger.WithVillage(v.ID, v.OwnerID).Error("completion: accrual advance failed", zap.Error(err))
	}

	// A rate-affecting task is applied by Advance itself when its completion
	// falls inside the window; apply here only what Advance did not.
	if !task.Processed {
		if err := o.ApplyConstructionTask(v, task); err != nil {
			logger.WithVillage(v.ID, v.OwnerID).Error("completion: logic corruption applying task, marking processed anyway",
				zap.String("task_id", taskID), zap.Error(err))
		}
		task.Processed = true
	}

	if err := o.Villages.Update(ctx, v); err != nil {
		return err
	}
	o.publishTaskCompleted(ctx, v.ID, v.OwnerID, taskID)
	return nil
}

// ApplyConstructionTask mutates v to reflect one completed construction/
// field task: create, bump level, or remove the target. It is also the hook
// the accrual engine calls mid-advance for tasks whose completion falls
// inside the integration window (spec.md §4.3 step 3b), so this function
// must be side-effect-free beyond the village argument.
func (o *Orchestrator) ApplyConstructionTask(v *model.Village, task *model.ConstructionTask) error {
	switch task.TaskType {
	case model.CreateField:
		if v.FieldBySlot(task.Slot) != nil {
			return apierrors.NewConflict("slot %d already occupied at completion", task.Slot)
		}
		v.ResourceFields = append(v.ResourceFields, model.ResourceField{
			Type: model.FieldType(task.TargetType), Level: task.Level, Slot: task.Slot,
		})
	case model.UpgradeField:
		f := v.FieldBySlot(task.Slot)
		if f == nil {
			return apierrors.NewConflict("slot %d has no field at completion", task.Slot)
		}
		f.Level = task.Level
	case model.DestroyField:
		for i := range v.ResourceFields {
			if v.ResourceFields[i].Slot == task.Slot {
				v.ResourceFields = append(v.ResourceFields[:i], v.ResourceFields[i+1:]...)
				break
			}
		}
	case model.CreateBuilding:
		if model.ConstructionType(task.TargetType) == model.Wall {
			v.City.Wall = model.Construction{Type: model.Wall, Level: task.Level, Slot: task.Slot}
			return nil
		}
		if v.ConstructionBySlot(task.Slot) != nil {
			return apierrors.NewConflict("slot %d already occupied at completion", task.Slot)
		}
		v.City.Constructions = append(v.City.Constructions, model.Construction{
			Type: model.ConstructionType(task.TargetType), Level: task.Level, Slot: task.Slot,
		})
	case model.UpgradeBuilding:
		if model.ConstructionType(task.TargetType) == model.Wall {
			v.City.Wall.Level = task.Level
			return nil
		}
		b := v.ConstructionBySlot(task.Slot)
		if b == nil {
			return apierrors.NewConflict("slot %d has no building at completion", task.Slot)
		}
		b.Level = task.Level
	case model.DestroyBuilding:
		if model.ConstructionType(task.TargetType) == model.Wall {
			v.City.Wall = model.Construction{}
			return nil
		}
		for i := range v.City.Constructions {
			if v.City.Constructions[i].Slot == task.Slot {
				v.City.Constructions = append(v.City.Constructions[:i], v.City.Constructions[i+1:]...)
				break
			}
		}
	}
	return nil
}
