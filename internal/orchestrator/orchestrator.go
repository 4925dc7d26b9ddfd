package orchestrator

import (
	"context"
	"time"

	"minute-empire-backend/internal/accrual"
	"minute-empire-backend/internal/apierrors"
	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/events"
	"minute-empire-backend/internal/logger"
	"minute-empire-backend/internal/model"
	"minute-empire-backend/internal/repository"
	"minute-empire-backend/internal/scheduler"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Orchestrator is component C5: it owns command parsing, the shared
// submission envelope (spec.md §4.5.2), and every completion callback
// (§4.5.3). It is the only layer allowed to touch more than one repository
// in a single operation.
type Orchestrator struct {
	Villages repository.VillageRepository
	Troops   repository.TroopRepository
	Actions  repository.TroopActionRepository
	Users    repository.UserRepository

	Accrual   *accrual.Engine
	Scheduler *scheduler.Scheduler
	Bus       events.Bus
	Bounds    domain.Bounds

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// New builds an Orchestrator and wires the accrual engine's apply-task hook
// back to the orchestrator's own ApplyConstructionTask, so C3 (invoked
// mid-accrual, e.g. from a completion callback re-advancing the village) and
// C5 (invoked from the task's own completion callback) share one mutation
// path instead of two divergent ones.
func New(villages repository.VillageRepository, troops repository.TroopRepository, actions repository.TroopActionRepository, users repository.UserRepository, sched *scheduler.Scheduler, bus events.Bus, bounds domain.Bounds) *Orchestrator {
	o := &Orchestrator{
		Villages:  villages,
		Troops:    troops,
		Actions:   actions,
		Users:     users,
		Scheduler: sched,
		Bus:       bus,
		Bounds:    bounds,
		Now:       time.Now,
	}
	o.Accrual = accrual.NewEngine(o.ApplyConstructionTask)
	return o
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Submit is the single entry point every HTTP/CLI handler calls with an
// already-parsed Command: ownership is checked, C3 brings the village
// current, validators run, and
// on success the task is registered with the scheduler. Every path returns
// a structured Result; no error ever escapes to the caller as a panic or a
// bare Go error (spec.md §7).
func (o *Orchestrator) Submit(ctx context.Context, userID, villageID string, cmd Command) apierrors.Result {
	village, err := o.Villages.Get(ctx, villageID)
	if err != nil {
		return apierrors.Fail(&apierrors.NotFoundError{Resource: "village", ID: villageID})
	}
	if village.OwnerID != userID {
		return apierrors.Fail(apierrors.NewValidation("village %s is not owned by caller", villageID))
	}

	if err := o.Accrual.Advance(village, o.now()); err != nil {
		return apierrors.Fail(err)
	}

	var result apierrors.Result
	switch cmd.Kind {
	case CmdCreateField:
		result = o.submitCreateField(ctx, village, cmd)
	case CmdUpgradeField:
		result = o.submitUpgradeField(ctx, village, cmd)
	case CmdDestroyField:
		result = o.submitDestroyField(ctx, village, cmd)
	case CmdCreateBuilding:
		result = o.submitCreateBuilding(ctx, village, cmd)
	case CmdUpgradeBuilding:
		result = o.submitUpgradeBuilding(ctx, village, cmd)
	case CmdDestroyBuilding:
		result = o.submitDestroyBuilding(ctx, village, cmd)
	case CmdTrain:
		result = o.submitTrain(ctx, village, cmd)
	case CmdMove:
		result = o.submitTroopAction(ctx, userID, village, cmd, model.ActionMove)
	case CmdAttack:
		result = o.submitTroopAction(ctx, userID, village, cmd, model.ActionAttack)
	default:
		result = apierrors.Fail(apierrors.NewValidation("unknown command kind %q", cmd.Kind))
	}

	if err := o.Villages.Update(ctx, village); err != nil {
		logger.WithVillage(village.ID, village.OwnerID).Error("failed to persist village after submission", zap.Error(err))
		return apierrors.Fail(err)
	}
	return result
}

// newTaskID mints a fresh task id the way the teacher mints every entity id:
// google/uuid, never a counter (so ids survive process restarts uniquely).
func newTaskID() string {
	return uuid.NewString()
}

// publishTaskCompleted emits the standard completion notification so the
// websocket hub can decide whether the owner's connected client needs a
// fresh map_update frame.
func (o *Orchestrator) publishTaskCompleted(ctx context.Context, villageID, ownerID, taskID string) {
	if o.Bus == nil {
		return
	}
	evt := events.NewTaskCompletedEvent(villageID, ownerID, taskID, nil)
	if err := o.Bus.Publish(ctx, evt); err != nil {
		logger.WithTask(taskID, "").Warn("failed to publish task completed event", zap.Error(err))
	}
}
