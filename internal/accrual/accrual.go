// Package accrual implements the resource-accrual engine (spec.md §4.3,
// component C3): advancing a village's stored resources along a
// piecewise-constant production timeline anchored on rate-changing task
// completions. Grounded on the teacher's domain-layer style of pure
// functions over model state (no I/O here; callers own persistence).
package accrual

import (
	"fmt"
	"sort"
	"time"

	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/logger"
	"minute-empire-backend/internal/model"

	"go.uber.org/zap"
)

// Engine advances villages' resources. It holds no state of its own; it is
// a thin namespace around Advance plus the apply-task hooks construction and
// field tasks need (domain levels live on the village, but applying a task
// requires mutating the right slot/field, which only the caller's task
// registry knows how to do generically across building vs field tasks).
type Engine struct {
	applyConstructionTask func(v *model.Village, task *model.ConstructionTask) error
}

// NewEngine builds an accrual Engine. applyConstructionTask mutates v to
// reflect a single completed construction/field task (level bump, field
// creation, destruction); it is supplied by the orchestrator layer because
// that is where the task-type-to-mutation mapping is owned, keeping this
// package dependency-free on the orchestrator.
func NewEngine(applyConstructionTask func(v *model.Village, task *model.ConstructionTask) error) *Engine {
	return &Engine{applyConstructionTask: applyConstructionTask}
}

// Advance mutates v in place so that v.Resources and v.ResUpdateAt reflect
// continuous production integration from v.ResUpdateAt to targetTime,
// applying every rate-affecting task whose completion falls in that window
// in chronological order (spec.md §4.3's five-step algorithm).
func (e *Engine) Advance(v *model.Village, targetTime time.Time) error {
	if targetTime.Before(v.ResUpdateAt) {
		return fmt.Errorf("accrual: target_time %s precedes res_update_at %s", targetTime, v.ResUpdateAt)
	}
	if targetTime.Equal(v.ResUpdateAt) {
		return nil
	}

	t0 := v.ResUpdateAt
	pending := rateAffectingTasksInWindow(v, t0, targetTime)
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CompletionTime.Before(pending[j].CompletionTime)
	})

	for i := range pending {
		task := pending[i]
		integrate(v, t0, task.CompletionTime)

		if e.applyConstructionTask != nil {
			if err := e.applyConstructionTask(v, task); err != nil {
				logger.WithVillage(v.ID, v.OwnerID).Error("accrual: failed to apply rate-affecting task, skipping",
					zap.String("task_id", task.ID), zap.Error(err))
			} else {
				task.Processed = true
			}
		}
		t0 = task.CompletionTime
	}

	integrate(v, t0, targetTime)
	v.ResUpdateAt = targetTime
	v.UpdatedAt = targetTime
	return nil
}

// rateAffectingTasksInWindow returns pointers into v.ConstructionTasks (so
// Advance can flip Processed in place) for every unprocessed,
// production/capacity-affecting task completing in (from, to].
func rateAffectingTasksInWindow(v *model.Village, from, to time.Time) []*model.ConstructionTask {
	var out []*model.ConstructionTask
	for i := range v.ConstructionTasks {
		t := &v.ConstructionTasks[i]
		if t.Processed || !t.AffectsProduction() {
			continue
		}
		if t.CompletionTime.After(from) && !t.CompletionTime.After(to) {
			out = append(out, t)
		}
	}
	return out
}

// integrate applies continuous production from "from" to "to" at the
// village's *current* rate/capacity (spec.md §4.3 step 3a/4), clamping each
// resource independently.
func integrate(v *model.Village, from, to time.Time) {
	if !to.After(from) {
		return
	}
	hours := to.Sub(from).Hours()
	rate := domain.VillageProductionRate(v)
	capacity := domain.StorageCapacity(v)

	v.Resources = v.Resources.Add(rate.Scale(hours)).ClampToCapacity(capacity)
}
