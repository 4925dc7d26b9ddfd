package orchestrator

import (
	"context"
	"time"

	"minute-empire-backend/internal/apierrors"
	"minute-empire-backend/internal/combat"
	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/events"
	"minute-empire-backend/internal/logger"
	"minute-empire-backend/internal/model"

	"go.uber.org/zap"
)

// submitTroopAction validates and registers a move or attack submission. The
// village passed in must be the troop's home village: every command is
// issued against the village endpoint that owns the acting troop.
func (o *Orchestrator) submitTroopAction(ctx context.Context, userID string, village *model.Village, cmd Command, actionType model.TroopActionType) apierrors.Result {
	troop, err := o.Troops.Get(ctx, cmd.TroopID)
	if err != nil {
		return apierrors.Fail(&apierrors.NotFoundError{Resource: "troop", ID: cmd.TroopID})
	}
	if troop.HomeID != village.ID {
		return apierrors.Fail(apierrors.NewValidation("troop %s does not belong to village %s", troop.ID, village.ID))
	}
	if troop.Mode != model.ModeIdle {
		return apierrors.Fail(apierrors.NewConflict("troop %s is already on an action", troop.ID))
	}
	if !o.Bounds.InBounds(cmd.Target) {
		return apierrors.Fail(apierrors.NewValidation("target %v is outside the map", cmd.Target))
	}

	reachable := false
	if actionType == model.ActionMove {
		reachable = domain.CanMoveTo(troop.Type, troop.Location, cmd.Target)
	} else {
		reachable = domain.CanAttack(troop.Type, troop.Location, cmd.Target)
	}
	if !reachable {
		return apierrors.Fail(apierrors.NewValidation("troop %s of type %s cannot reach %v", troop.ID, troop.Type, cmd.Target))
	}

	completion := o.now().Add(time.Duration(domain.MovementTimeMinutes(troop.Location, cmd.Target)) * time.Minute)
	action := model.TroopAction{
		ID:             newTaskID(),
		TroopID:        troop.ID,
		ActionType:     actionType,
		StartLocation:  troop.Location,
		TargetLocation: cmd.Target,
		StartedAt:      o.now(),
		CompletionTime: completion,
	}

	if actionType == model.ActionMove {
		troop.Mode = model.ModeMove
	} else {
		troop.Mode = model.ModeAttack
	}

	if err := o.Actions.Add(ctx, action); err != nil {
		return apierrors.Fail(err)
	}
	if err := o.Troops.Update(ctx, troop); err != nil {
		return apierrors.Fail(err)
	}

	o.scheduleTroopActionCompletion(action.ID, completion)
	return apierrors.Ok(action)
}

func (o *Orchestrator) scheduleTroopActionCompletion(actionID string, completion time.Time) {
	if o.Scheduler == nil {
		return
	}
	o.Scheduler.Schedule(actionID, completion, func(ctx context.Context) error {
		return o.completeTroopAction(ctx, actionID)
	})
}

// completeTroopAction implements spec.md §4.5.3's completion pattern for
// move/attack actions and §4.5.4-§4.5.7's combat/transfer rules: reload,
// bail if processed, advance every affected village's resources to the
// completion instant, resolve the move or fight, mark processed, persist,
// notify.
func (o *Orchestrator) completeTroopAction(ctx context.Context, actionID string) error {
	action, err := o.Actions.Get(ctx, actionID)
	if err != nil {
		return err
	}
	if action.Processed {
		return nil
	}

	troop, err := o.Troops.Get(ctx, action.TroopID)
	if err != nil {
		// Troop vanished (should not happen outside logic corruption): mark
		// the action processed so the scheduler does not retry forever.
		logger.WithTask(actionID, string(action.ActionType)).Error("completion: acting troop missing", zap.Error(err))
		action.Processed = true
		return o.Actions.Update(ctx, action)
	}

	homeVillage, err := o.Villages.Get(ctx, troop.HomeID)
	if err != nil {
		return err
	}
	if err := o.Accrual.Advance(homeVillage, action.CompletionTime); err != nil {
		logger.WithVillage(homeVillage.ID, homeVillage.OwnerID).Error("completion: accrual advance failed", zap.Error(err))
	}

	defenders, villageAtTarget, err := o.loadTargetSite(ctx, action, homeVillage.OwnerID, action.CompletionTime)
	if err != nil {
		return err
	}

	if len(defenders) > 0 {
		o.resolveCombat(ctx, troop, defenders, action, villageAtTarget)
	} else if action.ActionType == model.ActionMove {
		troop.Location = action.TargetLocation
		troop.Mode = model.ModeIdle
		if villageAtTarget != nil {
			o.settleVillageArrival(troop, villageAtTarget, homeVillage.OwnerID)
		}
	} else {
		troop.Mode = model.ModeIdle
	}

	action.Processed = true
	if err := o.Actions.Update(ctx, action); err != nil {
		return err
	}
	if err := o.persistTroopOutcome(ctx, troop); err != nil {
		return err
	}
	if villageAtTarget != nil {
		if err := o.Villages.Update(ctx, villageAtTarget); err != nil {
			return err
		}
	}

	o.publishTaskCompleted(ctx, homeVillage.ID, homeVillage.OwnerID, actionID)
	return nil
}

// loadTargetSite loads every enemy troop standing at the action's target
// and, if a village occupies that cell, brings its resources current to
// completionTime so combat and stealing math sees post-accrual totals.
func (o *Orchestrator) loadTargetSite(ctx context.Context, action *model.TroopAction, ownerID string, completionTime time.Time) ([]*model.Troop, *model.Village, error) {
	atTarget, err := o.Troops.ListByLocation(ctx, action.TargetLocation)
	if err != nil {
		return nil, nil, err
	}
	var defenders []*model.Troop
	for i := range atTarget {
		t := &atTarget[i]
		if t.ID == action.TroopID {
			continue
		}
		if t.HomeID == "" {
			continue
		}
		if !o.ownedByDifferentOwner(ctx, t.HomeID, ownerID) {
			continue
		}
		defenders = append(defenders, t)
	}

	villageAtTarget, err := o.villageAtLocation(ctx, action.TargetLocation)
	if err != nil {
		return nil, nil, err
	}
	if villageAtTarget != nil {
		if err := o.Accrual.Advance(villageAtTarget, completionTime); err != nil {
			logger.WithVillage(villageAtTarget.ID, villageAtTarget.OwnerID).Error("completion: target accrual advance failed", zap.Error(err))
		}
	}
	return defenders, villageAtTarget, nil
}

func (o *Orchestrator) ownedByDifferentOwner(ctx context.Context, homeID, ownerID string) bool {
	home, err := o.Villages.Get(ctx, homeID)
	if err != nil {
		return true // unknown home: treat conservatively as an enemy
	}
	return home.OwnerID != ownerID
}

// villageAtLocation scans every village for one sitting at loc. The
// in-memory store has no location index; this mirrors the original's linear
// map scan (there are never more than a few hundred villages per world).
func (o *Orchestrator) villageAtLocation(ctx context.Context, loc model.Location) (*model.Village, error) {
	all, err := o.Villages.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Location == loc {
			return &all[i], nil
		}
	}
	return nil, nil
}

// resolveCombat runs combat.Resolve and applies its outcome: a dead attacker
// is removed, a victorious mover advances onto the target tile and loots or
// deposits as appropriate, and an attacker who fails to clear the tile stays
// put in either mode.
func (o *Orchestrator) resolveCombat(ctx context.Context, troop *model.Troop, defenders []*model.Troop, action *model.TroopAction, villageAtTarget *model.Village) {
	isAttackCommand := action.ActionType == model.ActionAttack
	targetIsStartLocation := action.TargetLocation == action.StartLocation

	defenderHomeMatchesVillage := false
	if villageAtTarget != nil {
		for _, d := range defenders {
			if d.HomeID == villageAtTarget.ID {
				defenderHomeMatchesVillage = true
				break
			}
		}
	}

	out := combat.Resolve(troop, defenders, isAttackCommand, targetIsStartLocation, action.StartLocation, action.TargetLocation, defenderHomeMatchesVillage)

	for _, d := range defenders {
		if d.Quantity <= 0 {
			if err := o.Troops.Remove(ctx, d.ID); err != nil {
				logger.WithTroop(d.ID, d.HomeID).Warn("completion: failed to remove defeated defender", zap.Error(err))
			}
			continue
		}
		if err := o.Troops.Update(ctx, d); err != nil {
			logger.WithTroop(d.ID, d.HomeID).Warn("completion: failed to persist defender casualties", zap.Error(err))
		}
	}

	if out.AttackerAllDead {
		troop.Quantity = 0
		troop.Mode = model.ModeIdle
		return
	}

	var attackerOwner string
	if homeVillage, err := o.Villages.Get(ctx, troop.HomeID); err == nil {
		attackerOwner = homeVillage.OwnerID
	}

	if action.ActionType == model.ActionMove && out.AllDefendersDefeated {
		troop.Location = action.TargetLocation
		if villageAtTarget != nil {
			o.settleVillageArrival(troop, villageAtTarget, attackerOwner)
		}
	}
	troop.Mode = model.ModeIdle

	var defenderOwner string
	if villageAtTarget != nil {
		defenderOwner = villageAtTarget.OwnerID
	}
	if o.Bus != nil {
		evt := events.NewCombatResolvedEvent(troop.HomeID, attackerOwner, defenderOwner, out)
		if err := o.Bus.Publish(ctx, evt); err != nil {
			logger.WithTroop(troop.ID, troop.HomeID).Warn("failed to publish combat resolved event", zap.Error(err))
		}
	}
}

// settleVillageArrival applies the friendly-deposit or undefended-enemy-
// steal rule once a troop has arrived, unopposed, on a village's tile.
func (o *Orchestrator) settleVillageArrival(troop *model.Troop, villageAtTarget *model.Village, troopOwnerID string) {
	if villageAtTarget.OwnerID == troopOwnerID {
		combat.DepositToVillage(villageAtTarget, troop)
		return
	}
	combat.StealFromVillage(villageAtTarget, troop)
}

func (o *Orchestrator) persistTroopOutcome(ctx context.Context, troop *model.Troop) error {
	if troop.Quantity <= 0 {
		return o.Troops.Remove(ctx, troop.ID)
	}
	return o.Troops.Update(ctx, troop)
}
