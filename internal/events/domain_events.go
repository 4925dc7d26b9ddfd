package events

// Domain event type tags. Centralized here, mirroring the teacher's
// internal/events/types.go, so delivery subscribers can switch on a single
// constant set instead of importing every publisher package.
const (
	EventTypeVillageResourcesChanged = "village.resources_changed"
	EventTypeTaskCompleted           = "village.task_completed"
	EventTypeCombatResolved          = "troop.combat_resolved"
	EventTypeTroopMoved              = "troop.moved"
)

// VillageResourcesChangedEvent is published whenever a village's stored
// resources are mutated (accrual tick, task cost deduction, deposit, theft).
type VillageResourcesChangedEvent struct {
	BaseEvent
	OwnerID string
}

// NewVillageResourcesChangedEvent builds a VillageResourcesChangedEvent.
func NewVillageResourcesChangedEvent(villageID, ownerID string, payload interface{}) *VillageResourcesChangedEvent {
	return &VillageResourcesChangedEvent{
		BaseEvent: NewBaseEvent(EventTypeVillageResourcesChanged, villageID, payload),
		OwnerID:   ownerID,
	}
}

// TaskCompletedEvent is published when a construction, field or training
// task's completion callback has finished applying its effect.
type TaskCompletedEvent struct {
	BaseEvent
	OwnerID string
	TaskID  string
}

// NewTaskCompletedEvent builds a TaskCompletedEvent.
func NewTaskCompletedEvent(villageID, ownerID, taskID string, payload interface{}) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseEvent: NewBaseEvent(EventTypeTaskCompleted, villageID, payload),
		OwnerID:   ownerID,
		TaskID:    taskID,
	}
}

// CombatResolvedEvent is published after combat resolves for an attack, or
// for a move onto an occupied tile, carrying both sides' owner ids so both
// clients refresh their map. It is not published when the attacker is
// wiped out.
type CombatResolvedEvent struct {
	BaseEvent
	AttackerOwnerID string
	DefenderOwnerID string
}

// NewCombatResolvedEvent builds a CombatResolvedEvent.
func NewCombatResolvedEvent(villageID, attackerOwnerID, defenderOwnerID string, payload interface{}) *CombatResolvedEvent {
	return &CombatResolvedEvent{
		BaseEvent:       NewBaseEvent(EventTypeCombatResolved, villageID, payload),
		AttackerOwnerID: attackerOwnerID,
		DefenderOwnerID: defenderOwnerID,
	}
}

// TroopMovedEvent is published when a troop action (move) completes and the
// troop's location/mode has been updated.
type TroopMovedEvent struct {
	BaseEvent
	OwnerID string
	TroopID string
}

// NewTroopMovedEvent builds a TroopMovedEvent.
func NewTroopMovedEvent(villageID, ownerID, troopID string, payload interface{}) *TroopMovedEvent {
	return &TroopMovedEvent{
		BaseEvent: NewBaseEvent(EventTypeTroopMoved, villageID, payload),
		OwnerID:   ownerID,
		TroopID:   troopID,
	}
}
