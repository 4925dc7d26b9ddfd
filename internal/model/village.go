package model

import "time"

// Location is an integer grid coordinate. Bounds are enforced by
// domain.InBounds, not by this type.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Construction is a single building in a village's city, or the wall when
// held outside city.constructions (see City.Wall).
type Construction struct {
	Type  ConstructionType `json:"type"`
	Level int              `json:"level"`
	Slot  int              `json:"slot"`
}

// ResourceField is a single resource-producing field.
type ResourceField struct {
	Type  FieldType `json:"type"`
	Level int       `json:"level"`
	Slot  int       `json:"slot"`
}

// City groups a village's wall and its slotted constructions, per spec.md §3.
type City struct {
	Wall          Construction   `json:"wall"`
	Constructions []Construction `json:"constructions"`
}

// ConstructionTask is a pending or completed building/field work item,
// embedded in the owning village (spec.md §3).
type ConstructionTask struct {
	ID             string    `json:"id"`
	TaskType       TaskType  `json:"task_type"`
	TargetType     string    `json:"target_type"`
	Slot           int       `json:"slot"`
	Level          int       `json:"level"`
	StartedAt      time.Time `json:"started_at"`
	CompletionTime time.Time `json:"completion_time"`
	Processed      bool      `json:"processed"`
}

// AffectsProduction reports whether completing this task can change the
// village's production rate or storage capacity, i.e. whether the resource
// accrual engine must stop and re-anchor at its completion instant.
func (t ConstructionTask) AffectsProduction() bool {
	// Destroying/creating/upgrading a field always changes a rate.
	// Buildings affect rates only through production-bonus or capacity
	// levels: city_center, warehouse and granary contribute a production
	// bonus and/or (warehouse/granary) capacity. Rally point/barracks/
	// archery/stable/hide_spot/wall contribute neither; they change
	// total_population bookkeeping, not the production integral — they are
	// therefore excluded.
	switch ConstructionType(t.TargetType) {
	case RallyPoint, Barracks, Archery, Stable, HideSpot, Wall:
		return false
	}
	return true
}

// TroopTrainingTask is a pending or completed troop-training work item,
// embedded in the owning village.
type TroopTrainingTask struct {
	ID             string    `json:"id"`
	TroopType      TroopType `json:"troop_type"`
	Quantity       int       `json:"quantity"`
	StartedAt      time.Time `json:"started_at"`
	CompletionTime time.Time `json:"completion_time"`
	Processed      bool      `json:"processed"`
}

// Village is the authoritative state unit: owned, located, producing, and
// storing resources (spec.md §3).
type Village struct {
	ID                 string              `json:"id"`
	OwnerID            string              `json:"owner_id"`
	Name               string              `json:"name"`
	Location           Location            `json:"location"`
	Resources          Resources           `json:"resources"`
	ResUpdateAt        time.Time           `json:"res_update_at"`
	ResourceFields     []ResourceField     `json:"resource_fields"`
	City               City                `json:"city"`
	ConstructionTasks  []ConstructionTask  `json:"construction_tasks"`
	TroopTrainingTasks []TroopTrainingTask `json:"troop_training_tasks"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

const (
	MaxResourceFields = 20
	MaxConstructions  = 25
)

// DeepCopy returns an independent copy, so repository reads never alias
// internal state (mirrors the teacher's Player.DeepCopy pattern).
func (v *Village) DeepCopy() *Village {
	if v == nil {
		return nil
	}
	cp := *v
	cp.ResourceFields = append([]ResourceField(nil), v.ResourceFields...)
	cp.City.Constructions = append([]Construction(nil), v.City.Constructions...)
	cp.ConstructionTasks = append([]ConstructionTask(nil), v.ConstructionTasks...)
	cp.TroopTrainingTasks = append([]TroopTrainingTask(nil), v.TroopTrainingTasks...)
	return &cp
}

// FieldBySlot returns a pointer into v.ResourceFields for in-place mutation,
// or nil if the slot is empty.
func (v *Village) FieldBySlot(slot int) *ResourceField {
	for i := range v.ResourceFields {
		if v.ResourceFields[i].Slot == slot {
			return &v.ResourceFields[i]
		}
	}
	return nil
}

// ConstructionBySlot returns a pointer into v.City.Constructions, or nil.
// The wall is held in v.City.Wall, not in v.City.Constructions, so it is
// never matched here whatever its slot; query v.City.Wall directly.
func (v *Village) ConstructionBySlot(slot int) *Construction {
	for i := range v.City.Constructions {
		if v.City.Constructions[i].Slot == slot {
			return &v.City.Constructions[i]
		}
	}
	return nil
}

// BuildingOfType returns the first construction of the given type, or nil.
func (v *Village) BuildingOfType(t ConstructionType) *Construction {
	if t == Wall {
		if v.City.Wall.Level > 0 {
			return &v.City.Wall
		}
		return nil
	}
	for i := range v.City.Constructions {
		if v.City.Constructions[i].Type == t {
			return &v.City.Constructions[i]
		}
	}
	return nil
}

// PendingFieldTask returns the unprocessed construction task on the given
// field slot, if any — enforces "at most one unprocessed task per slot".
func (v *Village) PendingFieldTask(slot int) *ConstructionTask {
	for i := range v.ConstructionTasks {
		t := &v.ConstructionTasks[i]
		if !t.Processed && !t.TaskType.IsBuildingTask() && t.Slot == slot {
			return t
		}
	}
	return nil
}

// PendingBuildingTask returns the unprocessed construction task on the given
// building slot, if any.
func (v *Village) PendingBuildingTask(slot int) *ConstructionTask {
	for i := range v.ConstructionTasks {
		t := &v.ConstructionTasks[i]
		if !t.Processed && t.TaskType.IsBuildingTask() && t.Slot == slot {
			return t
		}
	}
	return nil
}

// PendingTrainingTask returns the unprocessed training task for troopType,
// if any — enforces "at most one unprocessed task per (village, troop_type)".
func (v *Village) PendingTrainingTask(troopType TroopType) *TroopTrainingTask {
	for i := range v.TroopTrainingTasks {
		t := &v.TroopTrainingTasks[i]
		if !t.Processed && t.TroopType == troopType {
			return t
		}
	}
	return nil
}
