package model

// ResourceKind enumerates the four fungible resources tracked per village
// and per troop backpack.
type ResourceKind string

const (
	Wood  ResourceKind = "wood"
	Stone ResourceKind = "stone"
	Iron  ResourceKind = "iron"
	Food  ResourceKind = "food"
)

// AllResourceKinds is the fixed iteration order used for resource tables.
var AllResourceKinds = [4]ResourceKind{Wood, Stone, Iron, Food}

// FieldType enumerates resource-field types; one field type produces one
// matching resource kind.
type FieldType string

const (
	FieldWood  FieldType = "wood"
	FieldStone FieldType = "stone"
	FieldIron  FieldType = "iron"
	FieldFood  FieldType = "food"
)

// Resource returns the resource kind this field type produces.
func (f FieldType) Resource() ResourceKind { return ResourceKind(f) }

// ConstructionType enumerates city building kinds. Wall is modeled
// separately (city.wall) but shares the same type tag for table lookups.
type ConstructionType string

const (
	CityCenter ConstructionType = "city_center"
	Warehouse  ConstructionType = "warehouse"
	Granary    ConstructionType = "granary"
	RallyPoint ConstructionType = "rally_point"
	Barracks   ConstructionType = "barracks"
	Archery    ConstructionType = "archery"
	Stable     ConstructionType = "stable"
	HideSpot   ConstructionType = "hide_spot"
	Wall       ConstructionType = "wall"
)

// TroopType enumerates the four unit types.
type TroopType string

const (
	Militia      TroopType = "militia"
	Archer       TroopType = "archer"
	LightCavalry TroopType = "light_cavalry"
	Pikeman      TroopType = "pikeman"
)

// TroopMode is the troop's current disposition.
type TroopMode string

const (
	ModeIdle    TroopMode = "idle"
	ModeMove    TroopMode = "move"
	ModeAttack  TroopMode = "attack"
	ModeDefend  TroopMode = "defend"
)

// TaskType enumerates construction/field task kinds.
type TaskType string

const (
	CreateBuilding  TaskType = "CREATE_BUILDING"
	UpgradeBuilding TaskType = "UPGRADE_BUILDING"
	DestroyBuilding TaskType = "DESTROY_BUILDING"
	CreateField     TaskType = "CREATE_FIELD"
	UpgradeField    TaskType = "UPGRADE_FIELD"
	DestroyField    TaskType = "DESTROY_FIELD"
)

// IsBuildingTask reports whether a task type targets city.constructions (or
// the wall) rather than resource_fields.
func (t TaskType) IsBuildingTask() bool {
	switch t {
	case CreateBuilding, UpgradeBuilding, DestroyBuilding:
		return true
	default:
		return false
	}
}

// IsDestroy reports whether a task type removes its target instead of
// creating or leveling it up.
func (t TaskType) IsDestroy() bool {
	return t == DestroyBuilding || t == DestroyField
}

// TroopActionType enumerates troop-action kinds.
type TroopActionType string

const (
	ActionMove   TroopActionType = "MOVE"
	ActionAttack TroopActionType = "ATTACK"
)
