// Package orchestrator is the action & combat orchestrator (spec.md §4.5,
// component C5): command parsing, the submission envelope shared by every
// command kind, completion callbacks, and their wiring into the scheduler
// and event bus. Grounded on the teacher's usecase-layer shape (thin
// handler methods over repositories; mutations are plain sequential field
// writes, with no transaction/Operation objects) adapted to a text-command
// game loop instead of a turn-based card game.
package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"minute-empire-backend/internal/model"
)

// CommandKind tags a parsed command's verb.
type CommandKind string

const (
	CmdCreateField      CommandKind = "create_field"
	CmdCreateBuilding   CommandKind = "create_building"
	CmdUpgradeField     CommandKind = "upgrade_field"
	CmdUpgradeBuilding  CommandKind = "upgrade_building"
	CmdDestroyField     CommandKind = "destroy_field"
	CmdDestroyBuilding  CommandKind = "destroy_building"
	CmdTrain            CommandKind = "train"
	CmdMove             CommandKind = "move"
	CmdAttack           CommandKind = "attack"
)

// Command is a fully parsed, not-yet-validated player command (spec.md
// §4.5.1's grammar).
type Command struct {
	Kind       CommandKind
	FieldType  model.FieldType
	BuildType  model.ConstructionType
	Slot       int
	TroopType  model.TroopType
	Quantity   int
	TroopID    string
	Target     model.Location
}

// ParseError is returned for any grammatically invalid command: unknown
// verb, missing keyword, or non-integer coordinate (spec.md §4.5.1).
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse command %q: %s", e.Input, e.Reason)
}

// Parse turns one line of player input into a Command. Parsing is
// case-insensitive, whitespace-split, and permissive about comma vs space
// between coordinates, per spec.md §4.5.1.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		return Command{}, &ParseError{Input: input, Reason: "empty command"}
	}

	switch fields[0] {
	case "create":
		return parseCreate(input, fields)
	case "upgrade":
		return parseUpgradeOrDestroy(input, fields, true)
	case "destroy":
		return parseUpgradeOrDestroy(input, fields, false)
	case "train":
		return parseTrain(input, fields)
	case "move":
		return parseMoveOrAttack(input, fields, true)
	case "attack":
		return parseMoveOrAttack(input, fields, false)
	default:
		return Command{}, &ParseError{Input: input, Reason: "unknown verb " + fields[0]}
	}
}

// parseCreate handles "create <subtype> field|building in <slot>".
func parseCreate(input string, fields []string) (Command, error) {
	if len(fields) != 5 || fields[3] != "in" {
		return Command{}, &ParseError{Input: input, Reason: "expected: create <subtype> field|building in <slot>"}
	}
	subtype, kind, slotTok := fields[1], fields[2], fields[4]
	slot, err := strconv.Atoi(slotTok)
	if err != nil {
		return Command{}, &ParseError{Input: input, Reason: "slot must be an integer"}
	}

	switch kind {
	case "field":
		ft := model.FieldType(subtype)
		if !isValidFieldType(ft) {
			return Command{}, &ParseError{Input: input, Reason: "unknown field subtype " + subtype}
		}
		return Command{Kind: CmdCreateField, FieldType: ft, Slot: slot}, nil
	case "building":
		bt := model.ConstructionType(subtype)
		if !isValidBuildingType(bt) {
			return Command{}, &ParseError{Input: input, Reason: "unknown building subtype " + subtype}
		}
		return Command{Kind: CmdCreateBuilding, BuildType: bt, Slot: slot}, nil
	default:
		return Command{}, &ParseError{Input: input, Reason: "expected 'field' or 'building', got " + kind}
	}
}

// parseUpgradeOrDestroy handles "upgrade|destroy field|building in <slot>".
func parseUpgradeOrDestroy(input string, fields []string, upgrade bool) (Command, error) {
	if len(fields) != 4 || fields[2] != "in" {
		verb := "destroy"
		if upgrade {
			verb = "upgrade"
		}
		return Command{}, &ParseError{Input: input, Reason: fmt.Sprintf("expected: %s field|building in <slot>", verb)}
	}
	kind, slotTok := fields[1], fields[3]
	slot, err := strconv.Atoi(slotTok)
	if err != nil {
		return Command{}, &ParseError{Input: input, Reason: "slot must be an integer"}
	}

	switch kind {
	case "field":
		if upgrade {
			return Command{Kind: CmdUpgradeField, Slot: slot}, nil
		}
		return Command{Kind: CmdDestroyField, Slot: slot}, nil
	case "building":
		if upgrade {
			return Command{Kind: CmdUpgradeBuilding, Slot: slot}, nil
		}
		return Command{Kind: CmdDestroyBuilding, Slot: slot}, nil
	default:
		return Command{}, &ParseError{Input: input, Reason: "expected 'field' or 'building', got " + kind}
	}
}

// parseTrain handles "train <qty> <troop_type>".
func parseTrain(input string, fields []string) (Command, error) {
	if len(fields) != 3 {
		return Command{}, &ParseError{Input: input, Reason: "expected: train <qty> <troop_type>"}
	}
	qty, err := strconv.Atoi(fields[1])
	if err != nil || qty <= 0 {
		return Command{}, &ParseError{Input: input, Reason: "quantity must be a positive integer"}
	}
	tt := model.TroopType(fields[2])
	if !isValidTroopType(tt) {
		return Command{}, &ParseError{Input: input, Reason: "unknown troop type " + fields[2]}
	}
	return Command{Kind: CmdTrain, TroopType: tt, Quantity: qty}, nil
}

// parseMoveOrAttack handles "move|attack <troop_id> to <x>,<y>" and the
// space-separated coordinate variant.
func parseMoveOrAttack(input string, fields []string, isMove bool) (Command, error) {
	verb := "attack"
	if isMove {
		verb = "move"
	}
	if len(fields) < 4 || fields[2] != "to" {
		return Command{}, &ParseError{Input: input, Reason: fmt.Sprintf("expected: %s <troop_id> to <x>,<y>", verb)}
	}

	troopID := fields[1]
	coordTokens := strings.Join(fields[3:], " ")
	x, y, err := parseCoordinates(coordTokens)
	if err != nil {
		return Command{}, &ParseError{Input: input, Reason: err.Error()}
	}

	kind := CmdAttack
	if isMove {
		kind = CmdMove
	}
	return Command{Kind: kind, TroopID: troopID, Target: model.Location{X: x, Y: y}}, nil
}

// parseCoordinates accepts "x,y", "x, y" or "x y".
func parseCoordinates(s string) (int, int, error) {
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two integer coordinates, got %q", s)
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("x coordinate must be an integer")
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("y coordinate must be an integer")
	}
	return x, y, nil
}

func isValidFieldType(f model.FieldType) bool {
	switch f {
	case model.FieldWood, model.FieldStone, model.FieldIron, model.FieldFood:
		return true
	}
	return false
}

func isValidBuildingType(b model.ConstructionType) bool {
	switch b {
	case model.CityCenter, model.Warehouse, model.Granary, model.RallyPoint,
		model.Barracks, model.Archery, model.Stable, model.HideSpot, model.Wall:
		return true
	}
	return false
}

func isValidTroopType(t model.TroopType) bool {
	switch t {
	case model.Militia, model.Archer, model.LightCavalry, model.Pikeman:
		return true
	}
	return false
}

// Serialize renders a Command back to its canonical text form, the inverse
// of Parse (spec.md §8's round-trip law L1).
func (c Command) Serialize() string {
	switch c.Kind {
	case CmdCreateField:
		return fmt.Sprintf("create %s field in %d", c.FieldType, c.Slot)
	case CmdCreateBuilding:
		return fmt.Sprintf("create %s building in %d", c.BuildType, c.Slot)
	case CmdUpgradeField:
		return fmt.Sprintf("upgrade field in %d", c.Slot)
	case CmdUpgradeBuilding:
		return fmt.Sprintf("upgrade building in %d", c.Slot)
	case CmdDestroyField:
		return fmt.Sprintf("destroy field in %d", c.Slot)
	case CmdDestroyBuilding:
		return fmt.Sprintf("destroy building in %d", c.Slot)
	case CmdTrain:
		return fmt.Sprintf("train %d %s", c.Quantity, c.TroopType)
	case CmdMove:
		return fmt.Sprintf("move %s to %d,%d", c.TroopID, c.Target.X, c.Target.Y)
	case CmdAttack:
		return fmt.Sprintf("attack %s to %d,%d", c.TroopID, c.Target.X, c.Target.Y)
	default:
		return ""
	}
}
