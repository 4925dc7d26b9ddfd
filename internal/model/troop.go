package model

import "time"

// Troop is a stack of same-type units belonging to a home village, per
// spec.md §3. Quantity reaching zero means the troop is deleted, never
// persisted with Quantity == 0.
type Troop struct {
	ID        string    `json:"id"`
	Type      TroopType `json:"type"`
	HomeID    string    `json:"home_id"`
	Quantity  int       `json:"quantity"`
	Location  Location  `json:"location"`
	Mode      TroopMode `json:"mode"`
	Backpack  Resources `json:"backpack"`
	CreatedAt time.Time `json:"created_at"`
}

// DeepCopy returns an independent copy.
func (t *Troop) DeepCopy() *Troop {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// TroopAction is a standalone, global document: a pending or completed
// move/attack, per spec.md §3. Kept outside Village/Troop because it spans
// two locations and must be scanned globally on restart.
type TroopAction struct {
	ID             string          `json:"id"`
	TroopID        string          `json:"troop_id"`
	ActionType     TroopActionType `json:"action_type"`
	StartLocation  Location        `json:"start_location"`
	TargetLocation Location        `json:"target_location"`
	StartedAt      time.Time       `json:"started_at"`
	CompletionTime time.Time       `json:"completion_time"`
	Processed      bool            `json:"processed"`
}

// DeepCopy returns an independent copy.
func (a *TroopAction) DeepCopy() *TroopAction {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// User is owned by the out-of-scope auth collaborator; the core only reads
// FamilyName/Color to decorate map output (spec.md §3).
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	FamilyName   string `json:"family_name"`
	Color        string `json:"color"`
}

// DeepCopy returns an independent copy.
func (u *User) DeepCopy() *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
