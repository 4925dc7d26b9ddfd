// Package events carries the side-effect notifications the persistence and
// orchestration layers emit so the websocket delivery layer can push
// map_update frames without being woven into every mutation path. Grounded
// on the teacher's internal/events package.
package events

import "time"

// Event is a domain event that can be published and consumed.
type Event interface {
	// GetType returns the event's type tag.
	GetType() string
	// GetVillageID returns the village this event concerns, if any.
	GetVillageID() string
	// GetTimestamp returns when the event occurred.
	GetTimestamp() time.Time
	// GetPayload returns the event-specific data.
	GetPayload() interface{}
}

// BaseEvent provides the common event fields and accessors.
type BaseEvent struct {
	Type      string      `json:"type"`
	VillageID string      `json:"village_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func (e *BaseEvent) GetType() string         { return e.Type }
func (e *BaseEvent) GetVillageID() string    { return e.VillageID }
func (e *BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e *BaseEvent) GetPayload() interface{} { return e.Payload }

// NewBaseEvent builds a BaseEvent stamped with the current time.
func NewBaseEvent(eventType, villageID string, payload interface{}) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		VillageID: villageID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}
