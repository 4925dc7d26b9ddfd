// Package websocket is the live-update transport named but left largely
// unspecified by spec.md §6: a thin hub that pushes "map_update" hints to a
// user's connected clients whenever one of their villages or troops changes,
// and accepts command submissions as an alternative to the HTTP endpoint.
// Grounded on the teacher's internal/delivery/websocket hub.go/client.go
// pair, stripped of per-game routing (there is one global map here, not many
// concurrent games) and driven by the event bus instead of a direct
// hub.Broadcast channel, since publishers (the scheduler, the orchestrator)
// must never block on a slow client.
package websocket

import "minute-empire-backend/internal/apierrors"

// MessageType tags a WebSocket frame's payload shape.
type MessageType string

const (
	MessageTypeCommand   MessageType = "command"
	MessageTypeResult    MessageType = "result"
	MessageTypeMapUpdate MessageType = "map_update"
	MessageTypeError     MessageType = "error"
)

// InboundMessage is the only frame shape a client sends: a text command to
// submit against one of the caller's own villages.
type InboundMessage struct {
	Type      MessageType `json:"type"`
	VillageID string      `json:"village_id"`
	Command   string      `json:"command"`
}

// OutboundMessage is every frame shape the server sends.
type OutboundMessage struct {
	Type      MessageType       `json:"type"`
	Result    *apierrors.Result `json:"result,omitempty"`
	VillageID string            `json:"village_id,omitempty"`
	Message   string            `json:"message,omitempty"`
}
