package websocket

import (
	"context"
	"sync"

	"minute-empire-backend/internal/events"
	"minute-empire-backend/internal/logger"
	"minute-empire-backend/internal/orchestrator"
)

// Hub maintains every connected client, grouped by owning user id, and
// turns domain events into "map_update" hints for the right clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool // owner id -> set of its clients

	register   chan *Client
	unregister chan *Client

	orchestrator *orchestrator.Orchestrator
	bus          events.Bus
}

// NewHub builds a Hub. Subscribe must be called once before Run to wire the
// event-bus listeners.
func NewHub(o *orchestrator.Orchestrator, bus events.Bus) *Hub {
	return &Hub{
		clients:      make(map[string]map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		orchestrator: o,
		bus:          bus,
	}
}

// Subscribe registers this hub's listeners on every domain event type it
// turns into a client hint. Safe to call once, before Run.
func (h *Hub) Subscribe() {
	if h.bus == nil {
		return
	}
	h.bus.Subscribe(events.EventTypeVillageResourcesChanged, h.onOwnerEvent)
	h.bus.Subscribe(events.EventTypeTaskCompleted, h.onOwnerEvent)
	h.bus.Subscribe(events.EventTypeTroopMoved, h.onOwnerEvent)
	h.bus.Subscribe(events.EventTypeCombatResolved, h.onCombatEvent)
}

func (h *Hub) onOwnerEvent(ctx context.Context, evt events.Event) error {
	owner := ownerOf(evt)
	if owner == "" {
		return nil
	}
	h.notify(owner, evt.GetVillageID())
	return nil
}

func (h *Hub) onCombatEvent(ctx context.Context, evt events.Event) error {
	ce, ok := evt.(*events.CombatResolvedEvent)
	if !ok {
		return nil
	}
	if ce.AttackerOwnerID != "" {
		h.notify(ce.AttackerOwnerID, ce.GetVillageID())
	}
	if ce.DefenderOwnerID != "" && ce.DefenderOwnerID != ce.AttackerOwnerID {
		h.notify(ce.DefenderOwnerID, ce.GetVillageID())
	}
	return nil
}

// ownerOf extracts the owner id carried by the three simple owner-tagged
// event types; combat events are handled separately since they carry two.
func ownerOf(evt events.Event) string {
	switch e := evt.(type) {
	case *events.VillageResourcesChangedEvent:
		return e.OwnerID
	case *events.TaskCompletedEvent:
		return e.OwnerID
	case *events.TroopMovedEvent:
		return e.OwnerID
	default:
		return ""
	}
}

// Run starts the hub's registration loop and blocks until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	logger.Info("starting websocket hub")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.OwnerID] == nil {
		h.clients[c.OwnerID] = make(map[*Client]bool)
	}
	h.clients[c.OwnerID][c] = true
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.OwnerID]; ok {
		if _, present := set[c]; present {
			delete(set, c)
			close(c.outbound)
			if len(set) == 0 {
				delete(h.clients, c.OwnerID)
			}
		}
	}
}

// notify pushes a map_update hint to every client belonging to ownerID.
func (h *Hub) notify(ownerID, villageID string) {
	h.mu.RLock()
	set := h.clients[ownerID]
	h.mu.RUnlock()
	if len(set) == 0 {
		return
	}
	msg := OutboundMessage{Type: MessageTypeMapUpdate, VillageID: villageID}
	for c := range set {
		c.Send(msg)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for owner, set := range h.clients {
		for c := range set {
			close(c.outbound)
			c.conn.Close()
		}
		delete(h.clients, owner)
	}
	logger.Info("websocket hub stopped, all connections closed")
}
