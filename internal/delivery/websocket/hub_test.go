package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minute-empire-backend/internal/events"
)

func TestHub_NotifyDeliversOnlyToOwnersClients(t *testing.T) {
	hub := NewHub(nil, nil)

	a := NewClient(hub, nil, "client-a", "owner-1")
	b := NewClient(hub, nil, "client-b", "owner-2")
	hub.addClient(a)
	hub.addClient(b)

	hub.notify("owner-1", "v1")

	select {
	case msg := <-a.outbound:
		assert.Equal(t, MessageTypeMapUpdate, msg.Type)
		assert.Equal(t, "v1", msg.VillageID)
	default:
		t.Fatal("expected owner-1's client to receive a map_update")
	}

	select {
	case <-b.outbound:
		t.Fatal("owner-2's client must not receive owner-1's notification")
	default:
	}
}

func TestHub_RemoveClientClosesOutboundAndStopsFutureDelivery(t *testing.T) {
	hub := NewHub(nil, nil)
	c := NewClient(hub, nil, "client-a", "owner-1")
	hub.addClient(c)
	hub.removeClient(c)

	_, ok := <-c.outbound
	assert.False(t, ok, "outbound channel must be closed on removal")

	// notify after removal must not panic even though the set is now empty.
	hub.notify("owner-1", "v1")
}

func TestHub_OwnerOfExtractsOwnerFromTaggedEvents(t *testing.T) {
	evt := events.NewTaskCompletedEvent("v1", "owner-9", "task-1", nil)
	assert.Equal(t, "owner-9", ownerOf(evt))
}

func TestHub_OnOwnerEventNotifiesMatchingClient(t *testing.T) {
	hub := NewHub(nil, nil)
	c := NewClient(hub, nil, "client-a", "owner-9")
	hub.addClient(c)

	evt := events.NewTaskCompletedEvent("v1", "owner-9", "task-1", nil)
	require.NoError(t, hub.onOwnerEvent(nil, evt))

	select {
	case msg := <-c.outbound:
		assert.Equal(t, "v1", msg.VillageID)
	default:
		t.Fatal("expected a map_update from onOwnerEvent")
	}
}
