package websocket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/model"
	"minute-empire-backend/internal/orchestrator"
	"minute-empire-backend/internal/repository"
	"minute-empire-backend/internal/scheduler"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	villages := repository.NewVillageRepository(nil)
	troops := repository.NewTroopRepository(nil)
	actions := repository.NewTroopActionRepository()
	users := repository.NewUserRepository()
	sched := scheduler.New()
	bounds := domain.NewBounds(15)
	orch := orchestrator.New(villages, troops, actions, users, sched, nil, bounds)

	require.NoError(t, villages.Add(context.Background(), model.Village{
		ID: "v1", OwnerID: "u1", Resources: model.Resources{Wood: 500, Stone: 500, Iron: 500, Food: 500},
		City: model.City{Constructions: []model.Construction{{Type: model.CityCenter, Level: 1, Slot: 1}}},
	}))

	return NewHub(orch, nil), "u1"
}

func TestClient_Handle_RejectsNonCommandFrame(t *testing.T) {
	hub, owner := newTestHub(t)
	c := NewClient(hub, nil, "c1", owner)

	c.handle(InboundMessage{Type: MessageTypeMapUpdate})

	msg := <-c.outbound
	assert.Equal(t, MessageTypeError, msg.Type)
}

func TestClient_Handle_RejectsUnparsableCommand(t *testing.T) {
	hub, owner := newTestHub(t)
	c := NewClient(hub, nil, "c1", owner)

	c.handle(InboundMessage{Type: MessageTypeCommand, VillageID: "v1", Command: "not a real command"})

	msg := <-c.outbound
	assert.Equal(t, MessageTypeError, msg.Type)
}

func TestClient_Handle_SubmitsValidCommandAndReturnsResult(t *testing.T) {
	hub, owner := newTestHub(t)
	c := NewClient(hub, nil, "c1", owner)

	c.handle(InboundMessage{Type: MessageTypeCommand, VillageID: "v1", Command: "create wood field in 0"})

	msg := <-c.outbound
	require.Equal(t, MessageTypeResult, msg.Type)
	require.NotNil(t, msg.Result)
	assert.True(t, msg.Result.Success, msg.Result.Message)
	assert.Equal(t, "v1", msg.VillageID)
}
