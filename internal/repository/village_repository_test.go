package repository

import (
	"context"
	"testing"

	"minute-empire-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVillageRepository_AddGetIsDeepCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewVillageRepository(nil)

	v := model.Village{ID: "v1", OwnerID: "u1", Resources: model.Resources{Wood: 10}}
	require.NoError(t, repo.Add(ctx, v))

	got, err := repo.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Resources.Wood)

	got.Resources.Wood = 9999
	got2, err := repo.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got2.Resources.Wood, "mutating a returned copy must not affect stored state")
}

func TestVillageRepository_AddDuplicateFails(t *testing.T) {
	ctx := context.Background()
	repo := NewVillageRepository(nil)

	require.NoError(t, repo.Add(ctx, model.Village{ID: "v1", OwnerID: "u1"}))
	err := repo.Add(ctx, model.Village{ID: "v1", OwnerID: "u1"})
	assert.Error(t, err)
}

func TestVillageRepository_GetMissingFails(t *testing.T) {
	repo := NewVillageRepository(nil)
	_, err := repo.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestVillageRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewVillageRepository(nil)

	require.NoError(t, repo.Add(ctx, model.Village{ID: "v1", OwnerID: "u1"}))
	require.NoError(t, repo.Add(ctx, model.Village{ID: "v2", OwnerID: "u1"}))
	require.NoError(t, repo.Add(ctx, model.Village{ID: "v3", OwnerID: "u2"}))

	owned, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestVillageRepository_UpdatePublishesResourcesChangedEvent(t *testing.T) {
	ctx := context.Background()
	bus := newCapturingBus()
	repo := NewVillageRepository(bus)

	v := model.Village{ID: "v1", OwnerID: "u1", Resources: model.Resources{Wood: 10}}
	require.NoError(t, repo.Add(ctx, v))

	v.Resources.Wood = 20
	require.NoError(t, repo.Update(ctx, &v))

	assert.Eventually(t, func() bool { return bus.count() == 1 }, assertEventuallyTimeout, assertEventuallyTick)
}
