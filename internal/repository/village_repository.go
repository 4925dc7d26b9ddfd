// Package repository is the persistence boundary (spec.md §4.2, component
// C2): an abstract document store behind narrow per-entity interfaces, with
// an in-memory implementation. Every read returns a DeepCopy so callers can
// never alias internal state. Update on the village repository publishes a
// domain event when a village's resources change, and Update on the troop
// repository publishes one when a troop's location changes, so the
// websocket layer can decide who needs a fresh map; Add and Remove, and the
// troop-action and user repositories, publish nothing. Grounded on the
// teacher's internal/repository package (player_repository.go's
// mutex-guarded map + DeepCopy + event-publish shape).
package repository

import (
	"context"
	"fmt"
	"sync"

	"minute-empire-backend/internal/events"
	"minute-empire-backend/internal/logger"
	"minute-empire-backend/internal/model"

	"go.uber.org/zap"
)

// VillageRepository stores every village, keyed by village id.
type VillageRepository interface {
	Add(ctx context.Context, village model.Village) error
	Get(ctx context.Context, id string) (*model.Village, error)
	Update(ctx context.Context, village *model.Village) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Village, error)
	ListAll(ctx context.Context) ([]model.Village, error)
	Remove(ctx context.Context, id string) error
}

type villageRepository struct {
	mu       sync.RWMutex
	villages map[string]*model.Village
	eventBus events.Bus
}

// NewVillageRepository builds an in-memory VillageRepository. eventBus may
// be nil, in which case writes are silent (used by domain-only tests).
func NewVillageRepository(eventBus events.Bus) VillageRepository {
	return &villageRepository{
		villages: make(map[string]*model.Village),
		eventBus: eventBus,
	}
}

func (r *villageRepository) Add(ctx context.Context, village model.Village) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if village.ID == "" {
		return fmt.Errorf("village id cannot be empty")
	}
	if _, exists := r.villages[village.ID]; exists {
		return fmt.Errorf("village %s already exists", village.ID)
	}

	r.villages[village.ID] = village.DeepCopy()

	logger.WithVillage(village.ID, village.OwnerID).Debug("village added")
	return nil
}

func (r *villageRepository) Get(ctx context.Context, id string) (*model.Village, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, exists := r.villages[id]
	if !exists {
		return nil, fmt.Errorf("village %s not found", id)
	}
	return v.DeepCopy(), nil
}

func (r *villageRepository) Update(ctx context.Context, village *model.Village) error {
	r.mu.Lock()
	if village == nil {
		r.mu.Unlock()
		return fmt.Errorf("village cannot be nil")
	}

	old, exists := r.villages[village.ID]
	if !exists {
		r.mu.Unlock()
		return fmt.Errorf("village %s not found", village.ID)
	}

	var oldResources model.Resources
	if old != nil {
		oldResources = old.Resources
	}
	r.villages[village.ID] = village.DeepCopy()
	r.mu.Unlock()

	if r.eventBus != nil && oldResources != village.Resources {
		evt := events.NewVillageResourcesChangedEvent(village.ID, village.OwnerID, village.Resources)
		if err := r.eventBus.Publish(ctx, evt); err != nil {
			logger.WithVillage(village.ID, village.OwnerID).Warn("failed to publish resources changed event", zap.Error(err))
		}
	}
	return nil
}

func (r *villageRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Village, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Village, 0)
	for _, v := range r.villages {
		if v.OwnerID == ownerID {
			out = append(out, *v.DeepCopy())
		}
	}
	return out, nil
}

func (r *villageRepository) ListAll(ctx context.Context) ([]model.Village, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Village, 0, len(r.villages))
	for _, v := range r.villages {
		out = append(out, *v.DeepCopy())
	}
	return out, nil
}

func (r *villageRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.villages[id]; !exists {
		return fmt.Errorf("village %s not found", id)
	}
	delete(r.villages, id)
	return nil
}
