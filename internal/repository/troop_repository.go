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

// TroopRepository stores every troop stack, keyed by troop id.
type TroopRepository interface {
	Add(ctx context.Context, troop model.Troop) error
	Get(ctx context.Context, id string) (*model.Troop, error)
	Update(ctx context.Context, troop *model.Troop) error
	ListByHome(ctx context.Context, homeID string) ([]model.Troop, error)
	ListByLocation(ctx context.Context, loc model.Location) ([]model.Troop, error)
	ListAll(ctx context.Context) ([]model.Troop, error)
	Remove(ctx context.Context, id string) error
}

type troopRepository struct {
	mu       sync.RWMutex
	troops   map[string]*model.Troop
	eventBus events.Bus
}

// NewTroopRepository builds an in-memory TroopRepository.
func NewTroopRepository(eventBus events.Bus) TroopRepository {
	return &troopRepository{
		troops:   make(map[string]*model.Troop),
		eventBus: eventBus,
	}
}

func (r *troopRepository) Add(ctx context.Context, troop model.Troop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if troop.ID == "" {
		return fmt.Errorf("troop id cannot be empty")
	}
	if _, exists := r.troops[troop.ID]; exists {
		return fmt.Errorf("troop %s already exists", troop.ID)
	}
	r.troops[troop.ID] = troop.DeepCopy()
	return nil
}

func (r *troopRepository) Get(ctx context.Context, id string) (*model.Troop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.troops[id]
	if !exists {
		return nil, fmt.Errorf("troop %s not found", id)
	}
	return t.DeepCopy(), nil
}

func (r *troopRepository) Update(ctx context.Context, troop *model.Troop) error {
	r.mu.Lock()
	if troop == nil {
		r.mu.Unlock()
		return fmt.Errorf("troop cannot be nil")
	}
	old, exists := r.troops[troop.ID]
	if !exists {
		r.mu.Unlock()
		return fmt.Errorf("troop %s not found", troop.ID)
	}
	var oldLoc model.Location
	if old != nil {
		oldLoc = old.Location
	}
	r.troops[troop.ID] = troop.DeepCopy()
	r.mu.Unlock()

	if r.eventBus != nil && oldLoc != troop.Location {
		evt := events.NewTroopMovedEvent(troop.HomeID, "", troop.ID, troop.Location)
		if err := r.eventBus.Publish(ctx, evt); err != nil {
			logger.WithTroop(troop.ID, troop.HomeID).Warn("failed to publish troop moved event", zap.Error(err))
		}
	}
	return nil
}

func (r *troopRepository) ListByHome(ctx context.Context, homeID string) ([]model.Troop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Troop, 0)
	for _, t := range r.troops {
		if t.HomeID == homeID {
			out = append(out, *t.DeepCopy())
		}
	}
	return out, nil
}

func (r *troopRepository) ListByLocation(ctx context.Context, loc model.Location) ([]model.Troop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Troop, 0)
	for _, t := range r.troops {
		if t.Location == loc {
			out = append(out, *t.DeepCopy())
		}
	}
	return out, nil
}

func (r *troopRepository) ListAll(ctx context.Context) ([]model.Troop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Troop, 0, len(r.troops))
	for _, t := range r.troops {
		out = append(out, *t.DeepCopy())
	}
	return out, nil
}

func (r *troopRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.troops[id]; !exists {
		return fmt.Errorf("troop %s not found", id)
	}
	delete(r.troops, id)
	return nil
}
