package strategy

import (
	"errors"
	"fmt"
	"sync"

	"FinSignal/internal/domain/models"
	domsvc "FinSignal/internal/domain/service"
)

var (
	ErrStrategyNotFound    = errors.New("strategy not found")
	ErrDuplicateStrategy   = errors.New("duplicate strategy id")
	ErrUnknownStrategyType = errors.New("unknown strategy type")
)

// Registry keeps strategies in registration order. Order matters: it decides which
// strategy wins when two emit the same (time, type) marker.
type Registry struct {
	mu    sync.RWMutex
	order []domsvc.Strategy
	byID  map[string]domsvc.Strategy
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]domsvc.Strategy)}
}

// Register appends s. Ids must be unique.
func (r *Registry) Register(s domsvc.Strategy) error {
	if s == nil {
		return fmt.Errorf("register: nil strategy")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID()]; ok {
		return fmt.Errorf("register %q: %w", s.ID(), ErrDuplicateStrategy)
	}
	r.byID[s.ID()] = s
	r.order = append(r.order, s)
	return nil
}

// Get returns the strategy with the given id.
func (r *Registry) Get(id string) (domsvc.Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrStrategyNotFound)
	}
	return s, nil
}

// List returns the strategies in registration order. The slice is a copy.
func (r *Registry) List() []domsvc.Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domsvc.Strategy(nil), r.order...)
}

// Settings returns a settings snapshot per strategy in registration order.
func (r *Registry) Settings() []models.StrategySettings {
	list := r.List()
	out := make([]models.StrategySettings, 0, len(list))
	for _, s := range list {
		out = append(out, s.Settings())
	}
	return out
}

// Update applies a partial settings update to the strategy with the given id.
func (r *Registry) Update(id string, u models.SettingsUpdate) (models.StrategySettings, error) {
	s, err := r.Get(id)
	if err != nil {
		return models.StrategySettings{}, err
	}
	return s.UpdateSettings(u), nil
}
