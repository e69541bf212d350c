package state

import (
	"sync"

	"cuaderno/internal/model"
)

// Singleton holds at most one value.
type Singleton[T any] struct {
	mu  sync.RWMutex
	val *T
}

// Get returns a copy of the value, or nil when unset.
func (s *Singleton[T]) Get() *T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.val == nil {
		return nil
	}
	v := *s.val
	return &v
}

// Set stores a copy of v; nil clears the value.
func (s *Singleton[T]) Set(v *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil {
		s.val = nil
		return
	}
	cp := *v
	s.val = &cp
}

// State aggregates the six collections of the application.
type State struct {
	Parcels  *Collection[model.Parcel]
	Crops    *Collection[model.Crop]
	Records  *Collection[model.FinancialRecord]
	Invoices *Collection[model.Invoice]
	Tasks    *Collection[model.Task]
	Fiscal   *Singleton[model.FiscalProfile]
}

func New() *State {
	return &State{
		Parcels:  NewCollection[model.Parcel](),
		Crops:    NewCollection[model.Crop](),
		Records:  NewCollection[model.FinancialRecord](),
		Invoices: NewCollection[model.Invoice](),
		Tasks:    NewCollection[model.Task](),
		Fiscal:   &Singleton[model.FiscalProfile]{},
	}
}
