package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"cuaderno/internal/model"
	"cuaderno/internal/repository"
)

// Repositories groups the five list repositories.
type Repositories struct {
	Parcels  repository.Repository[model.Parcel]
	Crops    repository.Repository[model.Crop]
	Records  repository.Repository[model.FinancialRecord]
	Invoices repository.Repository[model.Invoice]
	Tasks    repository.Repository[model.Task]
}

// LoaderService fills local state from the store. Until a load succeeds,
// Ready reports why data is unavailable.
type LoaderService interface {
	Load(ctx context.Context) error
	Ready() error
}

type loaderService struct {
	repos  Repositories
	fiscal FiscalService
	health HealthService
	notify Notifier

	mu      sync.RWMutex
	loadErr error
}

func NewLoaderService(repos Repositories, fiscal FiscalService, health HealthService, notify Notifier) LoaderService {
	return &loaderService{
		repos:   repos,
		fiscal:  fiscal,
		health:  health,
		notify:  notifierOrNop(notify),
		loadErr: ErrNotReady,
	}
}

// Load fetches the six collections concurrently and only then replaces local
// state, so a failed load leaves the previous state in place.
func (s *loaderService) Load(ctx context.Context) error {
	var (
		parcels  []model.Parcel
		crops    []model.Crop
		records  []model.FinancialRecord
		invoices []model.Invoice
		tasks    []model.Task
		profile  *model.FiscalProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { parcels, err = s.repos.Parcels.Fetch(gctx); return })
	g.Go(func() (err error) { crops, err = s.repos.Crops.Fetch(gctx); return })
	g.Go(func() (err error) { records, err = s.repos.Records.Fetch(gctx); return })
	g.Go(func() (err error) { invoices, err = s.repos.Invoices.Fetch(gctx); return })
	g.Go(func() (err error) { tasks, err = s.repos.Tasks.Fetch(gctx); return })
	g.Go(func() (err error) { profile, err = s.fiscal.Fetch(gctx); return })

	if err := g.Wait(); err != nil {
		err = fmt.Errorf("failed to connect to the database or load data: %w", err)
		s.setResult(err)
		return err
	}

	s.repos.Parcels.Reset(parcels)
	s.repos.Crops.Reset(crops)
	s.repos.Records.Reset(records)
	s.repos.Invoices.Reset(invoices)
	s.repos.Tasks.Reset(tasks)
	s.fiscal.Reset(profile)

	s.setResult(nil)
	s.notify.Notify("*", ActionReloaded, "")
	return nil
}

func (s *loaderService) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *loaderService) setResult(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
	if s.health != nil {
		s.health.SetConnected(err == nil)
	}
}
