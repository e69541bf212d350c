package service

import (
	"sync"

	"cuaderno/internal/config"
	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/state"
	"cuaderno/internal/store"
)

type recordedChange struct {
	Collection, Action, ID string
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []recordedChange
}

func (n *recordingNotifier) Notify(collection, action, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, recordedChange{collection, action, id})
}

func (n *recordingNotifier) all() []recordedChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedChange(nil), n.changes...)
}

type testEnv struct {
	store    store.TableStore
	state    *state.State
	repos    Repositories
	notifier *recordingNotifier

	parcels  ParcelService
	crops    CropService
	invoices InvoiceService
	tasks    TaskService
	fiscal   FiscalService
	health   HealthService
	loader   LoaderService
	cascade  CascadeService
	backup   BackupService
}

func newTestEnv(s store.TableStore, atomic bool) *testEnv {
	st := state.New()
	n := &recordingNotifier{}
	repos := Repositories{
		Parcels:  repository.New(model.KindParcel, s, st.Parcels),
		Crops:    repository.New(model.KindCrop, s, st.Crops),
		Records:  repository.New(model.KindFinancialRecord, s, st.Records),
		Invoices: repository.New(model.KindInvoice, s, st.Invoices),
		Tasks:    repository.New(model.KindTask, s, st.Tasks),
	}
	env := &testEnv{store: s, state: st, repos: repos, notifier: n}
	env.parcels = NewParcelService(repos.Parcels, st.Parcels, n)
	env.crops = NewCropService(repos.Crops, st, n)
	env.invoices = NewInvoiceService(repos.Invoices, st.Invoices, n)
	env.tasks = NewTaskService(repos.Tasks, st.Tasks, n)
	env.fiscal = NewFiscalService(s, config.DefaultFiscalProfileID, st.Fiscal, n)
	env.health = NewHealthService(s)
	env.loader = NewLoaderService(repos, env.fiscal, env.health, n)
	env.cascade = NewCascadeService(s, st, repos.Parcels, repos.Crops, atomic, n)
	env.backup = NewBackupService(s, st, env.loader, config.DefaultFiscalProfileID)
	return env
}

func strPtr(s string) *string { return &s }
