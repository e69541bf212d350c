package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cuaderno/internal/casing"
	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/state"
	"cuaderno/internal/store"
)

// Export envelope identification.
const (
	BackupAppName = "Cuaderno de Campo Agrícola"
	BackupVersion = "1.1-supabase"
)

// ErrInvalidDocument is returned for import payloads without a data object.
var ErrInvalidDocument = errors.New("invalid backup file: it does not contain a 'data' object")

// BackupData holds every collection of a backup document.
type BackupData struct {
	Parcels  []model.Parcel          `json:"parcelas"`
	Crops    []model.Crop            `json:"cultivos"`
	Records  []model.FinancialRecord `json:"registrosFinancieros"`
	Invoices []model.Invoice         `json:"facturas"`
	Tasks    []model.Task            `json:"trabajos"`
	Fiscal   *model.FiscalProfile    `json:"datosFiscales"`
}

// BackupDocument is the export file layout.
type BackupDocument struct {
	AppName    string     `json:"appName"`
	Version    string     `json:"version"`
	ExportedAt string     `json:"exportedAt"`
	Data       BackupData `json:"data"`
}

// BackupService exports local state and replaces the remote tables from a
// backup. Import is not transactional: a failing step leaves the tables in
// whatever state the earlier steps produced.
type BackupService interface {
	Export(now time.Time) BackupDocument
	ExportJSON(now time.Time) (body []byte, filename string, err error)
	ParseDocument(raw []byte) (*BackupDocument, error)
	Import(ctx context.Context, data BackupData) error
}

type backupService struct {
	store     store.TableStore
	state     *state.State
	loader    LoaderService
	profileID string
}

func NewBackupService(s store.TableStore, st *state.State, loader LoaderService, profileID string) BackupService {
	return &backupService{store: s, state: st, loader: loader, profileID: profileID}
}

func (s *backupService) Export(now time.Time) BackupDocument {
	return BackupDocument{
		AppName:    BackupAppName,
		Version:    BackupVersion,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Data: BackupData{
			Parcels:  s.state.Parcels.All(),
			Crops:    s.state.Crops.All(),
			Records:  s.state.Records.All(),
			Invoices: s.state.Invoices.All(),
			Tasks:    s.state.Tasks.All(),
			Fiscal:   s.state.Fiscal.Get(),
		},
	}
}

func (s *backupService) ExportJSON(now time.Time) ([]byte, string, error) {
	body, err := json.MarshalIndent(s.Export(now), "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode backup: %w", err)
	}
	return body, BackupFilename(now), nil
}

// BackupFilename names the export file after its date.
func BackupFilename(now time.Time) string {
	return "cuaderno-campo-backup-" + now.Format(model.DateLayout) + ".json"
}

func (s *backupService) ParseDocument(raw []byte) (*BackupDocument, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	data, ok := envelope["data"]
	if !ok {
		return nil, ErrInvalidDocument
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrInvalidDocument
	}

	// Backups written straight from the tables carry snake_case keys
	// (parcela_id, cultivo_id); fold them into the record field names.
	normalized, err := denormalizeData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	envelope["data"] = normalized
	if raw, err = json.Marshal(envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc BackupDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

func denormalizeData(data json.RawMessage) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return json.Marshal(casing.DenormalizeMap(m))
}

func (s *backupService) Import(ctx context.Context, data BackupData) error {
	for _, table := range model.WipeOrder {
		if err := s.wipe(ctx, table); err != nil {
			return err
		}
	}

	if data.Fiscal != nil {
		profile := *data.Fiscal
		profile.ID = s.profileID
		profile.Email = nonEmpty(profile.Email)
		profile.Phone = nonEmpty(profile.Phone)
		if err := importRows(ctx, s.store, model.TableFiscalProfile, []model.FiscalProfile{profile}); err != nil {
			return err
		}
	}
	if err := importRows(ctx, s.store, model.TableParcels, data.Parcels); err != nil {
		return err
	}
	if err := importRows(ctx, s.store, model.TableCrops, data.Crops); err != nil {
		return err
	}
	if err := importRows(ctx, s.store, model.TableFinancialRecords, data.Records); err != nil {
		return err
	}
	if err := importRows(ctx, s.store, model.TableInvoices, data.Invoices); err != nil {
		return err
	}
	if err := importRows(ctx, s.store, model.TableTasks, data.Tasks); err != nil {
		return err
	}

	return s.loader.Load(ctx)
}

// wipe deletes every row of table by selecting its ids first; the store
// refuses unfiltered deletes.
func (s *backupService) wipe(ctx context.Context, table string) error {
	rows, err := s.store.Select(ctx, table, []string{model.ColumnID})
	if err != nil {
		return fmt.Errorf("failed to read %s before import: %w", table, store.Describe(err))
	}
	ids := rowIDs(rows)
	if len(ids) == 0 {
		return nil
	}
	if err := s.store.Delete(ctx, table, store.In(model.ColumnID, ids)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, store.Describe(err))
	}
	return nil
}

func importRows[T any](ctx context.Context, s store.TableStore, table string, items []T) error {
	if len(items) == 0 {
		return nil
	}
	rows, err := repository.EncodeRows(items)
	if err != nil {
		return err
	}
	if _, err := s.Insert(ctx, table, model.ColumnID, rows); err != nil {
		return fmt.Errorf("failed to import %s: %w", table, store.Describe(err))
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
