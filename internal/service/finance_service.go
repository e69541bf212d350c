package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/state"
)

// DTOs
type FinancialRecordRequest struct {
	Type     string          `json:"tipo" binding:"required,oneof=ingreso gasto"`
	Date     model.Date      `json:"fecha" binding:"required"`
	Concept  string          `json:"concepto" binding:"required"`
	Amount   decimal.Decimal `json:"cantidad"`
	Category string          `json:"categoria"`
	Notes    string          `json:"notas"`
}

func (r FinancialRecordRequest) toModel(id string) model.FinancialRecord {
	return model.FinancialRecord{
		ID:       id,
		Type:     r.Type,
		Date:     r.Date,
		Concept:  r.Concept,
		Amount:   r.Amount,
		Category: r.Category,
		Notes:    r.Notes,
	}
}

type FinanceService interface {
	List(recordType string) []model.FinancialRecord
	Create(ctx context.Context, req FinancialRecordRequest) (repository.Result[model.FinancialRecord], error)
	Update(ctx context.Context, id string, req FinancialRecordRequest) (repository.Result[model.FinancialRecord], error)
	Delete(ctx context.Context, id string) error
}

type financeService struct {
	repo   repository.Repository[model.FinancialRecord]
	items  *state.Collection[model.FinancialRecord]
	notify Notifier
}

func NewFinanceService(repo repository.Repository[model.FinancialRecord], items *state.Collection[model.FinancialRecord], notify Notifier) FinanceService {
	return &financeService{repo: repo, items: items, notify: notifierOrNop(notify)}
}

// List returns every record, or only those of recordType when it is set.
func (s *financeService) List(recordType string) []model.FinancialRecord {
	all := s.items.All()
	if recordType == "" {
		return all
	}
	out := make([]model.FinancialRecord, 0, len(all))
	for _, r := range all {
		if r.Type == recordType {
			out = append(out, r)
		}
	}
	return out
}

func (s *financeService) Create(ctx context.Context, req FinancialRecordRequest) (repository.Result[model.FinancialRecord], error) {
	if err := validateRecord(req); err != nil {
		return repository.Result[model.FinancialRecord]{}, err
	}
	res, err := s.repo.Add(ctx, req.toModel(""))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableFinancialRecords, ActionCreated, res.Item.ID)
	return res, nil
}

func (s *financeService) Update(ctx context.Context, id string, req FinancialRecordRequest) (repository.Result[model.FinancialRecord], error) {
	if _, ok := s.items.Get(id); !ok {
		return repository.Result[model.FinancialRecord]{}, fmt.Errorf("financial record %s: %w", id, ErrNotFound)
	}
	if err := validateRecord(req); err != nil {
		return repository.Result[model.FinancialRecord]{}, err
	}
	res, err := s.repo.Update(ctx, req.toModel(id))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableFinancialRecords, ActionUpdated, id)
	return res, nil
}

func (s *financeService) Delete(ctx context.Context, id string) error {
	if _, ok := s.items.Get(id); !ok {
		return fmt.Errorf("financial record %s: %w", id, ErrNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.Notify(model.TableFinancialRecords, ActionDeleted, id)
	return nil
}

func validateRecord(req FinancialRecordRequest) error {
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: cantidad must be greater than zero", ErrInvalidInput)
	}
	return nil
}
