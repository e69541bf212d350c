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
type InvoiceRequest struct {
	Number              string           `json:"numeroFactura" binding:"required"`
	Date                model.Date       `json:"fecha" binding:"required"`
	Type                string           `json:"tipo" binding:"required,oneof=emitida recibida"`
	Counterparty        string           `json:"clienteProveedor" binding:"required"`
	CounterpartyTaxID   string           `json:"clienteProveedorNif"`
	CounterpartyAddress string           `json:"clienteProveedorDireccion"`
	Description         string           `json:"descripcion"`
	TaxableBase         decimal.Decimal  `json:"baseImponible"`
	VATRate             *decimal.Decimal `json:"ivaPorcentaje"` // defaults to model.DefaultVATRate
	Paid                bool             `json:"pagada"`
	Notes               string           `json:"notas"`
}

// toModel builds the invoice with its total derived from base and rate; any
// client-supplied total is ignored.
func (r InvoiceRequest) toModel(id string) model.Invoice {
	rate := model.DefaultVATRate
	if r.VATRate != nil {
		rate = *r.VATRate
	}
	inv := model.Invoice{
		ID:                  id,
		Number:              r.Number,
		Date:                r.Date,
		Type:                r.Type,
		Counterparty:        r.Counterparty,
		CounterpartyTaxID:   r.CounterpartyTaxID,
		CounterpartyAddress: r.CounterpartyAddress,
		Description:         r.Description,
		TaxableBase:         r.TaxableBase,
		VATRate:             rate,
		Paid:                r.Paid,
		Notes:               r.Notes,
	}
	inv.RecomputeTotal()
	return inv
}

type InvoiceService interface {
	List(invoiceType string) []model.Invoice
	Get(id string) (model.Invoice, error)
	Create(ctx context.Context, req InvoiceRequest) (repository.Result[model.Invoice], error)
	Update(ctx context.Context, id string, req InvoiceRequest) (repository.Result[model.Invoice], error)
	Delete(ctx context.Context, id string) error
}

type invoiceService struct {
	repo   repository.Repository[model.Invoice]
	items  *state.Collection[model.Invoice]
	notify Notifier
}

func NewInvoiceService(repo repository.Repository[model.Invoice], items *state.Collection[model.Invoice], notify Notifier) InvoiceService {
	return &invoiceService{repo: repo, items: items, notify: notifierOrNop(notify)}
}

// List returns every invoice, or only those of invoiceType when it is set.
func (s *invoiceService) List(invoiceType string) []model.Invoice {
	all := s.items.All()
	if invoiceType == "" {
		return all
	}
	out := make([]model.Invoice, 0, len(all))
	for _, f := range all {
		if f.Type == invoiceType {
			out = append(out, f)
		}
	}
	return out
}

func (s *invoiceService) Get(id string) (model.Invoice, error) {
	inv, ok := s.items.Get(id)
	if !ok {
		return model.Invoice{}, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	return inv, nil
}

func (s *invoiceService) Create(ctx context.Context, req InvoiceRequest) (repository.Result[model.Invoice], error) {
	if err := validateInvoice(req); err != nil {
		return repository.Result[model.Invoice]{}, err
	}
	res, err := s.repo.Add(ctx, req.toModel(""))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableInvoices, ActionCreated, res.Item.ID)
	return res, nil
}

func (s *invoiceService) Update(ctx context.Context, id string, req InvoiceRequest) (repository.Result[model.Invoice], error) {
	if _, ok := s.items.Get(id); !ok {
		return repository.Result[model.Invoice]{}, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	if err := validateInvoice(req); err != nil {
		return repository.Result[model.Invoice]{}, err
	}
	res, err := s.repo.Update(ctx, req.toModel(id))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableInvoices, ActionUpdated, id)
	return res, nil
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	if _, ok := s.items.Get(id); !ok {
		return fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.Notify(model.TableInvoices, ActionDeleted, id)
	return nil
}

func validateInvoice(req InvoiceRequest) error {
	if req.TaxableBase.IsNegative() {
		return fmt.Errorf("%w: baseImponible must not be negative", ErrInvalidInput)
	}
	if req.VATRate != nil && req.VATRate.IsNegative() {
		return fmt.Errorf("%w: ivaPorcentaje must not be negative", ErrInvalidInput)
	}
	return nil
}
