package service

import (
	"context"
	"errors"
	"fmt"

	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/state"
	"cuaderno/internal/store"
)

// DTOs
type FiscalProfileRequest struct {
	LegalName  string `json:"nombreORazonSocial" binding:"required"`
	TaxID      string `json:"nifCif" binding:"required"`
	Address    string `json:"direccion"`
	PostalCode string `json:"codigoPostal"`
	Locality   string `json:"localidad"`
	Province   string `json:"provincia"`
	Country    string `json:"pais"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"telefono"`
}

func (r FiscalProfileRequest) toModel() model.FiscalProfile {
	return model.FiscalProfile{
		LegalName:  r.LegalName,
		TaxID:      r.TaxID,
		Address:    r.Address,
		PostalCode: r.PostalCode,
		Locality:   r.Locality,
		Province:   r.Province,
		Country:    r.Country,
		Email:      optional(r.Email),
		Phone:      optional(r.Phone),
	}
}

// FiscalService keeps the single fiscal profile row. The row always lives
// under the configured profile id, so saving twice overwrites it.
type FiscalService interface {
	Get() *model.FiscalProfile
	Save(ctx context.Context, req FiscalProfileRequest) (repository.Result[model.FiscalProfile], error)
	// Fetch reads the profile from the store; a missing row yields nil.
	Fetch(ctx context.Context) (*model.FiscalProfile, error)
	Reset(p *model.FiscalProfile)
}

type fiscalService struct {
	store     store.TableStore
	profileID string
	current   *state.Singleton[model.FiscalProfile]
	notify    Notifier
}

func NewFiscalService(s store.TableStore, profileID string, current *state.Singleton[model.FiscalProfile], notify Notifier) FiscalService {
	return &fiscalService{store: s, profileID: profileID, current: current, notify: notifierOrNop(notify)}
}

func (s *fiscalService) Get() *model.FiscalProfile {
	return s.current.Get()
}

func (s *fiscalService) Save(ctx context.Context, req FiscalProfileRequest) (repository.Result[model.FiscalProfile], error) {
	profile := req.toModel()
	profile.ID = s.profileID

	row, err := repository.EncodeRow(profile)
	if err != nil {
		return repository.Result[model.FiscalProfile]{}, err
	}
	echoed, err := s.store.Upsert(ctx, model.TableFiscalProfile, model.ColumnID, row)
	if err != nil {
		return repository.Result[model.FiscalProfile]{}, fmt.Errorf("failed to save fiscal profile: %w", store.Describe(err))
	}

	res := repository.Result[model.FiscalProfile]{Item: profile}
	if len(echoed) > 0 {
		confirmed, err := repository.DecodeRow[model.FiscalProfile](echoed[0])
		if err != nil {
			return repository.Result[model.FiscalProfile]{}, err
		}
		res.Item, res.Confirmed = confirmed, true
	} else {
		res.Warning = repository.EchoGapWarning(model.TableFiscalProfile)
	}
	s.current.Set(&res.Item)
	s.notify.Notify(model.TableFiscalProfile, ActionUpdated, s.profileID)
	return res, nil
}

func (s *fiscalService) Fetch(ctx context.Context) (*model.FiscalProfile, error) {
	row, err := s.store.SelectOne(ctx, model.TableFiscalProfile, store.Eq(model.ColumnID, s.profileID))
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load fiscal profile: %w", store.Describe(err))
	}
	p, err := repository.DecodeRow[model.FiscalProfile](row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *fiscalService) Reset(p *model.FiscalProfile) {
	s.current.Set(p)
}
