package service

import (
	"context"
	"fmt"

	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/state"
)

// DTOs
type ParcelRequest struct {
	Name               string  `json:"nombre" binding:"required"`
	Location           string  `json:"ubicacion"`
	Area               float64 `json:"superficie" binding:"gte=0"`
	CadastralReference string  `json:"referenciaCatastral"`
	Coordinates        string  `json:"coordenadas"`
	Notes              string  `json:"notas"`
}

func (r ParcelRequest) toModel(id string) model.Parcel {
	return model.Parcel{
		ID:                 id,
		Name:               r.Name,
		Location:           r.Location,
		Area:               r.Area,
		CadastralReference: r.CadastralReference,
		Coordinates:        r.Coordinates,
		Notes:              r.Notes,
	}
}

type ParcelService interface {
	List() []model.Parcel
	Create(ctx context.Context, req ParcelRequest) (repository.Result[model.Parcel], error)
	Update(ctx context.Context, id string, req ParcelRequest) (repository.Result[model.Parcel], error)
}

type parcelService struct {
	repo   repository.Repository[model.Parcel]
	items  *state.Collection[model.Parcel]
	notify Notifier
}

func NewParcelService(repo repository.Repository[model.Parcel], items *state.Collection[model.Parcel], notify Notifier) ParcelService {
	return &parcelService{repo: repo, items: items, notify: notifierOrNop(notify)}
}

func (s *parcelService) List() []model.Parcel {
	return s.items.All()
}

func (s *parcelService) Create(ctx context.Context, req ParcelRequest) (repository.Result[model.Parcel], error) {
	if req.Area < 0 {
		return repository.Result[model.Parcel]{}, fmt.Errorf("%w: superficie must not be negative", ErrInvalidInput)
	}
	res, err := s.repo.Add(ctx, req.toModel(""))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableParcels, ActionCreated, res.Item.ID)
	return res, nil
}

func (s *parcelService) Update(ctx context.Context, id string, req ParcelRequest) (repository.Result[model.Parcel], error) {
	if _, ok := s.items.Get(id); !ok {
		return repository.Result[model.Parcel]{}, fmt.Errorf("parcel %s: %w", id, ErrNotFound)
	}
	if req.Area < 0 {
		return repository.Result[model.Parcel]{}, fmt.Errorf("%w: superficie must not be negative", ErrInvalidInput)
	}
	res, err := s.repo.Update(ctx, req.toModel(id))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableParcels, ActionUpdated, id)
	return res, nil
}
