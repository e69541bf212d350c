package service

import (
	"context"
	"fmt"

	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/state"
)

// DTOs
type CropRequest struct {
	ParcelID       string  `json:"parcelaId" binding:"required"`
	Name           string  `json:"nombreCultivo" binding:"required"`
	Variety        string  `json:"variedad"`
	CultivatedArea float64 `json:"superficieCultivada" binding:"gte=0"`
	Notes          string  `json:"notas"`
}

func (r CropRequest) toModel(id string) model.Crop {
	return model.Crop{
		ID:             id,
		ParcelID:       r.ParcelID,
		Name:           r.Name,
		Variety:        r.Variety,
		CultivatedArea: r.CultivatedArea,
		Notes:          r.Notes,
	}
}

type CropService interface {
	List(parcelID string) []model.Crop
	Create(ctx context.Context, req CropRequest) (repository.Result[model.Crop], error)
	Update(ctx context.Context, id string, req CropRequest) (repository.Result[model.Crop], error)
}

type cropService struct {
	repo    repository.Repository[model.Crop]
	crops   *state.Collection[model.Crop]
	parcels *state.Collection[model.Parcel]
	notify  Notifier
}

func NewCropService(repo repository.Repository[model.Crop], st *state.State, notify Notifier) CropService {
	return &cropService{repo: repo, crops: st.Crops, parcels: st.Parcels, notify: notifierOrNop(notify)}
}

// List returns every crop, or only those of parcelID when it is set.
func (s *cropService) List(parcelID string) []model.Crop {
	all := s.crops.All()
	if parcelID == "" {
		return all
	}
	out := make([]model.Crop, 0, len(all))
	for _, c := range all {
		if c.ParcelID == parcelID {
			out = append(out, c)
		}
	}
	return out
}

func (s *cropService) Create(ctx context.Context, req CropRequest) (repository.Result[model.Crop], error) {
	if err := s.validate(req); err != nil {
		return repository.Result[model.Crop]{}, err
	}
	res, err := s.repo.Add(ctx, req.toModel(""))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableCrops, ActionCreated, res.Item.ID)
	return res, nil
}

func (s *cropService) Update(ctx context.Context, id string, req CropRequest) (repository.Result[model.Crop], error) {
	if _, ok := s.crops.Get(id); !ok {
		return repository.Result[model.Crop]{}, fmt.Errorf("crop %s: %w", id, ErrNotFound)
	}
	if err := s.validate(req); err != nil {
		return repository.Result[model.Crop]{}, err
	}
	res, err := s.repo.Update(ctx, req.toModel(id))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableCrops, ActionUpdated, id)
	return res, nil
}

func (s *cropService) validate(req CropRequest) error {
	if req.CultivatedArea < 0 {
		return fmt.Errorf("%w: superficieCultivada must not be negative", ErrInvalidInput)
	}
	if _, ok := s.parcels.Get(req.ParcelID); !ok {
		return fmt.Errorf("crop references parcel %q: %w", req.ParcelID, ErrParcelNotFound)
	}
	return nil
}
