package service

import (
	"context"
	"fmt"

	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/state"
	"cuaderno/internal/store"
)

// CascadeService deletes parcels and crops together with everything that
// references them. By default the remote steps run one statement at a time
// and a failing step leaves earlier deletions in place. With atomic set and a
// store that supports transactions, the remote steps commit or roll back
// together.
type CascadeService interface {
	DeleteParcel(ctx context.Context, id string, confirmed bool) error
	DeleteCrop(ctx context.Context, id string, confirmed bool) error
}

type cascadeService struct {
	store   store.TableStore
	state   *state.State
	parcels repository.Repository[model.Parcel]
	crops   repository.Repository[model.Crop]
	atomic  bool
	notify  Notifier
}

func NewCascadeService(
	s store.TableStore,
	st *state.State,
	parcels repository.Repository[model.Parcel],
	crops repository.Repository[model.Crop],
	atomic bool,
	notify Notifier,
) CascadeService {
	return &cascadeService{
		store:   s,
		state:   st,
		parcels: parcels,
		crops:   crops,
		atomic:  atomic,
		notify:  notifierOrNop(notify),
	}
}

func (s *cascadeService) DeleteParcel(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if _, ok := s.state.Parcels.Get(id); !ok {
		return fmt.Errorf("parcel %s: %w", id, ErrNotFound)
	}

	var remoteCrops []string
	dependents := func(ctx context.Context) error {
		rows, err := s.store.Select(ctx, model.TableCrops, []string{model.ColumnID}, store.Eq(model.ColumnParcelID, id))
		if err != nil {
			return fmt.Errorf("failed to list crops of parcel: %w", store.Describe(err))
		}
		remoteCrops = rowIDs(rows)

		if len(remoteCrops) > 0 {
			if err := s.store.Delete(ctx, model.TableTasks, store.In(model.ColumnCropID, remoteCrops)); err != nil {
				return fmt.Errorf("failed to delete tasks of the parcel's crops: %w", store.Describe(err))
			}
		}
		if err := s.store.Delete(ctx, model.TableTasks, store.Eq(model.ColumnParcelID, id)); err != nil {
			return fmt.Errorf("failed to delete tasks of parcel: %w", store.Describe(err))
		}
		if err := s.store.Delete(ctx, model.TableCrops, store.Eq(model.ColumnParcelID, id)); err != nil {
			return fmt.Errorf("failed to delete crops of parcel: %w", store.Describe(err))
		}
		return nil
	}

	if tx, ok := s.transactor(); ok {
		err := tx.RunInTx(ctx, func(txCtx context.Context) error {
			if err := dependents(txCtx); err != nil {
				return err
			}
			if err := s.store.Delete(txCtx, model.TableParcels, store.Eq(model.ColumnID, id)); err != nil {
				return fmt.Errorf("failed to delete parcel: %w", store.Describe(err))
			}
			return nil
		})
		if err != nil {
			return err
		}
		s.state.Parcels.Remove(id)
	} else {
		if err := dependents(ctx); err != nil {
			return err
		}
		if err := s.parcels.Delete(ctx, id); err != nil {
			return err
		}
	}

	cropIDs := make(map[string]bool, len(remoteCrops))
	for _, c := range remoteCrops {
		cropIDs[c] = true
	}
	for _, c := range s.state.Crops.All() {
		if c.ParcelID == id {
			cropIDs[c.ID] = true
		}
	}
	s.state.Tasks.RemoveWhere(func(t model.Task) bool { return t.References(id, cropIDs) })
	s.state.Crops.RemoveWhere(func(c model.Crop) bool { return cropIDs[c.ID] })

	s.notify.Notify(model.TableParcels, ActionDeleted, id)
	return nil
}

func (s *cascadeService) DeleteCrop(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if _, ok := s.state.Crops.Get(id); !ok {
		return fmt.Errorf("crop %s: %w", id, ErrNotFound)
	}

	deleteTasks := func(ctx context.Context) error {
		if err := s.store.Delete(ctx, model.TableTasks, store.Eq(model.ColumnCropID, id)); err != nil {
			return fmt.Errorf("failed to delete tasks of crop: %w", store.Describe(err))
		}
		return nil
	}

	if tx, ok := s.transactor(); ok {
		err := tx.RunInTx(ctx, func(txCtx context.Context) error {
			if err := deleteTasks(txCtx); err != nil {
				return err
			}
			if err := s.store.Delete(txCtx, model.TableCrops, store.Eq(model.ColumnID, id)); err != nil {
				return fmt.Errorf("failed to delete crop: %w", store.Describe(err))
			}
			return nil
		})
		if err != nil {
			return err
		}
		s.state.Crops.Remove(id)
	} else {
		if err := deleteTasks(ctx); err != nil {
			return err
		}
		if err := s.crops.Delete(ctx, id); err != nil {
			return err
		}
	}

	s.state.Tasks.RemoveWhere(func(t model.Task) bool { return t.CropID != nil && *t.CropID == id })

	s.notify.Notify(model.TableCrops, ActionDeleted, id)
	return nil
}

func (s *cascadeService) transactor() (store.Transactor, bool) {
	if !s.atomic {
		return nil, false
	}
	tx, ok := s.store.(store.Transactor)
	return tx, ok
}

func rowIDs(rows []store.Row) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if v, ok := r[model.ColumnID]; ok && v != nil {
			ids = append(ids, fmt.Sprint(v))
		}
	}
	return ids
}
