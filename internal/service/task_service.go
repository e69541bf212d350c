package service

import (
	"context"
	"fmt"

	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/state"
)

// DTOs
type TaskRequest struct {
	ParcelID      string     `json:"parcelaId"`
	CropID        string     `json:"cultivoId"`
	ScheduledDate model.Date `json:"fechaProgramada" binding:"required"`
	CompletedDate model.Date `json:"fechaRealizacion"`
	Description   string     `json:"descripcionTarea" binding:"required"`
	Responsible   string     `json:"responsable"`
	Status        string     `json:"estado" binding:"omitempty,oneof=pendiente en_progreso completado"`
	MaterialsCost *float64   `json:"costeMateriales" binding:"omitempty,gte=0"`
	LaborHours    *float64   `json:"horasTrabajo" binding:"omitempty,gte=0"`
	Notes         string     `json:"notas"`
}

// toModel maps empty optional references and dates to null.
func (r TaskRequest) toModel(id string) model.Task {
	t := model.Task{
		ID:            id,
		ParcelID:      optional(r.ParcelID),
		CropID:        optional(r.CropID),
		ScheduledDate: r.ScheduledDate,
		Description:   r.Description,
		Responsible:   r.Responsible,
		Status:        r.Status,
		MaterialsCost: r.MaterialsCost,
		LaborHours:    r.LaborHours,
		Notes:         r.Notes,
	}
	if t.Status == "" {
		t.Status = model.TaskStatusPending
	}
	if r.CompletedDate != "" {
		d := r.CompletedDate
		t.CompletedDate = &d
	}
	return t
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type TaskService interface {
	List(status string) []model.Task
	Create(ctx context.Context, req TaskRequest) (repository.Result[model.Task], error)
	Update(ctx context.Context, id string, req TaskRequest) (repository.Result[model.Task], error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	repo   repository.Repository[model.Task]
	items  *state.Collection[model.Task]
	notify Notifier
}

func NewTaskService(repo repository.Repository[model.Task], items *state.Collection[model.Task], notify Notifier) TaskService {
	return &taskService{repo: repo, items: items, notify: notifierOrNop(notify)}
}

// List returns every task, or only those in status when it is set.
func (s *taskService) List(status string) []model.Task {
	all := s.items.All()
	if status == "" {
		return all
	}
	out := make([]model.Task, 0, len(all))
	for _, t := range all {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (s *taskService) Create(ctx context.Context, req TaskRequest) (repository.Result[model.Task], error) {
	res, err := s.repo.Add(ctx, req.toModel(""))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableTasks, ActionCreated, res.Item.ID)
	return res, nil
}

func (s *taskService) Update(ctx context.Context, id string, req TaskRequest) (repository.Result[model.Task], error) {
	if _, ok := s.items.Get(id); !ok {
		return repository.Result[model.Task]{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	res, err := s.repo.Update(ctx, req.toModel(id))
	if err != nil {
		return res, err
	}
	s.notify.Notify(model.TableTasks, ActionUpdated, id)
	return res, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if _, ok := s.items.Get(id); !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.Notify(model.TableTasks, ActionDeleted, id)
	return nil
}
