package service

import (
	"context"
	"sync/atomic"

	"cuaderno/internal/model"
	"cuaderno/internal/store"
)

// Connection messages shown to the user.
const (
	MsgConnectionOK     = "¡Conexión exitosa con la base de datos!"
	msgConnectionFailed = "Error de conexión: "
)

type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

// HealthService checks the table store and remembers the last known
// connection state.
type HealthService interface {
	Check(ctx context.Context) ConnectionStatus
	Connected() bool
	SetConnected(ok bool)
}

type healthService struct {
	store     store.TableStore
	connected atomic.Bool
}

func NewHealthService(s store.TableStore) HealthService {
	return &healthService{store: s}
}

// Check runs a count-only query on the parcels table; no rows are fetched.
func (s *healthService) Check(ctx context.Context) ConnectionStatus {
	if _, err := s.store.Count(ctx, model.TableParcels); err != nil {
		s.connected.Store(false)
		return ConnectionStatus{Connected: false, Message: msgConnectionFailed + err.Error()}
	}
	s.connected.Store(true)
	return ConnectionStatus{Connected: true, Message: MsgConnectionOK}
}

func (s *healthService) Connected() bool {
	return s.connected.Load()
}

func (s *healthService) SetConnected(ok bool) {
	s.connected.Store(ok)
}
