package service

import (
	"math"

	"github.com/shopspring/decimal"

	"cuaderno/internal/model"
	"cuaderno/internal/state"
)

type DashboardService interface {
	GetStats() model.DashboardStats
}

type dashboardService struct {
	state  *state.State
	health HealthService
}

func NewDashboardService(st *state.State, health HealthService) DashboardService {
	return &dashboardService{state: st, health: health}
}

// GetStats aggregates the local collections. Surfaces are rounded to three
// decimals and money to two.
func (s *dashboardService) GetStats() model.DashboardStats {
	parcels := s.state.Parcels.All()
	crops := s.state.Crops.All()

	stats := model.DashboardStats{
		ParcelCount:          len(parcels),
		CropCount:            len(crops),
		TotalIncome:          decimal.Zero,
		TotalExpense:         decimal.Zero,
		ExpenseCategories:    model.ExpenseCategories,
		IncomeCategories:     model.IncomeCategories,
		FiscalProfileMissing: s.state.Fiscal.Get() == nil,
	}
	if s.health != nil {
		stats.DatabaseConnected = s.health.Connected()
	}

	for _, p := range parcels {
		stats.TotalArea += p.Area
	}
	for _, c := range crops {
		stats.CultivatedArea += c.CultivatedArea
	}
	stats.TotalArea = roundTo(stats.TotalArea, 3)
	stats.CultivatedArea = roundTo(stats.CultivatedArea, 3)

	for _, r := range s.state.Records.All() {
		switch r.Type {
		case model.RecordTypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(r.Amount)
		case model.RecordTypeExpense:
			stats.TotalExpense = stats.TotalExpense.Add(r.Amount)
		}
	}
	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpense).Round(2)
	stats.TotalIncome = stats.TotalIncome.Round(2)
	stats.TotalExpense = stats.TotalExpense.Round(2)

	for _, t := range s.state.Tasks.All() {
		if t.Status == model.TaskStatusPending {
			stats.PendingTasks++
		}
	}
	for _, f := range s.state.Invoices.All() {
		if !f.Paid {
			stats.UnpaidInvoices++
		}
	}
	return stats
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
