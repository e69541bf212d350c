package model

import "github.com/shopspring/decimal"

// DashboardStats summarizes the current state of the farm.
type DashboardStats struct {
	ParcelCount          int             `json:"parcelasTotales"`
	TotalArea            float64         `json:"superficieTotal"`
	CropCount            int             `json:"cultivosActivos"`
	CultivatedArea       float64         `json:"superficieCultivada"`
	TotalIncome          decimal.Decimal `json:"ingresosTotales"`
	TotalExpense         decimal.Decimal `json:"gastosTotales"`
	Balance              decimal.Decimal `json:"balance"`
	PendingTasks         int             `json:"trabajosPendientes"`
	UnpaidInvoices       int             `json:"facturasPendientesPago"`
	ExpenseCategories    []string        `json:"categoriasGasto"`
	IncomeCategories     []string        `json:"categoriasIngreso"`
	DatabaseConnected    bool            `json:"conexionBaseDatos"`
	FiscalProfileMissing bool            `json:"faltanDatosFiscales"`
}
