package model

// ExpenseCategories are the categories offered for expense records.
var ExpenseCategories = []string{
	"Semillas y Plantones",
	"Fertilizantes y Abonos",
	"Fitosanitarios",
	"Combustible y Energía",
	"Maquinaria (Alquiler/Reparación)",
	"Mano de Obra",
	"Riego",
	"Administrativos",
	"Impuestos y Tasas",
	"Otros Gastos",
}

// IncomeCategories are the categories offered for income records.
var IncomeCategories = []string{
	"Venta de Cosecha",
	"Subvenciones",
	"Alquiler de Maquinaria",
	"Servicios Agrícolas",
	"Otros Ingresos",
}

// AllModels lists the persisted models for schema bootstrap.
func AllModels() []any {
	return []any{
		&Parcel{},
		&Crop{},
		&FinancialRecord{},
		&Invoice{},
		&Task{},
		&FiscalProfile{},
	}
}
