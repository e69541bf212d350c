package model

import "github.com/shopspring/decimal"

// FinancialRecordType enum constants
const (
	RecordTypeIncome  = "ingreso"
	RecordTypeExpense = "gasto"
)

// FinancialRecord is a single income or expense entry.
type FinancialRecord struct {
	ID       string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Type     string          `gorm:"column:tipo;type:varchar(10);not null" json:"tipo"`
	Date     Date            `gorm:"column:fecha;type:date;not null" json:"fecha"`
	Concept  string          `gorm:"column:concepto;type:text;not null" json:"concepto"`
	Amount   decimal.Decimal `gorm:"column:cantidad;type:decimal(14,2);not null" json:"cantidad"`
	Category string          `gorm:"column:categoria;type:text" json:"categoria"`
	Notes    string          `gorm:"column:notas;type:text" json:"notas"`
}

func (FinancialRecord) TableName() string { return TableFinancialRecords }

func (r FinancialRecord) EntityID() string { return r.ID }
