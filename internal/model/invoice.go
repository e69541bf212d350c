package model

import "github.com/shopspring/decimal"

// InvoiceType enum constants
const (
	InvoiceTypeIssued   = "emitida"  // sales invoice
	InvoiceTypeReceived = "recibida" // purchase invoice
)

// DefaultVATRate is the rate proposed for new invoices.
var DefaultVATRate = decimal.NewFromInt(21)

var hundred = decimal.NewFromInt(100)

// Invoice is an issued or received invoice. Total is derived from TaxableBase
// and VATRate and is recomputed on every save.
type Invoice struct {
	ID                  string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Number              string          `gorm:"column:numero_factura;type:varchar(50);not null" json:"numeroFactura"`
	Date                Date            `gorm:"column:fecha;type:date;not null" json:"fecha"`
	Type                string          `gorm:"column:tipo;type:varchar(10);not null" json:"tipo"`
	Counterparty        string          `gorm:"column:cliente_proveedor;type:text;not null" json:"clienteProveedor"`
	CounterpartyTaxID   string          `gorm:"column:cliente_proveedor_nif;type:varchar(30)" json:"clienteProveedorNif"`
	CounterpartyAddress string          `gorm:"column:cliente_proveedor_direccion;type:text" json:"clienteProveedorDireccion"`
	Description         string          `gorm:"column:descripcion;type:text" json:"descripcion"`
	TaxableBase         decimal.Decimal `gorm:"column:base_imponible;type:decimal(14,2);not null" json:"baseImponible"`
	VATRate             decimal.Decimal `gorm:"column:iva_porcentaje;type:decimal(6,2);not null" json:"ivaPorcentaje"`
	Total               decimal.Decimal `gorm:"column:total_factura;type:decimal(14,2);not null" json:"totalFactura"`
	Paid                bool            `gorm:"column:pagada;not null;default:false" json:"pagada"`
	Notes               string          `gorm:"column:notas;type:text" json:"notas"`
}

func (Invoice) TableName() string { return TableInvoices }

func (f Invoice) EntityID() string { return f.ID }

// InvoiceTotal returns base + base*rate/100.
func InvoiceTotal(base, rate decimal.Decimal) decimal.Decimal {
	return base.Add(base.Mul(rate).Div(hundred))
}

// RecomputeTotal refreshes Total from TaxableBase and VATRate, rounded to
// cents like the total_factura column.
func (f *Invoice) RecomputeTotal() {
	f.Total = InvoiceTotal(f.TaxableBase, f.VATRate).Round(2)
}

// VATAmount is the tax quota, Total minus TaxableBase.
func (f Invoice) VATAmount() decimal.Decimal {
	return f.Total.Sub(f.TaxableBase)
}
