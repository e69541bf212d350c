package model

// Table names in the remote store.
const (
	TableParcels          = "parcelas"
	TableCrops            = "cultivos"
	TableFinancialRecords = "registros_financieros"
	TableInvoices         = "facturas"
	TableTasks            = "trabajos"
	TableFiscalProfile    = "datos_fiscales"
)

// Column names used by the cascade and wipe queries.
const (
	ColumnID       = "id"
	ColumnParcelID = "parcela_id"
	ColumnCropID   = "cultivo_id"
)

// Entity is implemented by every record kept in a local collection.
type Entity interface {
	EntityID() string
}

// Kind describes how one entity type is stored: its display name, its table
// and the column that holds its identifier.
type Kind struct {
	Name  string
	Table string
	Key   string
}

var (
	KindParcel          = Kind{Name: "parcela", Table: TableParcels, Key: ColumnID}
	KindCrop            = Kind{Name: "cultivo", Table: TableCrops, Key: ColumnID}
	KindFinancialRecord = Kind{Name: "registro financiero", Table: TableFinancialRecords, Key: ColumnID}
	KindInvoice         = Kind{Name: "factura", Table: TableInvoices, Key: ColumnID}
	KindTask            = Kind{Name: "trabajo", Table: TableTasks, Key: ColumnID}
	KindFiscalProfile   = Kind{Name: "datos fiscales", Table: TableFiscalProfile, Key: ColumnID}
)

// WipeOrder lists the tables in the order a full wipe must delete them:
// dependents first, the fiscal singleton last.
var WipeOrder = []string{
	TableTasks,
	TableInvoices,
	TableFinancialRecords,
	TableCrops,
	TableParcels,
	TableFiscalProfile,
}
