package model

// FiscalProfile holds the user's own legal and contact data. Exactly one row
// exists, stored under a fixed identifier.
type FiscalProfile struct {
	ID         string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LegalName  string  `gorm:"column:nombre_o_razon_social;type:text;not null" json:"nombreORazonSocial"`
	TaxID      string  `gorm:"column:nif_cif;type:varchar(30);not null" json:"nifCif"`
	Address    string  `gorm:"column:direccion;type:text" json:"direccion"`
	PostalCode string  `gorm:"column:codigo_postal;type:varchar(10)" json:"codigoPostal"`
	Locality   string  `gorm:"column:localidad;type:text" json:"localidad"`
	Province   string  `gorm:"column:provincia;type:text" json:"provincia"`
	Country    string  `gorm:"column:pais;type:text" json:"pais"`
	Email      *string `gorm:"column:email;type:text" json:"email"`
	Phone      *string `gorm:"column:telefono;type:varchar(30)" json:"telefono"`
}

func (FiscalProfile) TableName() string { return TableFiscalProfile }

func (p FiscalProfile) EntityID() string { return p.ID }
