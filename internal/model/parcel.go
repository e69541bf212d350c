package model

// Parcel is a plot of land. Crops and tasks may reference it.
type Parcel struct {
	ID                 string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name               string  `gorm:"column:nombre;type:text;not null" json:"nombre"`
	Location           string  `gorm:"column:ubicacion;type:text" json:"ubicacion"`
	Area               float64 `gorm:"column:superficie;not null;default:0" json:"superficie"` // hectares
	CadastralReference string  `gorm:"column:referencia_catastral;type:text" json:"referenciaCatastral"`
	Coordinates        string  `gorm:"column:coordenadas;type:text" json:"coordenadas"` // "lat,lng"
	Notes              string  `gorm:"column:notas;type:text" json:"notas"`
}

func (Parcel) TableName() string { return TableParcels }

func (p Parcel) EntityID() string { return p.ID }
