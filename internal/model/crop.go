package model

// Crop is grown on exactly one Parcel.
type Crop struct {
	ID             string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ParcelID       string  `gorm:"column:parcela_id;type:uuid;not null;index" json:"parcelaId"`
	Name           string  `gorm:"column:nombre_cultivo;type:text;not null" json:"nombreCultivo"`
	Variety        string  `gorm:"column:variedad;type:text" json:"variedad"`
	CultivatedArea float64 `gorm:"column:superficie_cultivada;not null;default:0" json:"superficieCultivada"` // hectares
	Notes          string  `gorm:"column:notas;type:text" json:"notas"`
}

func (Crop) TableName() string { return TableCrops }

func (c Crop) EntityID() string { return c.ID }
