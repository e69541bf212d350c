package model

// TaskStatus enum constants
const (
	TaskStatusPending    = "pendiente"
	TaskStatusInProgress = "en_progreso"
	TaskStatusDone       = "completado"
)

// Task is a scheduled farm job, optionally tied to a parcel and/or a crop.
// The crop's parcel is not required to match ParcelID.
type Task struct {
	ID            string   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ParcelID      *string  `gorm:"column:parcela_id;type:uuid;index" json:"parcelaId"`
	CropID        *string  `gorm:"column:cultivo_id;type:uuid;index" json:"cultivoId"`
	ScheduledDate Date     `gorm:"column:fecha_programada;type:date;not null" json:"fechaProgramada"`
	CompletedDate *Date    `gorm:"column:fecha_realizacion;type:date" json:"fechaRealizacion"`
	Description   string   `gorm:"column:descripcion_tarea;type:text;not null" json:"descripcionTarea"`
	Responsible   string   `gorm:"column:responsable;type:text" json:"responsable"`
	Status        string   `gorm:"column:estado;type:varchar(20);not null;default:'pendiente'" json:"estado"`
	MaterialsCost *float64 `gorm:"column:coste_materiales" json:"costeMateriales"`
	LaborHours    *float64 `gorm:"column:horas_trabajo" json:"horasTrabajo"`
	Notes         string   `gorm:"column:notas;type:text" json:"notas"`
}

func (Task) TableName() string { return TableTasks }

func (t Task) EntityID() string { return t.ID }

// References reports whether the task points at the parcel or at any of the crops.
func (t Task) References(parcelID string, cropIDs map[string]bool) bool {
	if t.ParcelID != nil && *t.ParcelID == parcelID {
		return true
	}
	return t.CropID != nil && cropIDs[*t.CropID]
}
