package entity

import "time"

// AlertConfig umbrales de días para el estado de vencimiento.
// UnitID nil = configuración global.
type AlertConfig struct {
	ID           string
	UnitID       *string
	CriticalDays int
	PreBlockDays int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsGlobal indica si la configuración no está atada a una unidad.
func (c *AlertConfig) IsGlobal() bool {
	return c.UnitID == nil
}
