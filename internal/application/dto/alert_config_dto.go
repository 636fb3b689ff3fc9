package dto

import "time"

// AlertConfigRequest alta o reemplazo de configuración. UnitID vacío = global.
type AlertConfigRequest struct {
	UnitID       string `json:"unit_id" validate:"omitempty,uuid"`
	CriticalDays int    `json:"critical_days" validate:"required,min=1"`
	PreBlockDays int    `json:"pre_block_days" validate:"required,min=1"`
	Active       *bool  `json:"active"`
}

// AlertConfigResponse salida de configuración.
type AlertConfigResponse struct {
	ID           string    `json:"id"`
	UnitID       *string   `json:"unit_id"`
	Global       bool      `json:"global"`
	CriticalDays int       `json:"critical_days"`
	PreBlockDays int       `json:"pre_block_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ThresholdsResponse umbrales efectivos.
type ThresholdsResponse struct {
	CriticalDays int `json:"critical_days"`
	PreBlockDays int `json:"pre_block_days"`
}
