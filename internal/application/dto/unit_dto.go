package dto

import "time"

// CreateUnitRequest alta de unidad de negocio.
type CreateUnitRequest struct {
	Code    string `json:"code" validate:"required,max=20"`
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address"`
}

// UpdateUnitRequest modificación parcial de unidad.
type UpdateUnitRequest struct {
	Code    *string `json:"code" validate:"omitempty,min=1,max=20"`
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

// UnitResponse salida de unidad.
type UnitResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitSummaryResponse versión resumida para selectores.
type UnitSummaryResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
