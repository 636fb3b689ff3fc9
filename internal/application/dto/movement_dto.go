package dto

import "time"

// CreateMovementRequest registro de movimiento. Fechas YYYY-MM-DD.
type CreateMovementRequest struct {
	ProductID         string `json:"product_id" validate:"required,uuid"`
	LotID             string `json:"lot_id" validate:"omitempty,uuid"`
	Type              string `json:"type" validate:"required,oneof=IN OUT TRANSFER ADJUSTMENT"`
	Status            string `json:"status" validate:"omitempty,oneof=IN_TRANSIT RECEIVED CANCELLED"`
	Quantity          int    `json:"quantity" validate:"required,min=1"`
	OriginUnitID      string `json:"origin_unit_id" validate:"omitempty,uuid"`
	DestinationUnitID string `json:"destination_unit_id" validate:"omitempty,uuid"`
	ExpectedDate      string `json:"expected_date" validate:"omitempty,datetime=2006-01-02"`
	Notes             string `json:"notes"`
}

// UpdateMovementStatusRequest cambio de estado.
type UpdateMovementStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=IN_TRANSIT RECEIVED CANCELLED"`
	EffectiveDate string `json:"effective_date" validate:"omitempty,datetime=2006-01-02"`
}

// MovementFilter filtros de listado.
type MovementFilter struct {
	ProductID string `query:"product_id"`
	Type      string `query:"type"`
	Status    string `query:"status"`
	PageRequest
}

// MovementResponse salida de movimiento.
type MovementResponse struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"product_id"`
	ProductCode       string     `json:"product_code"`
	ProductName       string     `json:"product_name"`
	LotID             *string    `json:"lot_id"`
	LotNumber         string     `json:"lot_number,omitempty"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	Quantity          int        `json:"quantity"`
	OriginUnitID      *string    `json:"origin_unit_id"`
	DestinationUnitID *string    `json:"destination_unit_id"`
	ExpectedDate      *time.Time `json:"expected_date"`
	EffectiveDate     *time.Time `json:"effective_date"`
	Notes             string     `json:"notes"`
	UserID            *string    `json:"user_id"`
	CreatedAt         time.Time  `json:"created_at"`
}
