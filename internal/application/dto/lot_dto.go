package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest alta de lote. Fechas en formato YYYY-MM-DD.
type CreateLotRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	LotNumber       string           `json:"lot_number" validate:"required,max=50"`
	ExpirationDate  string           `json:"expiration_date" validate:"required,datetime=2006-01-02"`
	ManufactureDate string           `json:"manufacture_date" validate:"omitempty,datetime=2006-01-02"`
	Quantity        int              `json:"quantity" validate:"min=0"`
	Location        string           `json:"location" validate:"max=100"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	Supplier        string           `json:"supplier" validate:"max=200"`
}

// UpdateLotRequest modificación parcial de lote.
type UpdateLotRequest struct {
	LotNumber       *string          `json:"lot_number" validate:"omitempty,min=1,max=50"`
	ExpirationDate  *string          `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	ManufactureDate *string          `json:"manufacture_date" validate:"omitempty,datetime=2006-01-02"`
	Quantity        *int             `json:"quantity" validate:"omitempty,min=0"`
	Location        *string          `json:"location" validate:"omitempty,max=100"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	Supplier        *string          `json:"supplier" validate:"omitempty,max=200"`
	Active          *bool            `json:"active"`
}

// LotFilter filtros de listado de lotes.
type LotFilter struct {
	ProductID string `query:"product_id"`
	Expired   bool   `query:"expired"`
	WithStock bool   `query:"with_stock"`
	PageRequest
}

// LotSummaryResponse lote resumido (FEFO).
type LotSummaryResponse struct {
	ID             string     `json:"id"`
	LotNumber      string     `json:"lot_number"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Quantity       int        `json:"quantity"`
	DaysRemaining  *int       `json:"days_remaining"`
	Location       string     `json:"location,omitempty"`
}

// LotResponse salida completa de lote.
type LotResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	LotNumber       string           `json:"lot_number"`
	ExpirationDate  *time.Time       `json:"expiration_date"`
	ManufactureDate *time.Time       `json:"manufacture_date"`
	Quantity        int              `json:"quantity"`
	StockDisplay    string           `json:"stock_display"`
	Location        string           `json:"location"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	Supplier        string           `json:"supplier"`
	Active          bool             `json:"active"`
	DaysRemaining   *int             `json:"days_remaining"`
	Expired         bool             `json:"expired"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
