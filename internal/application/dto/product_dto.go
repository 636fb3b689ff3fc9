package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	UnitID           string `json:"unit_id" validate:"required,uuid"`
	Code             string `json:"code" validate:"required,min=1,max=50"`
	Name             string `json:"name" validate:"required,min=1,max=200"`
	Category         string `json:"category" validate:"max=100"`
	UnitMeasure      string `json:"unit_measure" validate:"omitempty,oneof=UN KG L CX PC FD M"`
	Description      string `json:"description"`
	ConversionFactor int    `json:"conversion_factor" validate:"min=0"`
	ImageURL         string `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest modificación parcial de producto.
type UpdateProductRequest struct {
	Code             *string `json:"code" validate:"omitempty,min=1,max=50"`
	Name             *string `json:"name" validate:"omitempty,min=1,max=200"`
	Category         *string `json:"category" validate:"omitempty,max=100"`
	UnitMeasure      *string `json:"unit_measure" validate:"omitempty,oneof=UN KG L CX PC FD M"`
	Description      *string `json:"description"`
	ConversionFactor *int    `json:"conversion_factor" validate:"omitempty,min=1"`
	ImageURL         *string `json:"image_url" validate:"omitempty,url"`
}

// ProductFilter filtros de listado.
type ProductFilter struct {
	Search   string `query:"search"`
	UnitID   string `query:"unit_id"`
	Category string `query:"category"`
	PageRequest
}

// StatusResponse estado de vencimiento calculado.
type StatusResponse struct {
	Status        string `json:"status"`
	Label         string `json:"label"`
	Color         string `json:"color"`
	HexColor      string `json:"hex_color"`
	DaysRemaining *int   `json:"days_remaining"`
}

// ProductResponse salida de un producto con su estado.
type ProductResponse struct {
	ID               string               `json:"id"`
	UnitID           string               `json:"unit_id"`
	Unit             *UnitSummaryResponse `json:"unit,omitempty"`
	Code             string               `json:"code"`
	Name             string               `json:"name"`
	Category         string               `json:"category"`
	UnitMeasure      string               `json:"unit_measure"`
	Description      string               `json:"description"`
	ConversionFactor int                  `json:"conversion_factor"`
	ImageURL         string               `json:"image_url"`
	Active           bool                 `json:"active"`
	TotalStock       int                  `json:"total_stock"`
	Status           StatusResponse       `json:"status"`
	NearestLot       *LotSummaryResponse  `json:"nearest_lot"`
	Lots             []LotSummaryResponse `json:"lots,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
