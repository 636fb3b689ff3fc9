package dto

import "github.com/shopspring/decimal"

// StockFilter filtros de consulta de stock.
type StockFilter struct {
	Search   string `query:"search"`
	UnitID   string `query:"unit_id"`
	Category string `query:"category"`
	PageRequest
}

// StockItemResponse stock de un producto: lotes más entradas en tránsito.
type StockItemResponse struct {
	ProductID   string               `json:"product_id"`
	Code        string               `json:"code"`
	Name        string               `json:"name"`
	Unit        *UnitSummaryResponse `json:"unit,omitempty"`
	UnitMeasure string               `json:"unit_measure"`
	Category    string               `json:"category"`
	InStock     int                  `json:"in_stock"`
	InTransit   int                  `json:"in_transit"`
	Total       int                  `json:"total"`
	StockValue  decimal.Decimal      `json:"stock_value"`
	AverageCost decimal.Decimal      `json:"average_cost"`
}

// StockListResponse lista de stock.
type StockListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// StockSummaryResponse totales de stock.
type StockSummaryResponse struct {
	TotalProducts  int             `json:"total_products"`
	TotalInStock   int             `json:"total_in_stock"`
	TotalInTransit int             `json:"total_in_transit"`
	GrandTotal     int             `json:"grand_total"`
	OutOfStock     int             `json:"out_of_stock"`
	StockValue     decimal.Decimal `json:"stock_value"`
}
