package dto

import "time"

// CriticalityItem producto bloqueado o en pre-bloqueo.
type CriticalityItem struct {
	ProductID      string         `json:"product_id"`
	Code           string         `json:"code"`
	Name           string         `json:"name"`
	UnitCode       string         `json:"unit_code"`
	Category       string         `json:"category"`
	Status         StatusResponse `json:"status"`
	LotNumber      string         `json:"lot_number"`
	ExpirationDate *time.Time     `json:"expiration_date"`
	Quantity       int            `json:"quantity"`
	TotalStock     int            `json:"total_stock"`
}

// CriticalitySummary totales del reporte.
type CriticalitySummary struct {
	TotalBlocked  int `json:"total_blocked"`
	TotalPreBlock int `json:"total_pre_block"`
}

// CriticalityReportResponse reporte separado en bloqueados (vencidos + críticos) y pre-bloqueo.
type CriticalityReportResponse struct {
	Unit        *UnitSummaryResponse `json:"unit"`
	Thresholds  ThresholdsResponse   `json:"config"`
	Summary     CriticalitySummary   `json:"summary"`
	Blocked     []CriticalityItem    `json:"blocked"`
	PreBlock    []CriticalityItem    `json:"pre_block"`
	GeneratedAt time.Time            `json:"generated_at"`
}
