package dto

import (
	"encoding/json"
	"time"
)

// QueryLogFilter filtros de listado de auditoría.
type QueryLogFilter struct {
	QueryType string `query:"query_type" validate:"omitempty,oneof=VALIDITY CRITICALITY STOCK"`
	PageRequest
}

// QueryLogResponse registro de auditoría.
type QueryLogResponse struct {
	ID        string          `json:"id"`
	UserID    *string         `json:"user_id"`
	QueryType string          `json:"query_type"`
	Params    json.RawMessage `json:"params"`
	IPAddress string          `json:"ip_address"`
	CreatedAt time.Time       `json:"created_at"`
}
