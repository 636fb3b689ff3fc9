package entity

import (
	"encoding/json"
	"time"
)

// Tipos de consulta auditados.
const (
	QueryTypeValidity    = "VALIDITY"
	QueryTypeCriticality = "CRITICALITY"
	QueryTypeStock       = "STOCK"
)

// QueryLog auditoría de consultas de lectura. Inmutable después de creado.
type QueryLog struct {
	ID        string
	UserID    *string
	QueryType string
	Params    json.RawMessage
	IPAddress string
	CreatedAt time.Time
}
