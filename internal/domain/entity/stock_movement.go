package entity

import "time"

// Tipos de movimiento.
const (
	MovementTypeIN         = "IN"
	MovementTypeOUT        = "OUT"
	MovementTypeTRANSFER   = "TRANSFER"
	MovementTypeADJUSTMENT = "ADJUSTMENT"
)

// Estados de movimiento.
const (
	MovementStatusInTransit = "IN_TRANSIT"
	MovementStatusReceived  = "RECEIVED"
	MovementStatusCancelled = "CANCELLED"
)

// StockMovement registra mercadería en tránsito, recibida o cancelada entre unidades.
type StockMovement struct {
	ID                string
	ProductID         string
	LotID             *string
	Type              string
	Status            string
	Quantity          int
	OriginUnitID      *string
	DestinationUnitID *string
	ExpectedDate      *time.Time
	EffectiveDate     *time.Time
	Notes             string
	UserID            *string
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Campos de lectura (join).
	ProductCode string
	ProductName string
	LotNumber   string
}
