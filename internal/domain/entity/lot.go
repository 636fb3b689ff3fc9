package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseLotNumber identifica el lote sin fecha que guarda el stock agregado diario.
const BaseLotNumber = "BASE"

// Lot es un lote de un producto con su fecha de vencimiento (FEFO).
// ExpirationDate nil solo para el lote BASE.
type Lot struct {
	ID              string
	ProductID       string
	LotNumber       string
	ExpirationDate  *time.Time
	ManufactureDate *time.Time
	Quantity        int
	StockDisplay    string // texto original de la planilla (ej. "388/06")
	Location        string // posición física (ej. A1-P2-N3)
	UnitCost        *decimal.Decimal
	Supplier        string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DaysUntilExpiration días de calendario hasta el vencimiento; negativo si venció.
// ok es false para lotes sin fecha.
func (l *Lot) DaysUntilExpiration(today time.Time) (days int, ok bool) {
	if l.ExpirationDate == nil {
		return 0, false
	}
	return DaysBetween(today, *l.ExpirationDate), true
}

// IsExpired indica si el lote venció antes de today.
func (l *Lot) IsExpired(today time.Time) bool {
	d, ok := l.DaysUntilExpiration(today)
	return ok && d < 0
}

// DaysBetween cuenta días de calendario de from a to, ignorando la hora.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int((t.Unix() - f.Unix()) / 86400)
}
