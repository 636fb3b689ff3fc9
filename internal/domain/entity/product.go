package entity

import "time"

// Unidades de medida admitidas en el alta manual.
var UnitMeasures = []string{"UN", "KG", "L", "CX", "PC", "FD", "M"}

// Product representa un SKU dentro de una unidad de negocio.
// (Code, UnitID) es único; los lotes le pertenecen y se eliminan en cascada.
type Product struct {
	ID               string
	UnitID           string
	Code             string
	Name             string
	Category         string
	UnitMeasure      string
	Description      string
	ConversionFactor int // unidades por caja
	ImageURL         string
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Lots se rellena solo en lecturas que lo requieren (estado, reportes).
	Lots []*Lot
	// Unit se rellena en listados con join.
	Unit *BusinessUnit
}
