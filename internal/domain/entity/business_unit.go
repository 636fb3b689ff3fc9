package entity

import "time"

// BusinessUnit representa una unidad de negocio (tienda, centro de distribución).
// Nunca se elimina físicamente: se desactiva con Active=false.
type BusinessUnit struct {
	ID        string
	Code      string // código único (ej. UNB01)
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
