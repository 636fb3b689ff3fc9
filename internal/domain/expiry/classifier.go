// Package expiry clasifica productos según los días que faltan para el vencimiento
// de su lote más próximo (FEFO).
package expiry

import (
	"time"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
)

// Status estado de vencimiento de un producto.
type Status string

const (
	StatusExpired  Status = "EXPIRED"
	StatusCritical Status = "CRITICAL"
	StatusPreBlock Status = "PRE_BLOCK"
	StatusOK       Status = "OK"
	StatusNoStock  Status = "NO_STOCK"
)

// Color nombre del color de presentación.
type Color string

const (
	ColorBlack Color = "black"
	ColorRed   Color = "red"
	ColorAmber Color = "amber"
	ColorGreen Color = "green"
	ColorGrey  Color = "grey"
)

type presentation struct {
	color Color
	hex   string
	label string
}

var presentations = map[Status]presentation{
	StatusExpired:  {ColorBlack, "#000000", "Vencido"},
	StatusCritical: {ColorRed, "#F44336", "Crítico"},
	StatusPreBlock: {ColorAmber, "#FFC107", "Pre-bloqueo"},
	StatusOK:       {ColorGreen, "#4CAF50", "OK"},
	StatusNoStock:  {ColorGrey, "#9E9E9E", "Sin stock"},
}

// Label etiqueta legible del estado.
func (s Status) Label() string { return presentations[s].label }

// Color color asociado al estado.
func (s Status) Color() Color { return presentations[s].color }

// Hex color hexadecimal asociado al estado.
func (s Status) Hex() string { return presentations[s].hex }

// Blocked indica si el producto no debe venderse (vencido o crítico).
func (s Status) Blocked() bool { return s == StatusExpired || s == StatusCritical }

// Umbrales por defecto cuando no hay configuración de unidad ni global.
const (
	DefaultCriticalDays = 30
	DefaultPreBlockDays = 45
)

// Thresholds umbrales efectivos en días.
type Thresholds struct {
	CriticalDays int
	PreBlockDays int
}

// DefaultThresholds devuelve los umbrales fijos de respaldo.
func DefaultThresholds() Thresholds {
	return Thresholds{CriticalDays: DefaultCriticalDays, PreBlockDays: DefaultPreBlockDays}
}

// Validate exige 1 <= critical < pre_block.
func (t Thresholds) Validate() error {
	if t.CriticalDays < 1 || t.PreBlockDays < 1 || t.CriticalDays >= t.PreBlockDays {
		return domain.ErrInvalidThresholds
	}
	return nil
}

// FromConfig convierte una configuración persistida en umbrales.
func FromConfig(cfg *entity.AlertConfig) Thresholds {
	return Thresholds{CriticalDays: cfg.CriticalDays, PreBlockDays: cfg.PreBlockDays}
}

// Resolve devuelve los umbrales del primer candidato no nulo y activo, en orden de precedencia
// (override, unidad, global). Sin candidatos válidos devuelve DefaultThresholds.
func Resolve(candidates ...*entity.AlertConfig) Thresholds {
	for _, c := range candidates {
		if c != nil && c.Active {
			return FromConfig(c)
		}
	}
	return DefaultThresholds()
}

// Result resultado de la clasificación.
type Result struct {
	Status        Status
	Color         Color
	HexColor      string
	Label         string
	DaysRemaining *int
	Lot           *entity.Lot
}

// NearestLot devuelve el lote activo con stock y fecha de vencimiento más próxima, o nil.
// Los lotes sin fecha (BASE) no participan.
func NearestLot(lots []*entity.Lot) *entity.Lot {
	var nearest *entity.Lot
	for _, l := range lots {
		if l == nil || !l.Active || l.Quantity <= 0 || l.ExpirationDate == nil {
			continue
		}
		if nearest == nil || l.ExpirationDate.Before(*nearest.ExpirationDate) {
			nearest = l
		}
	}
	return nearest
}

// Classify calcula el estado de un producto a partir de sus lotes. today se compara por fecha calendario.
func Classify(lots []*entity.Lot, t Thresholds, today time.Time) Result {
	lot := NearestLot(lots)
	if lot == nil {
		return build(StatusNoStock, nil, nil)
	}
	days, _ := lot.DaysUntilExpiration(today)
	return build(statusFor(days, t), &days, lot)
}

// StatusForDays aplica las reglas de clasificación sobre un número de días.
func StatusForDays(days int, t Thresholds) Status {
	return statusFor(days, t)
}

func statusFor(days int, t Thresholds) Status {
	switch {
	case days < 0:
		return StatusExpired
	case days <= t.CriticalDays:
		return StatusCritical
	case days <= t.PreBlockDays:
		return StatusPreBlock
	default:
		return StatusOK
	}
}

func build(s Status, days *int, lot *entity.Lot) Result {
	p := presentations[s]
	return Result{
		Status:        s,
		Color:         p.color,
		HexColor:      p.hex,
		Label:         p.label,
		DaysRemaining: days,
		Lot:           lot,
	}
}
