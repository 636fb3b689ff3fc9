package importer

import (
	"fmt"
	"sort"
	"time"
)

// Kind formato de planilla soportado.
type Kind string

const (
	// KindDailyStock estoque total diario (Grade 020502): stock agregado sin vencimiento.
	KindDailyStock Kind = "daily_stock"
	// KindCounts conteo físico de validades (Contagens).
	KindCounts Kind = "counts"
	// KindLots carga de lotes multi-unidad (solo CLI).
	KindLots Kind = "lots"
)

// Label nombre legible del formato.
func (k Kind) Label() string {
	switch k {
	case KindDailyStock:
		return "Grade 020502"
	case KindCounts:
		return "Contagens"
	case KindLots:
		return "Lotes"
	default:
		return string(k)
	}
}

// ParseKind acepta el nombre del formato o sus alias cortos.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "daily_stock", "daily", "grade":
		return KindDailyStock, nil
	case "counts", "contagens":
		return KindCounts, nil
	case "lots", "lotes":
		return KindLots, nil
	}
	return "", fmt.Errorf("tipo de importación desconocido: %q", s)
}

// Result resumen de una importación. Errors y Warnings conservan todos los mensajes.
type Result struct {
	Success      bool      `json:"success"`
	Kind         Kind      `json:"kind"`
	Unit         string    `json:"unit,omitempty"`
	Processed    int       `json:"processed"`
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	LotsCreated  int       `json:"lots_created,omitempty"`
	LotsUpdated  int       `json:"lots_updated,omitempty"`
	Errors       []string  `json:"errors"`
	Warnings     []string  `json:"warnings"`
	UnknownUnits []string  `json:"unknown_units,omitempty"`
	Error        string    `json:"error,omitempty"`
	DryRun       bool      `json:"dry_run"`
	Timestamp    time.Time `json:"timestamp"`
}

func newResult(kind Kind, dryRun bool, ts time.Time) *Result {
	return &Result{
		Kind:      kind,
		Errors:    []string{},
		Warnings:  []string{},
		DryRun:    dryRun,
		Timestamp: ts,
	}
}

// change efecto de una fila aplicada con éxito.
type change struct {
	warning     string
	created     int
	updated     int
	lotsCreated int
	lotsUpdated int
}

func (r *Result) apply(c change) {
	if c.warning != "" {
		r.Warnings = append(r.Warnings, c.warning)
		return
	}
	r.Processed++
	r.Created += c.created
	r.Updated += c.updated
	r.LotsCreated += c.lotsCreated
	r.LotsUpdated += c.lotsUpdated
}

func (r *Result) rowError(line int, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("fila %d: %v", line, err))
}

func (r *Result) unknownUnit(code string) {
	for _, c := range r.UnknownUnits {
		if c == code {
			return
		}
	}
	r.UnknownUnits = append(r.UnknownUnits, code)
	sort.Strings(r.UnknownUnits)
}

// fail marca un fallo a nivel de archivo o transacción: nada quedó persistido.
func (r *Result) fail(err error) {
	r.Success = false
	r.Error = err.Error()
	r.Processed = 0
	r.Created = 0
	r.Updated = 0
	r.LotsCreated = 0
	r.LotsUpdated = 0
}

func (r *Result) finalize() {
	if r.Error != "" {
		r.Success = false
		return
	}
	r.Success = len(r.Errors) == 0 || r.Processed > 0
}

// FirstErrors devuelve a lo sumo n errores para mostrar en consola.
func (r *Result) FirstErrors(n int) []string {
	if len(r.Errors) <= n {
		return r.Errors
	}
	return r.Errors[:n]
}
