package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Formatos de fecha aceptados, en orden de prioridad (día primero).
var dateLayouts = []string{
	"2/1/2006",
	"2006-1-2",
	"2-1-2006",
	"2/1/06",
	"2006/1/2",
	"1/2/2006",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
}

// Serial máximo de Excel (31/12/9999).
const maxExcelSerial = 2958465

// isNull indica celda vacía o marcador nulo exportado por otras herramientas.
func isNull(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "null":
		return true
	}
	return false
}

// parseDate devuelve la fecha (00:00 UTC) o nil si ningún formato coincide.
func parseDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if isNull(v) {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return dateOnly(t)
		}
	}
	// planillas leídas en crudo traen fechas como número serial
	if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1 && f <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return dateOnly(t)
		}
	}
	return nil
}

func dateOnly(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// parseQuantity interpreta una cantidad; vacía o inválida vale 0.
func parseQuantity(v string) int {
	d, ok := parseNumber(v)
	if !ok {
		return 0
	}
	return int(d.IntPart())
}

// parseFactor factor de conversión; vacío, inválido o menor a 1 vale 1.
func parseFactor(v string) int {
	n := parseQuantity(v)
	if n < 1 {
		return 1
	}
	return n
}

func parseNumber(v string) (decimal.Decimal, bool) {
	v = strings.TrimSpace(v)
	if isNull(v) {
		return decimal.Zero, false
	}
	if d, err := decimal.NewFromString(v); err == nil {
		return d, true
	}
	if d, err := decimal.NewFromString(decimalComma(v)); err == nil {
		return d, true
	}
	return decimal.Zero, false
}

// parseStrictQuantity formato brasileño ("1.234,5"): el punto separa miles.
// Vacía vale 0; inválida es error.
func parseStrictQuantity(v string) (int, error) {
	v = strings.TrimSpace(v)
	if isNull(v) {
		return 0, nil
	}
	d, err := decimal.NewFromString(decimalComma(v))
	if err != nil {
		return 0, fmt.Errorf("cantidad inválida: %s", v)
	}
	return int(d.IntPart()), nil
}

func decimalComma(v string) string {
	return strings.ReplaceAll(strings.ReplaceAll(v, ".", ""), ",", ".")
}
