package importer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrMissingColumns el archivo no trae alguna columna obligatoria.
var ErrMissingColumns = errors.New("columnas obligatorias no encontradas")

// Campos normalizados.
const (
	fieldCode             = "code"
	fieldName             = "name"
	fieldUnitMeasure      = "unit_measure"
	fieldConversionFactor = "conversion_factor"
	fieldStockDisplay     = "stock_display"
	fieldQuantity         = "quantity"
	fieldExpiration       = "expiration_date"
	fieldBoxes            = "boxes"
	fieldUnits            = "units"
	fieldUnitCode         = "unit_code"
	fieldLotNumber        = "lot_number"
)

type column struct {
	header   string
	field    string
	required bool
}

// layout columnas de un formato. key es el campo cuya ausencia salta la fila sin error;
// vacío significa que ninguna fila se salta en silencio.
type layout struct {
	key     string
	columns []column
}

var layouts = map[Kind]layout{
	KindDailyStock: {
		key: fieldCode,
		columns: []column{
			{"Produto", fieldCode, true},
			{"Descricao", fieldName, false},
			{"Unidade", fieldUnitMeasure, false},
			{"Fator", fieldConversionFactor, false},
			{"Inventario", fieldStockDisplay, false},
			{"Qtd Contagem", fieldQuantity, true},
		},
	},
	KindCounts: {
		key: fieldCode,
		columns: []column{
			{"Código Item", fieldCode, true},
			{"Validade Aferida", fieldExpiration, true},
			{"Quantidade Cx", fieldBoxes, false},
			{"Quantidade Unidade", fieldUnits, false},
		},
	},
	KindLots: {
		columns: []column{
			{"COD_UNB", fieldUnitCode, true},
			{"SKU", fieldCode, true},
			{"DESCRICAO", fieldName, true},
			{"LOTE", fieldLotNumber, true},
			{"VALIDADE", fieldExpiration, true},
			{"QTD", fieldQuantity, true},
		},
	},
}

// record fila de datos accesible por campo normalizado.
type record struct {
	cells []string
	index map[string]int
}

// get devuelve el valor recortado del campo, o "" si la columna no existe.
func (r record) get(field string) string {
	i, ok := r.index[field]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// bind resuelve el encabezado contra el layout y convierte las filas en records.
func (l layout) bind(t *Table) ([]record, error) {
	byHeader := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		k := normalizeHeader(h)
		if _, dup := byHeader[k]; !dup {
			byHeader[k] = i
		}
	}

	index := make(map[string]int, len(l.columns))
	var missing []string
	for _, c := range l.columns {
		if i, ok := byHeader[normalizeHeader(c.header)]; ok {
			index[c.field] = i
		} else if c.required {
			missing = append(missing, c.header)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s (columnas en el archivo: %s)",
			ErrMissingColumns, strings.Join(missing, ", "), strings.Join(t.Header, ", "))
	}

	records := make([]record, len(t.Rows))
	for i, cells := range t.Rows {
		records[i] = record{cells: cells, index: index}
	}
	return records, nil
}

// normalizeHeader compara encabezados sin mayúsculas, acentos ni espacios sobrantes.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.Join(strings.Fields(h), " "))
	// transform.Chain guarda estado: uno por llamada
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, h); err == nil {
		return out
	}
	return h
}
