package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Source archivo a importar. Filename decide el lector por extensión.
type Source struct {
	Filename string
	Body     io.Reader
}

// Table planilla leída: encabezado y filas de datos sin filas totalmente vacías.
type Table struct {
	Header []string
	Rows   [][]string
}

// ErrEmptyFile el archivo no tiene encabezado.
var ErrEmptyFile = errors.New("archivo vacío")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Delimitadores candidatos para CSV sin separador explícito.
var delimiters = []rune{',', ';', '\t', '|'}

// ReadTable lee CSV (.csv) o planilla Excel (cualquier otra extensión).
func ReadTable(src Source, opts Options) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(src.Filename), ".csv") {
		rows, err = readCSV(src.Body, opts.Separator, opts.Encoding)
	} else {
		rows, err = readWorkbook(src.Body, opts.Sheet)
	}
	if err != nil {
		return nil, err
	}
	return newTable(rows)
}

func newTable(rows [][]string) (*Table, error) {
	var t Table
	for _, r := range rows {
		if blankRow(r) {
			continue
		}
		if t.Header == nil {
			t.Header = make([]string, len(r))
			for i, h := range r {
				t.Header[i] = strings.TrimSpace(h)
			}
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	if t.Header == nil {
		return nil, ErrEmptyFile
	}
	return &t, nil
}

func blankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSV(r io.Reader, separator, charset string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	text, err := decode(data, charset)
	if err != nil {
		return nil, err
	}
	comma, err := delimiter(separator, firstLine(text))
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	return rows, nil
}

// decode convierte a UTF-8. Sin charset explícito prueba utf-8, luego latin-1
// o cp1252 (este último si aparecen bytes 0x80-0x9F, que en latin-1 son de control).
func decode(data []byte, charset string) (string, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "":
		if utf8.Valid(data) {
			return string(data), nil
		}
		enc = charmap.ISO8859_1
		if hasC1(data) {
			enc = charmap.Windows1252
		}
	case "utf-8", "utf8":
		if !utf8.Valid(data) {
			return "", errors.New("el archivo no es UTF-8 válido")
		}
		return string(data), nil
	case "latin-1", "latin1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "cp1252", "windows-1252":
		enc = charmap.Windows1252
	default:
		e, err := ianaindex.IANA.Encoding(charset)
		if err != nil || e == nil {
			return "", fmt.Errorf("encoding no soportado: %s", charset)
		}
		enc = e
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decodificar %s: %w", charset, err)
	}
	return string(out), nil
}

func hasC1(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return true
		}
	}
	return false
}

func firstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i]
	}
	return text
}

// delimiter usa el separador indicado o elige el candidato más frecuente
// fuera de comillas en el encabezado.
func delimiter(separator, header string) (rune, error) {
	switch separator {
	case "":
	case `\t`, "tab":
		return '\t', nil
	default:
		if utf8.RuneCountInString(separator) != 1 {
			return 0, fmt.Errorf("separador inválido: %q", separator)
		}
		r, _ := utf8.DecodeRuneInString(separator)
		return r, nil
	}

	counts := make(map[rune]int, len(delimiters))
	quoted := false
	for _, r := range header {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[r]++
		}
	}
	best, top := ',', 0
	for _, d := range delimiters {
		if counts[d] > top {
			best, top = d, counts[d]
		}
	}
	return best, nil
}

func readWorkbook(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir planilla: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	// valores crudos: las fechas llegan como serial y los números sin formato
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}
	return rows, nil
}
