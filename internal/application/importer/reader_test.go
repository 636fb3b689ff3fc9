package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadTable_CSVLatin1YDelimitador(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String("Produto;Descricao;Qtd Contagem\nA1;Feijão;10\n")
	require.NoError(t, err)

	tbl, err := ReadTable(Source{Filename: "GRADE.CSV", Body: bytes.NewReader([]byte(latin))}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Produto", "Descricao", "Qtd Contagem"}, tbl.Header)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Feijão", tbl.Rows[0][1])
}

func TestReadTable_CSVCp1252(t *testing.T) {
	// 0x80 es € en cp1252 y un control en latin-1
	raw := []byte("Produto,Descricao\nA1,Pre\x80o\n")
	tbl, err := ReadTable(Source{Filename: "a.csv", Body: bytes.NewReader(raw)}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Pre€o", tbl.Rows[0][1])
}

func TestReadTable_CSVBOMYFilasVacias(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Produto\tQtd Contagem\n\nA1\t5\n\t\n")...)
	tbl, err := ReadTable(Source{Filename: "a.csv", Body: bytes.NewReader(raw)}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Produto", tbl.Header[0])
	assert.Len(t, tbl.Rows, 1)
}

func TestReadTable_SeparadorYEncodingForzados(t *testing.T) {
	raw := []byte("a|b;c\n1|2;3\n")
	tbl, err := ReadTable(Source{Filename: "a.csv", Body: bytes.NewReader(raw)}, Options{Separator: ";", Encoding: "utf-8"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a|b", "c"}, tbl.Header)

	_, err = ReadTable(Source{Filename: "a.csv", Body: bytes.NewReader([]byte{'a', 0xE3, '\n'})}, Options{Encoding: "utf-8"})
	assert.Error(t, err)

	_, err = ReadTable(Source{Filename: "a.csv", Body: bytes.NewReader(raw)}, Options{Separator: ";;"})
	assert.Error(t, err)
}

func TestReadTable_Vacio(t *testing.T) {
	_, err := ReadTable(Source{Filename: "a.csv", Body: bytes.NewReader(nil)}, Options{})
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDelimiter_IgnoraComillas(t *testing.T) {
	d, err := delimiter("", `"a;b;c",x,y`)
	require.NoError(t, err)
	assert.Equal(t, ',', d)

	d, err = delimiter(`\t`, "")
	require.NoError(t, err)
	assert.Equal(t, '\t', d)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"04/03/2025", "2025-03-04", "04-03-2025", "04/03/25", "2025/03/04", "2025-03-04 13:45:00", "45720",
		"4/3/2025", "04/3/2025", "4/03/2025", "2025-3-4", "4-3-2025", "4/3/25", "2025/3/4"} {
		got := parseDate(in)
		if assert.NotNil(t, got, in) {
			assert.Equal(t, want, *got, in)
		}
	}
	// día > 12 solo encaja como mes/día/año
	got := parseDate("03/31/2025")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), *got)
	got = parseDate("3/31/2025")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), *got)

	for _, in := range []string{"", "nan", "NULL", "31/31/2025", "mañana"} {
		assert.Nil(t, parseDate(in), in)
	}
}

func TestParseQuantity(t *testing.T) {
	cases := map[string]int{
		"":      0,
		"nan":   0,
		"abc":   0,
		"12":    12,
		"12.0":  12,
		"12,7":  12,
		" 4662": 4662,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseQuantity(in), in)
	}
	assert.Equal(t, 1, parseFactor(""))
	assert.Equal(t, 1, parseFactor("0"))
	assert.Equal(t, 24, parseFactor("24"))
}

func TestParseStrictQuantity(t *testing.T) {
	n, err := parseStrictQuantity("1.234,9")
	require.NoError(t, err)
	assert.Equal(t, 1234, n)

	n, err = parseStrictQuantity("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = parseStrictQuantity("12a")
	assert.Error(t, err)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "codigo item", normalizeHeader("  Código   ITEM "))
	assert.Equal(t, "qtd contagem", normalizeHeader("QTD CONTAGEM"))
}
