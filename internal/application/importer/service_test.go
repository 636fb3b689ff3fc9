package importer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
)

const unitID = "unit-1"

func newTestService(t *testing.T) (*Service, *memStore, *memTx) {
	t.Helper()
	store := newMemStore()
	store.addUnit(unitID, "UNB01")
	tx := &memTx{store: store}
	svc := NewService(unitRepo{store}, tx, nil, nil)
	return svc, store, tx
}

func csvSource(body string) Source {
	return Source{Filename: "planilla.csv", Body: strings.NewReader(body)}
}

const dailyCSV = "Produto;Descricao;Unidade;Fator;Inventario;Qtd Contagem\n" +
	"A1;Leite integral;cx;12;388/06;4662\n" +
	";sin código;un;1;;10\n" +
	"B2;Queijo;kg;;;abc\n"

func TestImport_DailyStock_CreaProductosYLoteBase(t *testing.T) {
	svc, store, _ := newTestService(t)

	res, err := svc.Import(context.Background(), KindDailyStock, unitID, csvSource(dailyCSV), Options{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "UNB01", res.Unit)
	assert.Equal(t, 2, res.Processed, "la fila sin código se salta en silencio")
	assert.Equal(t, 2, res.Created)
	assert.Empty(t, res.Errors)

	a1 := store.product(unitID, "A1")
	require.NotNil(t, a1)
	assert.Equal(t, "Leite integral", a1.Name)
	assert.Equal(t, "CX", a1.UnitMeasure)
	assert.Equal(t, 12, a1.ConversionFactor)

	lots := store.lotsOf(a1.ID)
	require.Len(t, lots, 1)
	assert.Equal(t, entity.BaseLotNumber, lots[0].LotNumber)
	assert.Nil(t, lots[0].ExpirationDate)
	assert.Equal(t, 4662, lots[0].Quantity)
	assert.Equal(t, "388/06", lots[0].StockDisplay)

	b2 := store.product(unitID, "B2")
	require.NotNil(t, b2)
	assert.Equal(t, 1, b2.ConversionFactor, "factor vacío vale 1")
	assert.Equal(t, 0, store.lotsOf(b2.ID)[0].Quantity, "cantidad inválida vale 0")
}

func TestImport_DailyStock_Idempotente(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Import(ctx, KindDailyStock, unitID, csvSource(dailyCSV), Options{})
	require.NoError(t, err)
	second, err := svc.Import(ctx, KindDailyStock, unitID, csvSource(dailyCSV), Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, second.Created)
	assert.Equal(t, first.Created+first.Updated, second.Updated)
	assert.Len(t, store.products, 2)
	assert.Len(t, store.lots, 2)
	a1 := store.product(unitID, "A1")
	assert.Equal(t, 4662, store.lotsOf(a1.ID)[0].Quantity, "no acumula")
}

func TestImport_FalloDeFila_SoloDeshaceEsaFila(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.failLotQty = 666

	body := "Produto,Qtd Contagem\nA1,10\nERR,666\nC3,5\n"
	res, err := svc.Import(context.Background(), KindDailyStock, unitID, csvSource(body), Options{})
	require.NoError(t, err)

	assert.True(t, res.Success, "hay filas procesadas")
	assert.Equal(t, 2, res.Processed)
	require.Len(t, res.Errors, 1)
	assert.True(t, strings.HasPrefix(res.Errors[0], "fila 3:"), res.Errors[0])
	assert.Nil(t, store.product(unitID, "ERR"), "el producto de la fila fallida no queda persistido")
	assert.NotNil(t, store.product(unitID, "C3"))
}

func TestImport_Counts_ProductoInexistente_Advertencia(t *testing.T) {
	svc, store, _ := newTestService(t)

	body := "Código Item;Validade Aferida;Quantidade Cx;Quantidade Unidade\nSKU001;31/01/2025;2;3\n"
	res, err := svc.Import(context.Background(), KindCounts, unitID, csvSource(body), Options{})
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "SKU001")
	assert.Equal(t, 0, res.Processed)
	assert.Empty(t, res.Errors)
	assert.Empty(t, store.products, "no crea productos")
}

func TestImport_Counts_CreaYSobrescribeLote(t *testing.T) {
	svc, store, _ := newTestService(t)
	p := store.addProduct(unitID, "P1", 12)
	ctx := context.Background()

	body := "codigo item , VALIDADE AFERIDA ,Quantidade Cx,Quantidade Unidade\nP1,31/01/2025,2,3\n"
	res, err := svc.Import(ctx, KindCounts, unitID, csvSource(body), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	lots := store.lotsOf(p.ID)
	require.Len(t, lots, 1)
	assert.Equal(t, "VAL_20250131", lots[0].LotNumber)
	assert.Equal(t, 27, lots[0].Quantity)
	require.NotNil(t, lots[0].ExpirationDate)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), *lots[0].ExpirationDate)

	body = "Código Item,Validade Aferida,Quantidade Cx,Quantidade Unidade\nP1,2025-01-31,0,5\n"
	res, err = svc.Import(ctx, KindCounts, unitID, csvSource(body), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.Created)
	lots = store.lotsOf(p.ID)
	require.Len(t, lots, 1)
	assert.Equal(t, 5, lots[0].Quantity, "recuento absoluto, no suma")
}

func TestImport_Counts_FechaInvalida_ExitoParcial(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.addProduct(unitID, "P1", 1)
	store.addProduct(unitID, "P2", 1)
	store.addProduct(unitID, "P3", 1)

	body := "Código Item;Validade Aferida;Quantidade Cx;Quantidade Unidade\n" +
		"P1;10/02/2025;1;0\n" +
		"P2;no-es-fecha;1;0\n" +
		"P3;10-03-2025;1;0\n"
	res, err := svc.Import(context.Background(), KindCounts, unitID, csvSource(body), Options{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Processed)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "fila 3")
	assert.Contains(t, res.Warnings[0], "P2")
}

func TestImport_ColumnasFaltantes_FalloDeArchivo(t *testing.T) {
	svc, store, _ := newTestService(t)

	res, err := svc.Import(context.Background(), KindDailyStock, unitID, csvSource("Produto;Descricao\nA1;Leite\n"), Options{})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Qtd Contagem")
	assert.Equal(t, 0, res.Processed)
	assert.Empty(t, store.products)
}

func TestImport_UnidadInexistente(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Import(context.Background(), KindDailyStock, "no-existe", csvSource(dailyCSV), Options{})
	assert.ErrorIs(t, err, domain.ErrUnitNotFound)
}

func TestImport_DryRun_NoPersiste(t *testing.T) {
	svc, store, tx := newTestService(t)
	rec := &recorderSpy{}
	svc.recorder = rec

	res, err := svc.Import(context.Background(), KindDailyStock, unitID, csvSource(dailyCSV), Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 2, res.Processed)
	assert.Empty(t, store.products)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, []string{"daily_stock"}, rec.kinds)
}

func TestImport_Lots_UnidadDesconocidaYErroresDeFila(t *testing.T) {
	svc, store, _ := newTestService(t)
	fixed := time.Date(2025, 2, 3, 10, 20, 30, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	body := "cod_unb;sku;descricao;lote;validade;qtd\n" +
		"UNB01;A1;Leite;L1;31/12/2025;1.200\n" +
		"UNB99;A1;Leite;L1;31/12/2025;10\n" +
		"UNB01;A1;Leite;;15/06/2025;5\n" +
		"UNB01;B2;Queijo;L9;ayer;5\n" +
		"UNB01;C3;Manteiga;L3;01/01/2026;x\n"
	res, err := svc.Import(context.Background(), KindLots, "", csvSource(body), Options{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.LotsCreated)
	assert.Equal(t, []string{"UNB99"}, res.UnknownUnits)
	require.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors[0], "fila 3: unidad no encontrada")
	assert.Contains(t, res.Errors[1], "fila 5:")
	assert.Contains(t, res.Errors[2], "cantidad inválida")

	a1 := store.product(unitID, "A1")
	require.NotNil(t, a1)
	byNumber := map[string]entity.Lot{}
	for _, l := range store.lotsOf(a1.ID) {
		byNumber[l.LotNumber] = l
	}
	assert.Equal(t, 1200, byNumber["L1"].Quantity, "punto como separador de miles")
	assert.Contains(t, byNumber, "IMP_20250203_102030")
	assert.Nil(t, store.product(unitID, "B2"))
}

func TestImport_Lots_PurgeLots(t *testing.T) {
	svc, store, _ := newTestService(t)
	p := store.addProduct(unitID, "A1", 1)
	exp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.lots["old"] = entity.Lot{ID: "old", ProductID: p.ID, LotNumber: "VIEJO", ExpirationDate: &exp, Quantity: 9, Active: true}

	body := "COD_UNB,SKU,DESCRICAO,LOTE,VALIDADE,QTD\nUNB01,A1,Leite,N1,31/12/2025,3\nUNB01,A1,Leite,N2,31/12/2026,4\n"
	res, err := svc.Import(context.Background(), KindLots, "", csvSource(body), Options{PurgeLots: true})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Updated)
	lots := store.lotsOf(p.ID)
	assert.Len(t, lots, 2, "el lote previo se elimina una sola vez, antes del primer lote nuevo")
	for _, l := range lots {
		assert.NotEqual(t, "VIEJO", l.LotNumber)
	}
}

func TestImport_Workbook_EncabezadosYFechaSerial(t *testing.T) {
	svc, store, _ := newTestService(t)
	p := store.addProduct(unitID, "P1", 6)

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{" CÓDIGO ITEM ", "Validade Aferida", "Quantidade Cx", "Quantidade Unidade"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"P1", time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), 2, 1}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := svc.Import(context.Background(), KindCounts, unitID, Source{Filename: "contagem.xlsx", Body: bytes.NewReader(buf.Bytes())}, Options{})
	require.NoError(t, err)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, 1, res.Processed)
	lots := store.lotsOf(p.ID)
	require.Len(t, lots, 1)
	assert.Equal(t, "VAL_20250520", lots[0].LotNumber)
	assert.Equal(t, 13, lots[0].Quantity)
}

func TestImport_ArchivoIlegible(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Import(context.Background(), KindDailyStock, unitID, Source{Filename: "x.xlsx", Body: strings.NewReader("no es un zip")}, Options{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestImport_MarcadoresNulos_SeSaltanEnSilencio(t *testing.T) {
	svc, store, _ := newTestService(t)

	body := "Produto;Qtd Contagem\nnan;5\nNULL;7\n  null ;1\nA1;3\n"
	res, err := svc.Import(context.Background(), KindDailyStock, unitID, csvSource(body), Options{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Created)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Len(t, store.products, 1)
	assert.NotNil(t, store.product(unitID, "A1"))
}

func TestImport_FalloAlConfirmar_DeshaceTodo(t *testing.T) {
	svc, store, tx := newTestService(t)
	tx.commitErr = errors.New("conexión perdida en commit")

	res, err := svc.Import(context.Background(), KindDailyStock, unitID, csvSource(dailyCSV), Options{})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "commit")
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Empty(t, store.products)
	assert.Empty(t, store.lots)
	assert.Equal(t, 0, tx.commits)
}

func TestImport_ContextoCancelado_DeshaceTodo(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.Import(ctx, KindDailyStock, unitID, csvSource(dailyCSV), Options{})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 0, res.Processed)
	assert.Empty(t, store.products)
}

func TestImport_Counts_FechasSinCeros(t *testing.T) {
	svc, store, _ := newTestService(t)
	p := store.addProduct(unitID, "A1", 1)

	body := "Código Item;Validade Aferida;Quantidade Cx;Quantidade Unidade\nA1;4/3/2025;2;3\n"
	res, err := svc.Import(context.Background(), KindCounts, unitID, csvSource(body), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	assert.Empty(t, res.Warnings)
	lots := store.lotsOf(p.ID)
	require.Len(t, lots, 1)
	assert.Equal(t, "VAL_20250304", lots[0].LotNumber)
	assert.Equal(t, 5, lots[0].Quantity)
}

func TestImport_Counts_EncabezadosSinAcentoNiEspaciosExtra(t *testing.T) {
	svc, store, _ := newTestService(t)
	p := store.addProduct(unitID, "A1", 6)

	body := " CODIGO   ITEM ;validade aferida;QUANTIDADE CX;Quantidade  Unidade\nA1;31/01/2025;1;2\n"
	res, err := svc.Import(context.Background(), KindCounts, unitID, csvSource(body), Options{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	lots := store.lotsOf(p.ID)
	require.Len(t, lots, 1)
	assert.Equal(t, 8, lots[0].Quantity)
}

func TestImport_Counts_LoteConFechaEditada_SeReusaPorNumero(t *testing.T) {
	svc, store, _ := newTestService(t)
	p := store.addProduct(unitID, "A1", 1)
	edited := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	store.lots["l1"] = entity.Lot{ID: "l1", ProductID: p.ID, LotNumber: "VAL_20250304", ExpirationDate: &edited, Quantity: 9, Active: true}

	body := "Código Item;Validade Aferida;Quantidade Cx;Quantidade Unidade\nA1;04/03/2025;0;4\n"
	res, err := svc.Import(context.Background(), KindCounts, unitID, csvSource(body), Options{})
	require.NoError(t, err)

	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, res.Updated)
	lots := store.lotsOf(p.ID)
	require.Len(t, lots, 1)
	assert.Equal(t, 4, lots[0].Quantity)
	require.NotNil(t, lots[0].ExpirationDate)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), *lots[0].ExpirationDate)
}

func TestResult_FirstErrors(t *testing.T) {
	r := newResult(KindLots, false, time.Now())
	for i := 0; i < 25; i++ {
		r.rowError(i+2, assert.AnError)
	}
	assert.Len(t, r.FirstErrors(20), 20)
	assert.Len(t, r.Errors, 25)
}
