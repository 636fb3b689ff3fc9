package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
)

func codes(items []dto.CriticalityItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Code)
	}
	return out
}

func TestCriticality_PorCodigoDeUnidad(t *testing.T) {
	f := newFixture()
	rep, err := f.reports().Criticality(context.Background(), f.operator, "", "UNB01")
	require.NoError(t, err)

	require.NotNil(t, rep.Unit)
	assert.Equal(t, "UNB01", rep.Unit.Code)
	assert.Equal(t, dto.ThresholdsResponse{CriticalDays: 10, PreBlockDays: 20}, rep.Thresholds)
	assert.Equal(t, []string{"P3", "P1"}, codes(rep.Blocked), "vencidos y críticos, más urgentes primero")
	assert.Equal(t, []string{"P2"}, codes(rep.PreBlock))
	assert.Equal(t, dto.CriticalitySummary{TotalBlocked: 2, TotalPreBlock: 1}, rep.Summary)

	p1 := rep.Blocked[1]
	assert.Equal(t, "L1", p1.LotNumber)
	assert.Equal(t, 10, p1.Quantity)
	assert.Equal(t, 13, p1.TotalStock)

	logs := f.logsOf(entity.QueryTypeCriticality)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"unit_id":"u1","unit_code":"UNB01"}`, string(logs[0].Params))
}

func TestCriticality_SinUnidadUsaGlobalSobreUnidadesDelUsuario(t *testing.T) {
	f := newFixture()
	rep, err := f.reports().Criticality(context.Background(), f.operator, "", "")
	require.NoError(t, err)

	assert.Nil(t, rep.Unit)
	assert.Equal(t, dto.ThresholdsResponse{CriticalDays: 30, PreBlockDays: 45}, rep.Thresholds)
	assert.Equal(t, []string{"P3", "P1", "P2"}, codes(rep.Blocked))
	assert.Empty(t, rep.PreBlock)
	assert.NotNil(t, rep.PreBlock, "las listas vacías se serializan como []")
}

func TestCriticality_SinConfiguracionUsaValoresPorDefecto(t *testing.T) {
	f := newFixture()
	f.s.configs = map[string]*entity.AlertConfig{}

	rep, err := f.reports().Criticality(context.Background(), f.admin, "u2", "")
	require.NoError(t, err)
	assert.Equal(t, dto.ThresholdsResponse{CriticalDays: 30, PreBlockDays: 45}, rep.Thresholds)
	assert.Equal(t, []string{"Q1"}, codes(rep.Blocked))
}

func TestCriticality_Errores(t *testing.T) {
	f := newFixture()
	uc := f.reports()
	ctx := context.Background()

	_, err := uc.Criticality(ctx, f.operator, "u2", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Criticality(ctx, f.admin, "", "NOEXISTE")
	assert.ErrorIs(t, err, domain.ErrUnitNotFound)

	_, err = uc.Criticality(ctx, f.admin, "u3", "")
	assert.ErrorIs(t, err, domain.ErrUnitNotFound, "unidad inactiva")

	assert.Empty(t, f.logsOf(entity.QueryTypeCriticality))
}

type pdfSpy struct{ got *dto.CriticalityReportResponse }

func (p *pdfSpy) GenerateCriticalityPDF(_ context.Context, r *dto.CriticalityReportResponse) ([]byte, error) {
	p.got = r
	return []byte("%PDF"), nil
}

func TestCriticalityPDF_NombreDeArchivo(t *testing.T) {
	f := newFixture()
	spy := &pdfSpy{}
	uc := NewReportUseCase(unitRepo{f.s}, productRepo{f.s}, lotRepo{f.s}, configRepo{f.s}, f.audit, spy)
	uc.now = clock

	body, name, err := uc.CriticalityPDF(context.Background(), f.operator, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), body)
	assert.Equal(t, "criticidad_UNB01_20250310.pdf", name)
	require.NotNil(t, spy.got)
	assert.Len(t, spy.got.Blocked, 2)
}
