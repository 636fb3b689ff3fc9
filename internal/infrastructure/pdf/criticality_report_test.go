package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func TestGenerateCriticalityPDF(t *testing.T) {
	days := 3
	exp := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	report := &dto.CriticalityReportResponse{
		Unit:       &dto.UnitSummaryResponse{ID: "u1", Code: "UNB01", Name: "Centro"},
		Thresholds: dto.ThresholdsResponse{CriticalDays: 30, PreBlockDays: 45},
		Summary:    dto.CriticalitySummary{TotalBlocked: 1},
		Blocked: []dto.CriticalityItem{{
			Code: "7891000100103", Name: "Leche entera 1L", LotNumber: "L-01",
			ExpirationDate: &exp, Quantity: 12,
			Status: dto.StatusResponse{Status: "CRITICAL", Label: "Crítico", DaysRemaining: &days},
		}},
		GeneratedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	out, err := NewCriticalityPDFGenerator().GenerateCriticalityPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateCriticalityPDF_Nil(t *testing.T) {
	_, err := NewCriticalityPDFGenerator().GenerateCriticalityPDF(context.Background(), nil)
	assert.Error(t, err)
}

func TestHexColor(t *testing.T) {
	c, err := hexColor("#F44336")
	require.NoError(t, err)
	assert.Equal(t, &props.Color{Red: 244, Green: 67, Blue: 54}, c)

	_, err = hexColor("#FFF")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "añ…", truncate("añbcd", 3))
}
