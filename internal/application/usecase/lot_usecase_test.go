package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
)

func TestLotList_Filtros(t *testing.T) {
	f := newFixture()
	uc := f.lotsUC()

	expired, err := uc.List(context.Background(), f.operator, dto.LotFilter{Expired: true})
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "L3", expired[0].LotNumber)
	assert.True(t, expired[0].Expired)
	require.NotNil(t, expired[0].DaysRemaining)
	assert.Equal(t, -2, *expired[0].DaysRemaining)

	all, err := uc.List(context.Background(), f.operator, dto.LotFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 6, "lotes de UNB01 solamente")
	assert.Equal(t, "L3", all[0].LotNumber, "orden FEFO")
	assert.Equal(t, "BASE", all[len(all)-1].LotNumber, "sin fecha al final")
}

func TestLotCreate_Validaciones(t *testing.T) {
	f := newFixture()
	uc := f.lotsUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, f.operator, dto.CreateLotRequest{ProductID: "p1", LotNumber: "X", ExpirationDate: "2025-04-01", ManufactureDate: "2025-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "fabricación posterior al vencimiento")

	_, err = uc.Create(ctx, f.operator, dto.CreateLotRequest{ProductID: "q1", LotNumber: "X", ExpirationDate: "2025-04-01"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, f.operator, dto.CreateLotRequest{ProductID: "p1", LotNumber: "L1", ExpirationDate: "2025-04-01"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	res, err := uc.Create(ctx, f.operator, dto.CreateLotRequest{ProductID: "p1", LotNumber: "L9", ExpirationDate: "2025-03-20", Quantity: 4})
	require.NoError(t, err)
	require.NotNil(t, res.DaysRemaining)
	assert.Equal(t, 10, *res.DaysRemaining)
	assert.True(t, res.Active)
}

func TestLotUpdate_Parcial(t *testing.T) {
	f := newFixture()
	uc := f.lotsUC()
	qty := 0
	res, err := uc.Update(context.Background(), f.operator, "l1", dto.UpdateLotRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Quantity)
	assert.Equal(t, "L1", res.LotNumber)
	assert.Equal(t, 0, f.s.lots["l1"].Quantity)
}
