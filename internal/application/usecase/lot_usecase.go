package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

// LotUseCase CRUD de lotes. La visibilidad se hereda de la unidad del producto.
type LotUseCase struct {
	repo     repository.LotRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(repo repository.LotRepository, products repository.ProductRepository) *LotUseCase {
	return &LotUseCase{repo: repo, products: products, now: time.Now}
}

func (uc *LotUseCase) product(ctx context.Context, caller Caller, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !caller.canSee(p.UnitID) {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (uc *LotUseCase) find(ctx context.Context, caller Caller, id string) (*entity.Lot, error) {
	lot, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.product(ctx, caller, lot.ProductID); err != nil {
		return nil, err
	}
	return lot, nil
}

// Create registra un lote con fecha de vencimiento.
// Número de lote repetido en el mismo producto devuelve ErrDuplicate.
func (uc *LotUseCase) Create(ctx context.Context, caller Caller, in dto.CreateLotRequest) (*dto.LotResponse, error) {
	p, err := uc.product(ctx, caller, in.ProductID)
	if err != nil {
		return nil, err
	}
	exp, err := parseDay(in.ExpirationDate)
	if err != nil || exp == nil {
		return nil, domain.ErrInvalidInput
	}
	mfg, err := parseDay(in.ManufactureDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if mfg != nil && mfg.After(*exp) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	lot := &entity.Lot{
		ID:              uuid.New().String(),
		ProductID:       p.ID,
		LotNumber:       strings.TrimSpace(in.LotNumber),
		ExpirationDate:  exp,
		ManufactureDate: mfg,
		Quantity:        in.Quantity,
		Location:        in.Location,
		UnitCost:        in.UnitCost,
		Supplier:        in.Supplier,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, lot); err != nil {
		return nil, err
	}
	return toLotResponse(lot, today(uc.now)), nil
}

// GetByID devuelve un lote visible.
func (uc *LotUseCase) GetByID(ctx context.Context, caller Caller, id string) (*dto.LotResponse, error) {
	lot, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toLotResponse(lot, today(uc.now)), nil
}

// Update modificación parcial del lote.
func (uc *LotUseCase) Update(ctx context.Context, caller Caller, id string, in dto.UpdateLotRequest) (*dto.LotResponse, error) {
	lot, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.LotNumber != nil {
		lot.LotNumber = strings.TrimSpace(*in.LotNumber)
	}
	if in.ExpirationDate != nil {
		exp, err := parseDay(*in.ExpirationDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		lot.ExpirationDate = exp
	}
	if in.ManufactureDate != nil {
		mfg, err := parseDay(*in.ManufactureDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		lot.ManufactureDate = mfg
	}
	if lot.ManufactureDate != nil && lot.ExpirationDate != nil && lot.ManufactureDate.After(*lot.ExpirationDate) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		lot.Quantity = *in.Quantity
	}
	if in.Location != nil {
		lot.Location = *in.Location
	}
	if in.UnitCost != nil {
		lot.UnitCost = in.UnitCost
	}
	if in.Supplier != nil {
		lot.Supplier = *in.Supplier
	}
	if in.Active != nil {
		lot.Active = *in.Active
	}
	lot.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, lot); err != nil {
		return nil, err
	}
	return toLotResponse(lot, today(uc.now)), nil
}

// Delete elimina un lote.
func (uc *LotUseCase) Delete(ctx context.Context, caller Caller, id string) error {
	if _, err := uc.find(ctx, caller, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List lista lotes activos de las unidades visibles en orden FEFO.
func (uc *LotUseCase) List(ctx context.Context, caller Caller, in dto.LotFilter) ([]dto.LotResponse, error) {
	in.DefaultPage()
	day := today(uc.now)
	f := repository.LotFilter{
		UnitIDs:   caller.scope(),
		ProductID: in.ProductID,
		WithStock: in.WithStock,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.Expired {
		f.ExpiredBefore = &day
	}
	lots, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, *toLotResponse(l, day))
	}
	return out, nil
}
