package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/expiry"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

// ProductUseCase casos de uso de productos. Las lecturas incluyen el estado de vencimiento.
type ProductUseCase struct {
	repo    repository.ProductRepository
	units   repository.UnitRepository
	lots    repository.LotRepository
	configs repository.AlertConfigRepository
	audit   *QueryLogUseCase
	now     func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	units repository.UnitRepository,
	lots repository.LotRepository,
	configs repository.AlertConfigRepository,
	audit *QueryLogUseCase,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, units: units, lots: lots, configs: configs, audit: audit, now: time.Now}
}

// Create crea un producto en una unidad visible para quien invoca.
func (uc *ProductUseCase) Create(ctx context.Context, caller Caller, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	unit, err := uc.units.GetByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil || !unit.Active {
		return nil, domain.ErrUnitNotFound
	}
	if err := caller.RequireUnit(unit.ID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByUnitAndCode(ctx, unit.ID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	measure := strings.ToUpper(in.UnitMeasure)
	if measure == "" {
		measure = "UN"
	}
	factor := in.ConversionFactor
	if factor < 1 {
		factor = 1
	}
	now := uc.now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		UnitID:           unit.ID,
		Code:             strings.TrimSpace(in.Code),
		Name:             strings.TrimSpace(in.Name),
		Category:         in.Category,
		UnitMeasure:      measure,
		Description:      in.Description,
		ConversionFactor: factor,
		ImageURL:         in.ImageURL,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
		Unit:             unit,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	day := today(uc.now)
	return toProductResponse(product, nil, expiry.Classify(nil, expiry.DefaultThresholds(), day), day), nil
}

// find carga un producto visible; los de otras unidades se tratan como inexistentes.
func (uc *ProductUseCase) find(ctx context.Context, caller Caller, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !caller.canSee(product.UnitID) {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// GetByID devuelve un producto con su estado y registra la consulta de validez.
func (uc *ProductUseCase) GetByID(ctx context.Context, caller Caller, id string) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	list, err := uc.annotate(ctx, []*entity.Product{product})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, caller, entity.QueryTypeValidity, map[string]any{
		"product_id": product.ID,
		"code":       product.Code,
	})
	return &list[0], nil
}

// Update modifica datos maestros del producto.
func (uc *ProductUseCase) Update(ctx context.Context, caller Caller, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		product.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = strings.ToUpper(*in.UnitMeasure)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.ConversionFactor != nil {
		product.ConversionFactor = *in.ConversionFactor
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	list, err := uc.annotate(ctx, []*entity.Product{product})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Delete elimina el producto y sus lotes.
func (uc *ProductUseCase) Delete(ctx context.Context, caller Caller, id string) error {
	if _, err := uc.find(ctx, caller, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List lista productos activos visibles con su estado.
func (uc *ProductUseCase) List(ctx context.Context, caller Caller, in dto.ProductFilter) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	if in.UnitID != "" && !caller.canSee(in.UnitID) {
		return nil, domain.ErrForbidden
	}
	products, err := uc.repo.List(ctx, repository.ProductFilter{
		UnitIDs:  caller.scope(),
		UnitID:   in.UnitID,
		Search:   strings.TrimSpace(in.Search),
		Category: in.Category,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items, err := uc.annotate(ctx, products)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Count: len(items)},
	}, nil
}

// Validity búsqueda de validez por código o nombre. search es obligatorio.
func (uc *ProductUseCase) Validity(ctx context.Context, caller Caller, in dto.ProductFilter) (*dto.ProductListResponse, error) {
	in.Search = strings.TrimSpace(in.Search)
	if in.Search == "" {
		return nil, domain.ErrInvalidInput
	}
	res, err := uc.List(ctx, caller, in)
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, caller, entity.QueryTypeValidity, map[string]any{
		"search":  in.Search,
		"unit_id": nullable(in.UnitID),
	})
	return res, nil
}

// Lots lotes activos con stock del producto en orden FEFO.
func (uc *ProductUseCase) Lots(ctx context.Context, caller Caller, id string) ([]dto.LotResponse, error) {
	product, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	lots, err := uc.lots.ListActiveByProducts(ctx, []string{product.ID})
	if err != nil {
		return nil, err
	}
	day := today(uc.now)
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range withStock(lots) {
		out = append(out, *toLotResponse(l, day))
	}
	return out, nil
}

// annotate carga los lotes de los productos y calcula el estado con los umbrales de cada unidad.
func (uc *ProductUseCase) annotate(ctx context.Context, products []*entity.Product) ([]dto.ProductResponse, error) {
	out := make([]dto.ProductResponse, 0, len(products))
	if len(products) == 0 {
		return out, nil
	}
	lots, err := uc.lots.ListActiveByProducts(ctx, productIDs(products))
	if err != nil {
		return nil, err
	}
	byProduct := groupLots(lots)
	cache := newThresholdCache(uc.configs)
	day := today(uc.now)
	for _, p := range products {
		t, err := cache.forUnit(ctx, p.UnitID)
		if err != nil {
			return nil, err
		}
		own := byProduct[p.ID]
		out = append(out, *toProductResponse(p, own, expiry.Classify(own, t, day), day))
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
