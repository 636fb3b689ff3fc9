package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/inventory"
	"github.com/jhoicas/validade-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockUseCase consulta de stock: suma de lotes activos más entradas en tránsito.
type StockUseCase struct {
	products  repository.ProductRepository
	lots      repository.LotRepository
	movements repository.MovementRepository
	audit     *QueryLogUseCase
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	products repository.ProductRepository,
	lots repository.LotRepository,
	movements repository.MovementRepository,
	audit *QueryLogUseCase,
) *StockUseCase {
	return &StockUseCase{products: products, lots: lots, movements: movements, audit: audit}
}

// List stock por producto, ordenado por código. Registra la consulta.
func (uc *StockUseCase) List(ctx context.Context, caller Caller, in dto.StockFilter) (*dto.StockListResponse, error) {
	in.DefaultPage()
	items, err := uc.items(ctx, caller, in, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, caller, entity.QueryTypeStock, map[string]any{
		"search":  nullable(in.Search),
		"unit_id": nullable(in.UnitID),
	})
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Count: len(items)},
	}, nil
}

// Summary totales sobre todos los productos que cumplen el filtro.
func (uc *StockUseCase) Summary(ctx context.Context, caller Caller, in dto.StockFilter) (*dto.StockSummaryResponse, error) {
	items, err := uc.items(ctx, caller, in, 0, 0)
	if err != nil {
		return nil, err
	}
	sum := &dto.StockSummaryResponse{TotalProducts: len(items), StockValue: decimal.Zero}
	for _, it := range items {
		sum.TotalInStock += it.InStock
		sum.TotalInTransit += it.InTransit
		if it.InStock == 0 {
			sum.OutOfStock++
		}
		sum.StockValue = sum.StockValue.Add(it.StockValue)
	}
	sum.GrandTotal = sum.TotalInStock + sum.TotalInTransit
	return sum, nil
}

func (uc *StockUseCase) items(ctx context.Context, caller Caller, in dto.StockFilter, limit, offset int) ([]dto.StockItemResponse, error) {
	if in.UnitID != "" && !caller.canSee(in.UnitID) {
		return nil, domain.ErrForbidden
	}
	products, err := uc.products.List(ctx, repository.ProductFilter{
		UnitIDs:  caller.scope(),
		UnitID:   in.UnitID,
		Search:   strings.TrimSpace(in.Search),
		Category: in.Category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockItemResponse, 0, len(products))
	if len(products) == 0 {
		return out, nil
	}
	ids := productIDs(products)
	lots, err := uc.lots.ListActiveByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	transit, err := uc.movements.SumInboundInTransit(ctx, ids)
	if err != nil {
		return nil, err
	}
	byProduct := groupLots(lots)
	for _, p := range products {
		own := byProduct[p.ID]
		inStock := totalQuantity(own)
		val := inventory.Value(own)
		out = append(out, dto.StockItemResponse{
			ProductID:   p.ID,
			Code:        p.Code,
			Name:        p.Name,
			Unit:        toUnitSummary(p.Unit),
			UnitMeasure: p.UnitMeasure,
			Category:    p.Category,
			InStock:     inStock,
			InTransit:   transit[p.ID],
			Total:       inStock + transit[p.ID],
			StockValue:  val.Value,
			AverageCost: val.AverageCost,
		})
	}
	return out, nil
}
