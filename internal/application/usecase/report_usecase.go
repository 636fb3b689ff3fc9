package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/expiry"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

// CriticalityPDFGenerator genera la versión imprimible del reporte de criticidad.
type CriticalityPDFGenerator interface {
	GenerateCriticalityPDF(ctx context.Context, report *dto.CriticalityReportResponse) ([]byte, error)
}

// ReportUseCase reporte de criticidad: productos bloqueados (vencidos y críticos) y en pre-bloqueo.
type ReportUseCase struct {
	units     repository.UnitRepository
	products  repository.ProductRepository
	lots      repository.LotRepository
	configs   repository.AlertConfigRepository
	audit     *QueryLogUseCase
	generator CriticalityPDFGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso. generator puede ser nil si no se exporta PDF.
func NewReportUseCase(
	units repository.UnitRepository,
	products repository.ProductRepository,
	lots repository.LotRepository,
	configs repository.AlertConfigRepository,
	audit *QueryLogUseCase,
	generator CriticalityPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		units:     units,
		products:  products,
		lots:      lots,
		configs:   configs,
		audit:     audit,
		generator: generator,
		now:       time.Now,
	}
}

// Criticality arma el reporte para una unidad (por ID o código) o, sin unidad, para todas las visibles.
//
// Retorna:
//   - domain.ErrUnitNotFound si la unidad indicada no existe o está inactiva.
//   - domain.ErrForbidden    si quien invoca no tiene acceso a la unidad.
func (uc *ReportUseCase) Criticality(ctx context.Context, caller Caller, unitID, unitCode string) (*dto.CriticalityReportResponse, error) {
	unit, err := uc.resolveUnit(ctx, unitID, unitCode)
	if err != nil {
		return nil, err
	}
	if unit != nil {
		if err := caller.RequireUnit(unit.ID); err != nil {
			return nil, err
		}
	}

	cache := newThresholdCache(uc.configs)
	scopeUnit := ""
	if unit != nil {
		scopeUnit = unit.ID
	}
	t, err := cache.forUnit(ctx, scopeUnit)
	if err != nil {
		return nil, err
	}

	f := repository.ProductFilter{UnitIDs: caller.scope()}
	if unit != nil {
		f = repository.ProductFilter{UnitID: unit.ID}
	}
	products, err := uc.products.List(ctx, f)
	if err != nil {
		return nil, err
	}

	report := &dto.CriticalityReportResponse{
		Unit:        toUnitSummary(unit),
		Thresholds:  dto.ThresholdsResponse{CriticalDays: t.CriticalDays, PreBlockDays: t.PreBlockDays},
		Blocked:     []dto.CriticalityItem{},
		PreBlock:    []dto.CriticalityItem{},
		GeneratedAt: uc.now(),
	}
	if len(products) > 0 {
		lots, err := uc.lots.ListActiveByProducts(ctx, productIDs(products))
		if err != nil {
			return nil, err
		}
		byProduct := groupLots(lots)
		day := today(uc.now)
		for _, p := range products {
			own := byProduct[p.ID]
			r := expiry.Classify(own, t, day)
			switch {
			case r.Status.Blocked():
				report.Blocked = append(report.Blocked, toCriticalityItem(p, own, r))
			case r.Status == expiry.StatusPreBlock:
				report.PreBlock = append(report.PreBlock, toCriticalityItem(p, own, r))
			}
		}
	}
	sortByUrgency(report.Blocked)
	sortByUrgency(report.PreBlock)
	report.Summary = dto.CriticalitySummary{
		TotalBlocked:  len(report.Blocked),
		TotalPreBlock: len(report.PreBlock),
	}

	uc.audit.Record(ctx, caller, entity.QueryTypeCriticality, map[string]any{
		"unit_id":   nullable(scopeUnit),
		"unit_code": nullable(unitCode),
	})
	return report, nil
}

// CriticalityPDF genera el reporte y lo renderiza. Devuelve bytes y nombre de archivo sugerido.
func (uc *ReportUseCase) CriticalityPDF(ctx context.Context, caller Caller, unitID, unitCode string) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("reporte: generador PDF no configurado")
	}
	report, err := uc.Criticality(ctx, caller, unitID, unitCode)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateCriticalityPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	name := "criticidad"
	if report.Unit != nil {
		name += "_" + report.Unit.Code
	}
	return pdf, name + "_" + report.GeneratedAt.Format("20060102") + ".pdf", nil
}

func (uc *ReportUseCase) resolveUnit(ctx context.Context, unitID, unitCode string) (*entity.BusinessUnit, error) {
	var (
		unit *entity.BusinessUnit
		err  error
	)
	switch {
	case unitID != "":
		unit, err = uc.units.GetByID(ctx, unitID)
	case unitCode != "":
		unit, err = uc.units.GetByCode(ctx, unitCode)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if unit == nil || !unit.Active {
		return nil, domain.ErrUnitNotFound
	}
	return unit, nil
}

func toCriticalityItem(p *entity.Product, lots []*entity.Lot, r expiry.Result) dto.CriticalityItem {
	item := dto.CriticalityItem{
		ProductID:  p.ID,
		Code:       p.Code,
		Name:       p.Name,
		Category:   p.Category,
		Status:     toStatusResponse(r),
		TotalStock: totalQuantity(lots),
	}
	if p.Unit != nil {
		item.UnitCode = p.Unit.Code
	}
	if r.Lot != nil {
		item.LotNumber = r.Lot.LotNumber
		item.ExpirationDate = r.Lot.ExpirationDate
		item.Quantity = r.Lot.Quantity
	}
	return item
}

// sortByUrgency menos días restantes primero; empate por código.
func sortByUrgency(items []dto.CriticalityItem) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].Status.DaysRemaining, items[j].Status.DaysRemaining
		if di != nil && dj != nil && *di != *dj {
			return *di < *dj
		}
		return items[i].Code < items[j].Code
	})
}
