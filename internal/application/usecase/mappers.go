package usecase

import (
	"time"

	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/expiry"
)

func toUnitSummary(u *entity.BusinessUnit) *dto.UnitSummaryResponse {
	if u == nil {
		return nil
	}
	return &dto.UnitSummaryResponse{ID: u.ID, Code: u.Code, Name: u.Name}
}

func toStatusResponse(r expiry.Result) dto.StatusResponse {
	return dto.StatusResponse{
		Status:        string(r.Status),
		Label:         r.Label,
		Color:         string(r.Color),
		HexColor:      r.HexColor,
		DaysRemaining: r.DaysRemaining,
	}
}

func daysRemaining(l *entity.Lot, day time.Time) *int {
	d, ok := l.DaysUntilExpiration(day)
	if !ok {
		return nil
	}
	return &d
}

func toLotSummary(l *entity.Lot, day time.Time) *dto.LotSummaryResponse {
	if l == nil {
		return nil
	}
	return &dto.LotSummaryResponse{
		ID:             l.ID,
		LotNumber:      l.LotNumber,
		ExpirationDate: l.ExpirationDate,
		Quantity:       l.Quantity,
		DaysRemaining:  daysRemaining(l, day),
		Location:       l.Location,
	}
}

func toLotResponse(l *entity.Lot, day time.Time) *dto.LotResponse {
	if l == nil {
		return nil
	}
	return &dto.LotResponse{
		ID:              l.ID,
		ProductID:       l.ProductID,
		LotNumber:       l.LotNumber,
		ExpirationDate:  l.ExpirationDate,
		ManufactureDate: l.ManufactureDate,
		Quantity:        l.Quantity,
		StockDisplay:    l.StockDisplay,
		Location:        l.Location,
		UnitCost:        l.UnitCost,
		Supplier:        l.Supplier,
		Active:          l.Active,
		DaysRemaining:   daysRemaining(l, day),
		Expired:         l.IsExpired(day),
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

// withStock filtra lotes activos con cantidad positiva, conservando el orden FEFO.
func withStock(lots []*entity.Lot) []*entity.Lot {
	out := make([]*entity.Lot, 0, len(lots))
	for _, l := range lots {
		if l.Active && l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out
}

func totalQuantity(lots []*entity.Lot) int {
	total := 0
	for _, l := range lots {
		if l.Active {
			total += l.Quantity
		}
	}
	return total
}

// toProductResponse arma la salida del producto con su estado calculado.
func toProductResponse(p *entity.Product, lots []*entity.Lot, r expiry.Result, day time.Time) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	res := &dto.ProductResponse{
		ID:               p.ID,
		UnitID:           p.UnitID,
		Unit:             toUnitSummary(p.Unit),
		Code:             p.Code,
		Name:             p.Name,
		Category:         p.Category,
		UnitMeasure:      p.UnitMeasure,
		Description:      p.Description,
		ConversionFactor: p.ConversionFactor,
		ImageURL:         p.ImageURL,
		Active:           p.Active,
		TotalStock:       totalQuantity(lots),
		Status:           toStatusResponse(r),
		NearestLot:       toLotSummary(r.Lot, day),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for _, l := range withStock(lots) {
		res.Lots = append(res.Lots, *toLotSummary(l, day))
	}
	return res
}

func groupLots(lots []*entity.Lot) map[string][]*entity.Lot {
	out := make(map[string][]*entity.Lot)
	for _, l := range lots {
		out[l.ProductID] = append(out[l.ProductID], l)
	}
	return out
}

func productIDs(list []*entity.Product) []string {
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return ids
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
