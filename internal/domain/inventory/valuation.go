// Package inventory reúne la valuación del stock a partir de sus lotes.
package inventory

import (
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WeightedCost costo promedio ponderado al sumar una entrada al stock existente.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedCost(stock, cost, qty, entryCost decimal.Decimal) decimal.Decimal {
	sum := stock.Add(qty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return stock.Mul(cost).Add(qty.Mul(entryCost)).Div(sum)
}

// Valuation valor y costo medio de un conjunto de lotes.
type Valuation struct {
	Value       decimal.Decimal
	AverageCost decimal.Decimal
	// Costed unidades que tienen costo conocido.
	Costed int
}

// Value valoriza los lotes activos con stock y costo conocido; el resto no suma.
func Value(lots []*entity.Lot) Valuation {
	v := Valuation{Value: decimal.Zero, AverageCost: decimal.Zero}
	for _, l := range lots {
		if !l.Active || l.UnitCost == nil || l.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(l.Quantity))
		v.AverageCost = WeightedCost(decimal.NewFromInt(int64(v.Costed)), v.AverageCost, qty, *l.UnitCost)
		v.Value = v.Value.Add(l.UnitCost.Mul(qty))
		v.Costed += l.Quantity
	}
	return v
}
