package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/validade-api/internal/domain/entity"
)

const (
	defaultProductName = "Sin descripción"
	defaultUnitMeasure = "UN"
)

// dailyStockRow crea o actualiza el producto y sobrescribe su lote BASE (sin vencimiento).
// Reimportar el mismo archivo deja el mismo estado final.
func dailyStockRow(unit *entity.BusinessUnit) rowFunc {
	return func(ctx context.Context, r Repos, line int, rec record) (change, error) {
		var c change
		code := rec.get(fieldCode)
		name := rec.get(fieldName)
		if isNull(name) {
			name = defaultProductName
		}
		measure := strings.ToUpper(rec.get(fieldUnitMeasure))
		if isNull(measure) {
			measure = defaultUnitMeasure
		}
		factor := parseFactor(rec.get(fieldConversionFactor))
		qty := parseQuantity(rec.get(fieldQuantity))
		display := rec.get(fieldStockDisplay)
		if isNull(display) {
			display = ""
		}
		now := time.Now()

		p, err := r.Products.GetByUnitAndCode(ctx, unit.ID, code)
		if err != nil {
			return c, err
		}
		if p == nil {
			p = &entity.Product{
				ID:               uuid.New().String(),
				UnitID:           unit.ID,
				Code:             code,
				Name:             name,
				UnitMeasure:      measure,
				ConversionFactor: factor,
				Active:           true,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := r.Products.Create(ctx, p); err != nil {
				return c, err
			}
			c.created++
		} else {
			p.Name = name
			p.UnitMeasure = measure
			p.ConversionFactor = factor
			p.UpdatedAt = now
			if err := r.Products.Update(ctx, p); err != nil {
				return c, err
			}
			c.updated++
		}

		lot, err := r.Lots.GetByProductAndNumber(ctx, p.ID, entity.BaseLotNumber)
		if err != nil {
			return c, err
		}
		if lot == nil {
			lot = &entity.Lot{
				ID:           uuid.New().String(),
				ProductID:    p.ID,
				LotNumber:    entity.BaseLotNumber,
				Quantity:     qty,
				StockDisplay: display,
				Active:       true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			return c, r.Lots.Create(ctx, lot)
		}
		lot.Quantity = qty
		lot.StockDisplay = display
		lot.UpdatedAt = now
		return c, r.Lots.Update(ctx, lot)
	}
}

// countsRow concilia un conteo físico: el producto debe existir; el lote se identifica por
// la fecha de vencimiento y su cantidad se sobrescribe con el total contado.
func countsRow(unit *entity.BusinessUnit) rowFunc {
	return func(ctx context.Context, r Repos, line int, rec record) (change, error) {
		var c change
		code := rec.get(fieldCode)

		p, err := r.Products.GetByUnitAndCode(ctx, unit.ID, code)
		if err != nil {
			return c, err
		}
		if p == nil || !p.Active {
			c.warning = fmt.Sprintf("fila %d: producto '%s' no encontrado en la unidad", line, code)
			return c, nil
		}

		exp := parseDate(rec.get(fieldExpiration))
		if exp == nil {
			c.warning = fmt.Sprintf("fila %d: fecha de vencimiento inválida para el producto '%s'", line, code)
			return c, nil
		}

		total := parseQuantity(rec.get(fieldBoxes))*p.ConversionFactor + parseQuantity(rec.get(fieldUnits))
		number := "VAL_" + exp.Format("20060102")
		now := time.Now()

		lot, err := r.Lots.GetByProductAndExpiration(ctx, p.ID, exp)
		if err != nil {
			return c, err
		}
		if lot == nil {
			// el lote pudo conservar su número tras editar la fecha a mano
			if lot, err = r.Lots.GetByProductAndNumber(ctx, p.ID, number); err != nil {
				return c, err
			}
		}
		if lot != nil {
			lot.Quantity = total
			lot.LotNumber = number
			lot.ExpirationDate = exp
			lot.UpdatedAt = now
			if err := r.Lots.Update(ctx, lot); err != nil {
				return c, err
			}
			c.updated++
			return c, nil
		}

		lot = &entity.Lot{
			ID:             uuid.New().String(),
			ProductID:      p.ID,
			LotNumber:      number,
			ExpirationDate: exp,
			Quantity:       total,
			Active:         true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.Lots.Create(ctx, lot); err != nil {
			return c, err
		}
		c.created++
		return c, nil
	}
}

// lotsRun estado de una carga multi-unidad: caché de unidades y productos ya vistos.
type lotsRun struct {
	started time.Time
	purge   bool
	res     *Result
	units   map[string]*entity.BusinessUnit
	seen    map[string]bool
}

func newLotsRun(started time.Time, purge bool, res *Result) *lotsRun {
	return &lotsRun{
		started: started,
		purge:   purge,
		res:     res,
		units:   make(map[string]*entity.BusinessUnit),
		seen:    make(map[string]bool),
	}
}

func (l *lotsRun) unit(ctx context.Context, r Repos, code string) (*entity.BusinessUnit, error) {
	if u, ok := l.units[code]; ok {
		return u, nil
	}
	u, err := r.Units.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if u != nil && !u.Active {
		u = nil
	}
	l.units[code] = u
	return u, nil
}

func (l *lotsRun) row(ctx context.Context, r Repos, line int, rec record) (change, error) {
	var c change
	unitCode := rec.get(fieldUnitCode)
	code := rec.get(fieldCode)
	name := rec.get(fieldName)
	number := rec.get(fieldLotNumber)
	expRaw := rec.get(fieldExpiration)

	switch {
	case unitCode == "":
		return c, errors.New("COD_UNB vacío")
	case code == "":
		return c, errors.New("SKU vacío")
	case name == "":
		return c, errors.New("DESCRICAO vacía")
	case expRaw == "":
		return c, errors.New("VALIDADE vacía")
	}

	unit, err := l.unit(ctx, r, unitCode)
	if err != nil {
		return c, err
	}
	if unit == nil {
		l.res.unknownUnit(unitCode)
		return c, fmt.Errorf("unidad no encontrada: %s", unitCode)
	}

	exp := parseDate(expRaw)
	if exp == nil {
		return c, fmt.Errorf("fecha de vencimiento inválida: %s", expRaw)
	}
	qty, err := parseStrictQuantity(rec.get(fieldQuantity))
	if err != nil {
		return c, err
	}
	if number == "" {
		number = "IMP_" + l.started.Format("20060102_150405")
	}
	now := time.Now()

	key := unit.ID + "|" + code
	first := !l.seen[key]

	p, err := r.Products.GetByUnitAndCode(ctx, unit.ID, code)
	if err != nil {
		return c, err
	}
	switch {
	case p == nil:
		p = &entity.Product{
			ID:               uuid.New().String(),
			UnitID:           unit.ID,
			Code:             code,
			Name:             name,
			UnitMeasure:      defaultUnitMeasure,
			ConversionFactor: 1,
			Active:           true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := r.Products.Create(ctx, p); err != nil {
			return c, err
		}
		c.created++
	case first:
		p.Name = name
		p.Active = true
		p.UpdatedAt = now
		if err := r.Products.Update(ctx, p); err != nil {
			return c, err
		}
		c.updated++
	}

	if first && l.purge {
		if err := r.Lots.DeleteByProduct(ctx, p.ID); err != nil {
			return c, err
		}
	}

	lot, err := r.Lots.GetByProductAndNumber(ctx, p.ID, number)
	if err != nil {
		return c, err
	}
	if lot != nil {
		lot.ExpirationDate = exp
		lot.Quantity = qty
		lot.Active = true
		lot.UpdatedAt = now
		if err := r.Lots.Update(ctx, lot); err != nil {
			return c, err
		}
		c.lotsUpdated++
	} else {
		lot = &entity.Lot{
			ID:             uuid.New().String(),
			ProductID:      p.ID,
			LotNumber:      number,
			ExpirationDate: exp,
			Quantity:       qty,
			Active:         true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.Lots.Create(ctx, lot); err != nil {
			return c, err
		}
		c.lotsCreated++
	}

	l.seen[key] = true
	return c, nil
}
