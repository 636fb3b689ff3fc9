package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/validade-api/internal/domain/entity"
)

var fixedNow = time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func day(offset int) *time.Time {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &d
}

type fixture struct {
	s        *store
	admin    Caller
	operator Caller
	audit    *QueryLogUseCase
}

// newFixture dos unidades: UNB01 con umbrales propios 10/20 y UNB02 con la global 30/45.
// El operador solo tiene acceso a UNB01.
func newFixture() *fixture {
	s := newStore()
	s.units["u1"] = &entity.BusinessUnit{ID: "u1", Code: "UNB01", Name: "Centro", Active: true}
	s.units["u2"] = &entity.BusinessUnit{ID: "u2", Code: "UNB02", Name: "Norte", Active: true}
	s.units["u3"] = &entity.BusinessUnit{ID: "u3", Code: "UNB03", Name: "Cerrada", Active: false}

	u1 := "u1"
	s.configs["cg"] = &entity.AlertConfig{ID: "cg", CriticalDays: 30, PreBlockDays: 45, Active: true}
	s.configs["c1"] = &entity.AlertConfig{ID: "c1", UnitID: &u1, CriticalDays: 10, PreBlockDays: 20, Active: true}

	addProduct := func(id, unit, code string) {
		s.products[id] = &entity.Product{ID: id, UnitID: unit, Code: code, Name: "Producto " + code, UnitMeasure: "UN", ConversionFactor: 1, Active: true}
	}
	addLot := func(id, product, number string, exp *time.Time, qty int) *entity.Lot {
		l := &entity.Lot{ID: id, ProductID: product, LotNumber: number, ExpirationDate: exp, Quantity: qty, Active: true}
		s.lots[id] = l
		return l
	}
	addProduct("p1", "u1", "P1")
	addLot("l1", "p1", "L1", day(5), 10)
	addLot("l1b", "p1", "L1B", day(60), 3)
	addProduct("p2", "u1", "P2")
	addLot("l2", "p2", "L2", day(15), 8)
	addProduct("p3", "u1", "P3")
	addLot("l3", "p3", "L3", day(-2), 6)
	addProduct("p4", "u1", "P4")
	addLot("l4", "p4", entity.BaseLotNumber, nil, 50)
	addProduct("p5", "u1", "P5")
	cost := decimal.RequireFromString("2.50")
	addLot("l5", "p5", "L5", day(100), 4).UnitCost = &cost
	addProduct("q1", "u2", "Q1")
	addLot("lq", "q1", "LQ", day(15), 9)

	s.users["admin"] = &entity.User{ID: "admin", Username: "admin", IsSuperuser: true, Active: true}
	s.users["op"] = &entity.User{ID: "op", Username: "op", Active: true,
		Units: []entity.UserUnit{{UserID: "op", UnitID: "u1", UnitCode: "UNB01", Role: entity.UnitRoleOperator}}}

	audit := NewQueryLogUseCase(queryLogRepo{s}, nil)
	audit.now = clock
	return &fixture{
		s:        s,
		admin:    Caller{User: s.users["admin"], IP: "10.0.0.1"},
		operator: Caller{User: s.users["op"], IP: "10.0.0.2"},
		audit:    audit,
	}
}

func (f *fixture) products() *ProductUseCase {
	uc := NewProductUseCase(productRepo{f.s}, unitRepo{f.s}, lotRepo{f.s}, configRepo{f.s}, f.audit)
	uc.now = clock
	return uc
}

func (f *fixture) reports() *ReportUseCase {
	uc := NewReportUseCase(unitRepo{f.s}, productRepo{f.s}, lotRepo{f.s}, configRepo{f.s}, f.audit, nil)
	uc.now = clock
	return uc
}

func (f *fixture) stock() *StockUseCase {
	return NewStockUseCase(productRepo{f.s}, lotRepo{f.s}, movementRepo{f.s}, f.audit)
}

func (f *fixture) lotsUC() *LotUseCase {
	uc := NewLotUseCase(lotRepo{f.s}, productRepo{f.s})
	uc.now = clock
	return uc
}

func (f *fixture) movements() *MovementUseCase {
	uc := NewMovementUseCase(movementRepo{f.s}, productRepo{f.s}, lotRepo{f.s}, unitRepo{f.s})
	uc.now = clock
	return uc
}

func (f *fixture) logsOf(queryType string) []*entity.QueryLog {
	var out []*entity.QueryLog
	for _, l := range f.s.logs {
		if l.QueryType == queryType {
			out = append(out, l)
		}
	}
	return out
}
