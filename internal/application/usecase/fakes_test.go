package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

// store base en memoria compartida por los repositorios falsos.
type store struct {
	units     map[string]*entity.BusinessUnit
	products  map[string]*entity.Product
	lots      map[string]*entity.Lot
	configs   map[string]*entity.AlertConfig
	movements map[string]*entity.StockMovement
	logs      []*entity.QueryLog
	users     map[string]*entity.User
}

func newStore() *store {
	return &store{
		units:     map[string]*entity.BusinessUnit{},
		products:  map[string]*entity.Product{},
		lots:      map[string]*entity.Lot{},
		configs:   map[string]*entity.AlertConfig{},
		movements: map[string]*entity.StockMovement{},
		users:     map[string]*entity.User{},
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ── unidades ──────────────────────────────────────────────────────────────────

type unitRepo struct{ s *store }

func (r unitRepo) Create(_ context.Context, u *entity.BusinessUnit) error {
	for _, e := range r.s.units {
		if e.Code == u.Code {
			return domain.ErrDuplicate
		}
	}
	c := *u
	r.s.units[u.ID] = &c
	return nil
}

func (r unitRepo) GetByID(_ context.Context, id string) (*entity.BusinessUnit, error) {
	if u, ok := r.s.units[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r unitRepo) GetByCode(_ context.Context, code string) (*entity.BusinessUnit, error) {
	for _, u := range r.s.units {
		if u.Code == code {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r unitRepo) Update(_ context.Context, u *entity.BusinessUnit) error {
	if _, ok := r.s.units[u.ID]; !ok {
		return domain.ErrUnitNotFound
	}
	c := *u
	r.s.units[u.ID] = &c
	return nil
}

func (r unitRepo) ListActive(_ context.Context, f repository.UnitFilter) ([]*entity.BusinessUnit, error) {
	var out []*entity.BusinessUnit
	for _, u := range r.s.units {
		if !u.Active || (f.IDs != nil && !contains(f.IDs, u.ID)) {
			continue
		}
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ── productos ─────────────────────────────────────────────────────────────────

type productRepo struct{ s *store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r productRepo) GetByUnitAndCode(_ context.Context, unitID, code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.UnitID == unitID && p.Code == code {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	for lid, l := range r.s.lots {
		if l.ProductID == id {
			delete(r.s.lots, lid)
		}
	}
	return nil
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	search := strings.ToLower(f.Search)
	for _, p := range r.s.products {
		switch {
		case !p.Active,
			f.UnitIDs != nil && !contains(f.UnitIDs, p.UnitID),
			f.UnitID != "" && p.UnitID != f.UnitID,
			f.Category != "" && p.Category != f.Category,
			search != "" && !strings.Contains(strings.ToLower(p.Code), search) && !strings.Contains(strings.ToLower(p.Name), search):
			continue
		}
		c := *p
		c.Unit = r.s.units[p.UnitID]
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, nil
}

// ── lotes ─────────────────────────────────────────────────────────────────────

type lotRepo struct{ s *store }

func (r lotRepo) Create(_ context.Context, l *entity.Lot) error {
	for _, e := range r.s.lots {
		if e.ProductID == l.ProductID && e.LotNumber == l.LotNumber {
			return domain.ErrDuplicate
		}
	}
	c := *l
	r.s.lots[l.ID] = &c
	return nil
}

func (r lotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	if l, ok := r.s.lots[id]; ok {
		c := *l
		return &c, nil
	}
	return nil, nil
}

func (r lotRepo) GetByProductAndNumber(_ context.Context, productID, number string) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.ProductID == productID && l.LotNumber == number {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r lotRepo) GetByProductAndExpiration(_ context.Context, productID string, exp *time.Time) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.ProductID != productID {
			continue
		}
		if (exp == nil && l.ExpirationDate == nil) || (exp != nil && l.ExpirationDate != nil && exp.Equal(*l.ExpirationDate)) {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r lotRepo) Update(_ context.Context, l *entity.Lot) error {
	if _, ok := r.s.lots[l.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *l
	r.s.lots[l.ID] = &c
	return nil
}

func (r lotRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.lots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.lots, id)
	return nil
}

func (r lotRepo) DeleteByProduct(_ context.Context, productID string) error {
	for id, l := range r.s.lots {
		if l.ProductID == productID {
			delete(r.s.lots, id)
		}
	}
	return nil
}

func fefo(out []*entity.Lot) {
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ExpirationDate, out[j].ExpirationDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return out[i].LotNumber < out[j].LotNumber
	})
}

func (r lotRepo) ListActiveByProducts(_ context.Context, ids []string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.s.lots {
		if l.Active && contains(ids, l.ProductID) {
			c := *l
			out = append(out, &c)
		}
	}
	fefo(out)
	return out, nil
}

func (r lotRepo) List(_ context.Context, f repository.LotFilter) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.s.lots {
		p := r.s.products[l.ProductID]
		switch {
		case !l.Active,
			f.UnitIDs != nil && (p == nil || !contains(f.UnitIDs, p.UnitID)),
			f.ProductID != "" && l.ProductID != f.ProductID,
			f.ExpiredBefore != nil && (l.ExpirationDate == nil || !l.ExpirationDate.Before(*f.ExpiredBefore)),
			f.WithStock && l.Quantity <= 0:
			continue
		}
		c := *l
		out = append(out, &c)
	}
	fefo(out)
	return out, nil
}

// ── configuraciones ───────────────────────────────────────────────────────────

type configRepo struct{ s *store }

func (r configRepo) Create(_ context.Context, c *entity.AlertConfig) error {
	for _, e := range r.s.configs {
		if e.Active && c.Active && ((e.UnitID == nil && c.UnitID == nil) || (e.UnitID != nil && c.UnitID != nil && *e.UnitID == *c.UnitID)) {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.configs[c.ID] = &cp
	return nil
}

func (r configRepo) GetByID(_ context.Context, id string) (*entity.AlertConfig, error) {
	if c, ok := r.s.configs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r configRepo) GetByUnit(_ context.Context, unitID string) (*entity.AlertConfig, error) {
	for _, c := range r.s.configs {
		if c.Active && c.UnitID != nil && *c.UnitID == unitID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r configRepo) GetGlobal(_ context.Context) (*entity.AlertConfig, error) {
	for _, c := range r.s.configs {
		if c.Active && c.UnitID == nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r configRepo) Update(_ context.Context, c *entity.AlertConfig) error {
	cp := *c
	r.s.configs[c.ID] = &cp
	return nil
}

func (r configRepo) Delete(_ context.Context, id string) error {
	delete(r.s.configs, id)
	return nil
}

func (r configRepo) List(_ context.Context, unitID string) ([]*entity.AlertConfig, error) {
	var out []*entity.AlertConfig
	for _, c := range r.s.configs {
		if unitID != "" && (c.UnitID == nil || *c.UnitID != unitID) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// ── movimientos ───────────────────────────────────────────────────────────────

type movementRepo struct{ s *store }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	c := *m
	r.s.movements[m.ID] = &c
	return nil
}

func (r movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	if m, ok := r.s.movements[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

func (r movementRepo) UpdateStatus(_ context.Context, id, status string, effective *time.Time) error {
	m, ok := r.s.movements[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Status = status
	if effective != nil {
		m.EffectiveDate = effective
	}
	return nil
}

func (r movementRepo) SumInboundInTransit(_ context.Context, ids []string) (map[string]int, error) {
	out := map[string]int{}
	for _, m := range r.s.movements {
		if m.Active && m.Type == entity.MovementTypeIN && m.Status == entity.MovementStatusInTransit && contains(ids, m.ProductID) {
			out[m.ProductID] += m.Quantity
		}
	}
	return out, nil
}

// ── auditoría y usuarios ──────────────────────────────────────────────────────

type queryLogRepo struct{ s *store }

func (r queryLogRepo) Create(_ context.Context, l *entity.QueryLog) error {
	r.s.logs = append(r.s.logs, l)
	return nil
}

func (r queryLogRepo) List(_ context.Context, f repository.QueryLogFilter) ([]*entity.QueryLog, error) {
	var out []*entity.QueryLog
	for _, l := range r.s.logs {
		if f.UserID != "" && (l.UserID == nil || *l.UserID != f.UserID) {
			continue
		}
		if f.QueryType != "" && l.QueryType != f.QueryType {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type userRepo struct{ s *store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r userRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.s.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (r userRepo) LinkUnit(_ context.Context, l entity.UserUnit) error {
	u, ok := r.s.users[l.UserID]
	if !ok {
		return domain.ErrNotFound
	}
	unit := r.s.units[l.UnitID]
	l.UnitCode, l.UnitName = unit.Code, unit.Name
	for i, e := range u.Units {
		if e.UnitID == l.UnitID {
			u.Units[i] = l
			return nil
		}
	}
	u.Units = append(u.Units, l)
	return nil
}
