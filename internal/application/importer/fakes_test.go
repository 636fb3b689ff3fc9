package importer

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

// memStore base en memoria con copias por valor para poder deshacer savepoints.
type memStore struct {
	units    map[string]entity.BusinessUnit
	products map[string]entity.Product
	lots     map[string]entity.Lot

	failLotQty int // Create/Update de lote con esta cantidad falla
}

func newMemStore() *memStore {
	return &memStore{
		units:      map[string]entity.BusinessUnit{},
		products:   map[string]entity.Product{},
		lots:       map[string]entity.Lot{},
		failLotQty: -1,
	}
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	c.failLotQty = s.failLotQty
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	s.units, s.products, s.lots = from.units, from.products, from.lots
}

func (s *memStore) repos() Repos {
	return Repos{Units: unitRepo{s}, Products: productRepo{s}, Lots: lotRepo{s}}
}

func (s *memStore) addUnit(id, code string) {
	s.units[id] = entity.BusinessUnit{ID: id, Code: code, Name: code, Active: true}
}

func (s *memStore) addProduct(unitID, code string, factor int) *entity.Product {
	p := entity.Product{ID: "p-" + unitID + "-" + code, UnitID: unitID, Code: code, Name: code, ConversionFactor: factor, Active: true}
	s.products[p.ID] = p
	return &p
}

func (s *memStore) product(unitID, code string) *entity.Product {
	for _, p := range s.products {
		if p.UnitID == unitID && p.Code == code {
			return &p
		}
	}
	return nil
}

func (s *memStore) lotsOf(productID string) []entity.Lot {
	var out []entity.Lot
	for _, l := range s.lots {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out
}

// memTx implementa Tx y TxRunner sobre memStore.
type memTx struct {
	store     *memStore
	commits   int
	commitErr error // si no es nil, el commit falla y se deshace todo
}

func (t *memTx) RunImport(ctx context.Context, dryRun bool, fn func(Tx) error) error {
	before := t.store.snapshot()
	if err := fn(t); err != nil {
		t.store.restore(before)
		return err
	}
	if dryRun {
		t.store.restore(before)
		return nil
	}
	if t.commitErr != nil {
		t.store.restore(before)
		return t.commitErr
	}
	t.commits++
	return nil
}

func (t *memTx) Repos() Repos { return t.store.repos() }

func (t *memTx) Savepoint(ctx context.Context, fn func(Repos) error) error {
	before := t.store.snapshot()
	if err := fn(t.store.repos()); err != nil {
		t.store.restore(before)
		return err
	}
	return nil
}

type unitRepo struct{ s *memStore }

var _ repository.UnitRepository = unitRepo{}

func (r unitRepo) Create(_ context.Context, u *entity.BusinessUnit) error {
	r.s.units[u.ID] = *u
	return nil
}

func (r unitRepo) GetByID(_ context.Context, id string) (*entity.BusinessUnit, error) {
	if u, ok := r.s.units[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r unitRepo) GetByCode(_ context.Context, code string) (*entity.BusinessUnit, error) {
	for _, u := range r.s.units {
		if u.Code == code {
			return &u, nil
		}
	}
	return nil, nil
}

func (r unitRepo) Update(_ context.Context, u *entity.BusinessUnit) error {
	r.s.units[u.ID] = *u
	return nil
}

func (r unitRepo) ListActive(context.Context, repository.UnitFilter) ([]*entity.BusinessUnit, error) {
	return nil, errors.New("no implementado")
}

type productRepo struct{ s *memStore }

var _ repository.ProductRepository = productRepo{}

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	if r.s.product(p.UnitID, p.Code) != nil {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r productRepo) GetByUnitAndCode(_ context.Context, unitID, code string) (*entity.Product, error) {
	return r.s.product(unitID, code), nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	delete(r.s.products, id)
	return nil
}

func (r productRepo) List(context.Context, repository.ProductFilter) ([]*entity.Product, error) {
	return nil, errors.New("no implementado")
}

type lotRepo struct{ s *memStore }

var _ repository.LotRepository = lotRepo{}

func (r lotRepo) check(l *entity.Lot) error {
	if l.Quantity == r.s.failLotQty {
		return errors.New("violación de constraint simulada")
	}
	for _, o := range r.s.lots {
		if o.ID != l.ID && o.ProductID == l.ProductID && o.LotNumber == l.LotNumber {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r lotRepo) Create(_ context.Context, l *entity.Lot) error {
	if err := r.check(l); err != nil {
		return err
	}
	r.s.lots[l.ID] = *l
	return nil
}

func (r lotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	if l, ok := r.s.lots[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r lotRepo) GetByProductAndNumber(_ context.Context, productID, number string) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.ProductID == productID && l.LotNumber == number {
			return &l, nil
		}
	}
	return nil, nil
}

func (r lotRepo) GetByProductAndExpiration(_ context.Context, productID string, exp *time.Time) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.ProductID != productID {
			continue
		}
		if (exp == nil && l.ExpirationDate == nil) || (exp != nil && l.ExpirationDate != nil && l.ExpirationDate.Equal(*exp)) {
			return &l, nil
		}
	}
	return nil, nil
}

func (r lotRepo) Update(_ context.Context, l *entity.Lot) error {
	if err := r.check(l); err != nil {
		return err
	}
	r.s.lots[l.ID] = *l
	return nil
}

func (r lotRepo) Delete(_ context.Context, id string) error {
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

func (r lotRepo) ListActiveByProducts(context.Context, []string) ([]*entity.Lot, error) {
	return nil, errors.New("no implementado")
}

func (r lotRepo) List(context.Context, repository.LotFilter) ([]*entity.Lot, error) {
	return nil, errors.New("no implementado")
}

type recorderSpy struct {
	kinds []string
}

func (r *recorderSpy) ObserveImport(kind string, _ *Result, _ time.Duration) {
	r.kinds = append(r.kinds, kind)
}
