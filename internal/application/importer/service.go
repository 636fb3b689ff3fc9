// Package importer carga planillas de stock (CSV o Excel) fila por fila dentro de una
// transacción, acumulando errores y advertencias sin abortar el lote.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
	"github.com/jhoicas/validade-api/pkg/logger"
)

// Options parámetros de lectura y ejecución.
type Options struct {
	Separator string // CSV: separador forzado; vacío = detectar
	Encoding  string // CSV: encoding forzado; vacío = detectar
	Sheet     string // Excel: hoja; vacío = hoja activa
	DryRun    bool   // procesa todo y deshace la transacción
	PurgeLots bool   // lots: borra los lotes previos del producto la primera vez que aparece
}

// Repos repositorios atados a la transacción de importación.
type Repos struct {
	Units    repository.UnitRepository
	Products repository.ProductRepository
	Lots     repository.LotRepository
}

// Tx transacción de importación en curso.
type Tx interface {
	Repos() Repos
	// Savepoint ejecuta fn aislada: si falla solo se deshacen sus escrituras.
	Savepoint(ctx context.Context, fn func(Repos) error) error
}

// TxRunner abre la transacción de importación. Con dryRun se deshace al terminar aunque fn no falle.
type TxRunner interface {
	RunImport(ctx context.Context, dryRun bool, fn func(Tx) error) error
}

// Recorder recibe el resultado de cada importación (métricas).
type Recorder interface {
	ObserveImport(kind string, res *Result, elapsed time.Duration)
}

// Service importador de planillas.
type Service struct {
	units    repository.UnitRepository
	tx       TxRunner
	log      *logger.Logger
	recorder Recorder
	now      func() time.Time
}

// NewService construye el servicio. recorder puede ser nil.
func NewService(units repository.UnitRepository, tx TxRunner, log *logger.Logger, recorder Recorder) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{units: units, tx: tx, log: log.Component("importer"), recorder: recorder, now: time.Now}
}

// Import procesa la planilla para la unidad indicada (ignorada en KindLots, donde la unidad viene por fila).
// El error devuelto se reserva para unidad inexistente (domain.ErrUnitNotFound) o tipo desconocido;
// cualquier otro problema queda en Result.
func (s *Service) Import(ctx context.Context, kind Kind, unitID string, src Source, opts Options) (*Result, error) {
	l, ok := layouts[kind]
	if !ok {
		return nil, fmt.Errorf("%w: tipo de importación %q", domain.ErrInvalidInput, kind)
	}

	start := s.now()
	res := newResult(kind, opts.DryRun, start)

	var unit *entity.BusinessUnit
	if kind != KindLots {
		u, err := s.units.GetByID(ctx, unitID)
		if err != nil {
			return nil, fmt.Errorf("buscar unidad: %w", err)
		}
		if u == nil || !u.Active {
			return nil, domain.ErrUnitNotFound
		}
		unit = u
		res.Unit = u.Code
	}

	if err := s.run(ctx, l, kind, unit, src, opts, start, res); err != nil {
		res.fail(err)
	}
	res.finalize()
	s.report(res, s.now().Sub(start))
	return res, nil
}

func (s *Service) run(ctx context.Context, l layout, kind Kind, unit *entity.BusinessUnit, src Source, opts Options, start time.Time, res *Result) error {
	table, err := ReadTable(src, opts)
	if err != nil {
		return err
	}
	records, err := l.bind(table)
	if err != nil {
		return err
	}

	var apply rowFunc
	switch kind {
	case KindDailyStock:
		apply = dailyStockRow(unit)
	case KindCounts:
		apply = countsRow(unit)
	case KindLots:
		apply = newLotsRun(start, opts.PurgeLots, res).row
	}

	return s.tx.RunImport(ctx, opts.DryRun, func(tx Tx) error {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			line := i + 2
			if l.key != "" && isNull(rec.get(l.key)) {
				continue
			}
			var c change
			err := tx.Savepoint(ctx, func(r Repos) error {
				var err error
				c, err = apply(ctx, r, line, rec)
				return err
			})
			if err != nil {
				res.rowError(line, err)
				continue
			}
			res.apply(c)
		}
		return nil
	})
}

func (s *Service) report(res *Result, elapsed time.Duration) {
	ev := s.log.Info()
	if !res.Success {
		ev = s.log.Warn().Str("error", res.Error)
	}
	ev.Str("kind", string(res.Kind)).
		Str("unit", res.Unit).
		Int("processed", res.Processed).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("errors", len(res.Errors)).
		Int("warnings", len(res.Warnings)).
		Bool("dry_run", res.DryRun).
		Dur("elapsed", elapsed).
		Msg("importación finalizada")

	if s.recorder != nil {
		s.recorder.ObserveImport(string(res.Kind), res, elapsed)
	}
}

// rowFunc aplica una fila dentro de su savepoint.
type rowFunc func(ctx context.Context, r Repos, line int, rec record) (change, error)
