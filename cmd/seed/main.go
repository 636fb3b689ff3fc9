// seed carga datos de demostración: configuración global de alertas, dos unidades,
// un superusuario y productos con lotes en cada franja de vencimiento.
// Es idempotente: lo que ya existe (por código o username) se deja como está.
//
// Uso: go run ./cmd/seed --admin-password secreto123
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/infrastructure/postgres"
	"github.com/jhoicas/validade-api/pkg/config"
	"github.com/jhoicas/validade-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

type seedProduct struct {
	code, name, category string
	// lotes: días hasta el vencimiento y cantidad
	lots []seedLot
}

type seedLot struct {
	days int
	qty  int
	cost string
}

var seedUnits = []entity.BusinessUnit{
	{Code: "UNB01", Name: "Unidade Centro", Address: "Av. Principal 100"},
	{Code: "UNB02", Name: "Unidade Norte", Address: "Rua das Flores 45"},
}

// Un producto por franja: vencido, crítico, pre-bloqueo, ok y sin stock.
var seedProducts = []seedProduct{
	{code: "7891000100103", name: "Leite Integral 1L", category: "LATICINIOS", lots: []seedLot{{days: -3, qty: 12, cost: "4.20"}}},
	{code: "7891000053508", name: "Iogurte Natural 170g", category: "LATICINIOS", lots: []seedLot{{days: 10, qty: 30, cost: "2.10"}, {days: 75, qty: 40, cost: "2.10"}}},
	{code: "7896004000015", name: "Pão de Forma 500g", category: "PADARIA", lots: []seedLot{{days: 38, qty: 18, cost: "6.90"}}},
	{code: "7891910000197", name: "Arroz Tipo 1 5kg", category: "MERCEARIA", lots: []seedLot{{days: 180, qty: 50, cost: "24.50"}}},
	{code: "7894900011517", name: "Refrigerante Cola 2L", category: "BEBIDAS", lots: []seedLot{{days: 120, qty: 0}}},
}

func main() {
	var adminPassword string
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Carga datos de demostración",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), adminPassword)
		},
	}
	cmd.Flags().StringVar(&adminPassword, "admin-password", "admin12345", "password del usuario admin")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, adminPassword string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migraciones: %w", err)
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	configs := postgres.NewAlertConfigRepository(pool)
	global, err := configs.GetGlobal(ctx)
	if err != nil {
		return err
	}
	if global == nil {
		err := configs.Create(ctx, &entity.AlertConfig{
			ID: uuid.New().String(), CriticalDays: 30, PreBlockDays: 45, Active: true, CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("configuración global: %w", err)
		}
		log.Info().Msg("configuración global 30/45 creada")
	}

	units := postgres.NewUnitRepository(pool)
	products := postgres.NewProductRepository(pool)
	lots := postgres.NewLotRepository(pool)
	var first *entity.BusinessUnit
	for i := range seedUnits {
		u, err := units.GetByCode(ctx, seedUnits[i].Code)
		if err != nil {
			return err
		}
		if u == nil {
			u = &seedUnits[i]
			u.ID, u.Active, u.CreatedAt, u.UpdatedAt = uuid.New().String(), true, now, now
			if err := units.Create(ctx, u); err != nil {
				return fmt.Errorf("unidad %s: %w", u.Code, err)
			}
			log.Info().Str("unit", u.Code).Msg("unidad creada")
		}
		if first == nil {
			first = u
		}

		for _, sp := range seedProducts {
			if err := seedProductLots(ctx, products, lots, u, sp, today, now); err != nil {
				return err
			}
		}
	}

	users := postgres.NewUserRepository(pool)
	admin, err := users.GetByUsername(ctx, "admin")
	if err != nil {
		return err
	}
	if admin == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin = &entity.User{
			ID: uuid.New().String(), Username: "admin", Email: "admin@validade.local", PasswordHash: string(hash),
			FirstName: "Administrador", IsSuperuser: true, Active: true, CreatedAt: now, UpdatedAt: now,
		}
		if err := users.Create(ctx, admin); err != nil {
			return fmt.Errorf("usuario admin: %w", err)
		}
		if err := users.LinkUnit(ctx, entity.UserUnit{UserID: admin.ID, UnitID: first.ID, Role: entity.UnitRoleManager, LinkedAt: now}); err != nil {
			return fmt.Errorf("vincular admin: %w", err)
		}
		log.Info().Msg("usuario admin creado")
	}

	log.Info().Msg("seed completado")
	return nil
}

func seedProductLots(ctx context.Context, products *postgres.ProductRepo, lots *postgres.LotRepo, u *entity.BusinessUnit, sp seedProduct, today, now time.Time) error {
	p, err := products.GetByUnitAndCode(ctx, u.ID, sp.code)
	if err != nil {
		return err
	}
	if p != nil {
		return nil
	}
	p = &entity.Product{
		ID: uuid.New().String(), UnitID: u.ID, Code: sp.code, Name: sp.name, Category: sp.category,
		UnitMeasure: "UN", ConversionFactor: 1, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	if err := products.Create(ctx, p); err != nil {
		return fmt.Errorf("producto %s: %w", sp.code, err)
	}
	for i, sl := range sp.lots {
		exp := today.AddDate(0, 0, sl.days)
		lot := &entity.Lot{
			ID: uuid.New().String(), ProductID: p.ID, LotNumber: fmt.Sprintf("L%s-%02d", exp.Format("060102"), i+1),
			ExpirationDate: &exp, Quantity: sl.qty, Active: true, CreatedAt: now, UpdatedAt: now,
		}
		if sl.cost != "" {
			c := decimal.RequireFromString(sl.cost)
			lot.UnitCost = &c
		}
		if err := lots.Create(ctx, lot); err != nil {
			return fmt.Errorf("lote de %s: %w", sp.code, err)
		}
	}
	return nil
}
