package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/expiry"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

// Caller identifica a quien invoca un caso de uso: usuario autenticado e IP de origen.
type Caller struct {
	User *entity.User
	IP   string
}

// UserID devuelve el ID del usuario o "" si no hay sesión.
func (c Caller) UserID() string {
	if c.User == nil {
		return ""
	}
	return c.User.ID
}

// Superuser indica si quien invoca es superusuario.
func (c Caller) Superuser() bool {
	return c.User != nil && c.User.IsSuperuser
}

// scope devuelve las unidades visibles: nil para superusuarios (sin restricción).
// Un usuario sin vínculos obtiene un slice vacío, que no ve nada.
func (c Caller) scope() []string {
	if c.Superuser() {
		return nil
	}
	if c.User == nil {
		return []string{}
	}
	return c.User.UnitIDs()
}

// canSee indica si la unidad está dentro del alcance de quien invoca.
func (c Caller) canSee(unitID string) bool {
	return c.User.HasAccess(unitID)
}

// RequireUnit devuelve domain.ErrForbidden si la unidad no está en el alcance.
func (c Caller) RequireUnit(unitID string) error {
	if !c.canSee(unitID) {
		return domain.ErrForbidden
	}
	return nil
}

func (c Caller) requireSuperuser() error {
	if !c.Superuser() {
		return domain.ErrForbidden
	}
	return nil
}

// today fecha de calendario en UTC usada para el cálculo de días.
func today(now func() time.Time) time.Time {
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// thresholdCache resuelve umbrales por unidad durante una misma solicitud.
// Orden: configuración activa de la unidad, global activa, valores por defecto.
type thresholdCache struct {
	repo     repository.AlertConfigRepository
	global   *entity.AlertConfig
	loaded   bool
	resolved map[string]expiry.Thresholds
}

func newThresholdCache(repo repository.AlertConfigRepository) *thresholdCache {
	return &thresholdCache{repo: repo, resolved: make(map[string]expiry.Thresholds)}
}

func (c *thresholdCache) globalConfig(ctx context.Context) (*entity.AlertConfig, error) {
	if !c.loaded {
		g, err := c.repo.GetGlobal(ctx)
		if err != nil {
			return nil, err
		}
		c.global, c.loaded = g, true
	}
	return c.global, nil
}

// forUnit umbrales efectivos de la unidad; unitID vacío usa la global.
func (c *thresholdCache) forUnit(ctx context.Context, unitID string) (expiry.Thresholds, error) {
	if t, ok := c.resolved[unitID]; ok {
		return t, nil
	}
	var own *entity.AlertConfig
	if unitID != "" {
		cfg, err := c.repo.GetByUnit(ctx, unitID)
		if err != nil {
			return expiry.Thresholds{}, err
		}
		own = cfg
	}
	global, err := c.globalConfig(ctx)
	if err != nil {
		return expiry.Thresholds{}, err
	}
	t := expiry.Resolve(own, global)
	c.resolved[unitID] = t
	return t, nil
}
