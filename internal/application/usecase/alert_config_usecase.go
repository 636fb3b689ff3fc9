package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/expiry"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

// AlertConfigUseCase administra umbrales de alerta por unidad o globales.
type AlertConfigUseCase struct {
	repo  repository.AlertConfigRepository
	units repository.UnitRepository
}

// NewAlertConfigUseCase construye el caso de uso.
func NewAlertConfigUseCase(repo repository.AlertConfigRepository, units repository.UnitRepository) *AlertConfigUseCase {
	return &AlertConfigUseCase{repo: repo, units: units}
}

// authorize la configuración global es solo de superusuario; la de unidad exige acceso.
func (uc *AlertConfigUseCase) authorize(ctx context.Context, caller Caller, unitID string) error {
	if unitID == "" {
		return caller.requireSuperuser()
	}
	unit, err := uc.units.GetByID(ctx, unitID)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrUnitNotFound
	}
	return caller.RequireUnit(unitID)
}

// Create crea una configuración. Umbrales inválidos: ErrInvalidThresholds; otra activa para la misma unidad: ErrDuplicate.
func (uc *AlertConfigUseCase) Create(ctx context.Context, caller Caller, in dto.AlertConfigRequest) (*dto.AlertConfigResponse, error) {
	t := expiry.Thresholds{CriticalDays: in.CriticalDays, PreBlockDays: in.PreBlockDays}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, caller, in.UnitID); err != nil {
		return nil, err
	}
	now := time.Now()
	cfg := &entity.AlertConfig{
		ID:           uuid.New().String(),
		CriticalDays: t.CriticalDays,
		PreBlockDays: t.PreBlockDays,
		Active:       in.Active == nil || *in.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.UnitID != "" {
		unitID := in.UnitID
		cfg.UnitID = &unitID
	}
	if err := uc.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return toAlertConfigResponse(cfg), nil
}

func (uc *AlertConfigUseCase) find(ctx context.Context, caller Caller, id string) (*entity.AlertConfig, error) {
	cfg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil || (cfg.UnitID != nil && !caller.canSee(*cfg.UnitID)) {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

// GetByID devuelve una configuración visible.
func (uc *AlertConfigUseCase) GetByID(ctx context.Context, caller Caller, id string) (*dto.AlertConfigResponse, error) {
	cfg, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toAlertConfigResponse(cfg), nil
}

// Update reemplaza umbrales y estado; la unidad no cambia.
func (uc *AlertConfigUseCase) Update(ctx context.Context, caller Caller, id string, in dto.AlertConfigRequest) (*dto.AlertConfigResponse, error) {
	cfg, err := uc.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	unitID := ""
	if cfg.UnitID != nil {
		unitID = *cfg.UnitID
	}
	if err := uc.authorize(ctx, caller, unitID); err != nil {
		return nil, err
	}
	t := expiry.Thresholds{CriticalDays: in.CriticalDays, PreBlockDays: in.PreBlockDays}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	cfg.CriticalDays, cfg.PreBlockDays = t.CriticalDays, t.PreBlockDays
	if in.Active != nil {
		cfg.Active = *in.Active
	}
	cfg.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return toAlertConfigResponse(cfg), nil
}

// Delete elimina una configuración.
func (uc *AlertConfigUseCase) Delete(ctx context.Context, caller Caller, id string) error {
	cfg, err := uc.find(ctx, caller, id)
	if err != nil {
		return err
	}
	unitID := ""
	if cfg.UnitID != nil {
		unitID = *cfg.UnitID
	}
	if err := uc.authorize(ctx, caller, unitID); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List lista configuraciones; unitID filtra por unidad. Fuera de alcance se omiten.
func (uc *AlertConfigUseCase) List(ctx context.Context, caller Caller, unitID string) ([]dto.AlertConfigResponse, error) {
	if unitID != "" && !caller.canSee(unitID) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.List(ctx, unitID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertConfigResponse, 0, len(list))
	for _, c := range list {
		if c.UnitID != nil && !caller.canSee(*c.UnitID) {
			continue
		}
		out = append(out, *toAlertConfigResponse(c))
	}
	return out, nil
}

// Thresholds umbrales efectivos para la unidad (unidad, global o por defecto).
func (uc *AlertConfigUseCase) Thresholds(ctx context.Context, unitID string) (expiry.Thresholds, error) {
	return newThresholdCache(uc.repo).forUnit(ctx, unitID)
}

func toAlertConfigResponse(c *entity.AlertConfig) *dto.AlertConfigResponse {
	return &dto.AlertConfigResponse{
		ID:           c.ID,
		UnitID:       c.UnitID,
		Global:       c.IsGlobal(),
		CriticalDays: c.CriticalDays,
		PreBlockDays: c.PreBlockDays,
		Active:       c.Active,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
