package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
)

// UnitUseCase casos de uso de unidades de negocio. Las escrituras son de superusuario.
type UnitUseCase struct {
	repo repository.UnitRepository
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(repo repository.UnitRepository) *UnitUseCase {
	return &UnitUseCase{repo: repo}
}

// Create da de alta una unidad activa. Código duplicado devuelve ErrDuplicate.
func (uc *UnitUseCase) Create(ctx context.Context, caller Caller, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if err := caller.requireSuperuser(); err != nil {
		return nil, err
	}
	now := time.Now()
	unit := &entity.BusinessUnit{
		ID:        uuid.New().String(),
		Code:      strings.TrimSpace(in.Code),
		Name:      strings.TrimSpace(in.Name),
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if unit.Code == "" || unit.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// GetByID devuelve una unidad visible para quien invoca.
func (uc *UnitUseCase) GetByID(ctx context.Context, caller Caller, id string) (*dto.UnitResponse, error) {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil || !caller.canSee(unit.ID) {
		return nil, domain.ErrUnitNotFound
	}
	return toUnitResponse(unit), nil
}

// Update modifica una unidad.
func (uc *UnitUseCase) Update(ctx context.Context, caller Caller, id string, in dto.UpdateUnitRequest) (*dto.UnitResponse, error) {
	if err := caller.requireSuperuser(); err != nil {
		return nil, err
	}
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrUnitNotFound
	}
	if in.Code != nil {
		unit.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		unit.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		unit.Address = *in.Address
	}
	if in.Active != nil {
		unit.Active = *in.Active
	}
	unit.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// Deactivate desactiva la unidad; nunca se elimina.
func (uc *UnitUseCase) Deactivate(ctx context.Context, caller Caller, id string) error {
	off := false
	_, err := uc.Update(ctx, caller, id, dto.UpdateUnitRequest{Active: &off})
	return err
}

// List lista unidades activas visibles.
func (uc *UnitUseCase) List(ctx context.Context, caller Caller, search string, page dto.PageRequest) ([]dto.UnitResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListActive(ctx, repository.UnitFilter{
		IDs:    caller.scope(),
		Search: search,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUnitResponse(u))
	}
	return out, nil
}

// Summary lista resumida (id, código, nombre) para selectores.
func (uc *UnitUseCase) Summary(ctx context.Context, caller Caller) ([]dto.UnitSummaryResponse, error) {
	list, err := uc.repo.ListActive(ctx, repository.UnitFilter{IDs: caller.scope()})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitSummaryResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUnitSummary(u))
	}
	return out, nil
}

func toUnitResponse(u *entity.BusinessUnit) *dto.UnitResponse {
	return &dto.UnitResponse{
		ID:        u.ID,
		Code:      u.Code,
		Name:      u.Name,
		Address:   u.Address,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
