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
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase administración de usuarios (solo superusuario).
type UserUseCase struct {
	repo  repository.UserRepository
	units repository.UnitRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, units repository.UnitRepository) *UserUseCase {
	return &UserUseCase{repo: repo, units: units}
}

// Create da de alta un usuario activo con password hasheado (bcrypt).
func (uc *UserUseCase) Create(ctx context.Context, caller Caller, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := caller.requireSuperuser(); err != nil {
		return nil, err
	}
	if in.Password != in.PasswordConfirm {
		return nil, domain.ErrPasswordMismatch
	}
	username := strings.TrimSpace(in.Username)
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Position:     in.Position,
		IsSuperuser:  in.IsSuperuser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List lista usuarios.
func (uc *UserUseCase) List(ctx context.Context, caller Caller, page dto.PageRequest) ([]dto.UserResponse, error) {
	if err := caller.requireSuperuser(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// LinkUnit concede acceso a una unidad con un papel (OPERATOR por defecto).
func (uc *UserUseCase) LinkUnit(ctx context.Context, caller Caller, userID string, in dto.LinkUnitRequest) (*dto.UserResponse, error) {
	if err := caller.requireSuperuser(); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	unit, err := uc.units.GetByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil || !unit.Active {
		return nil, domain.ErrUnitNotFound
	}
	role := in.Role
	if role == "" {
		role = entity.UnitRoleOperator
	}
	if err := uc.repo.LinkUnit(ctx, entity.UserUnit{
		UserID:   user.ID,
		UnitID:   unit.ID,
		Role:     role,
		LinkedAt: time.Now(),
	}); err != nil {
		return nil, err
	}
	updated, err := uc.repo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(updated), nil
}

// ToUserResponse convierte la entidad a DTO sin exponer el hash.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	res := &dto.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Phone:       u.Phone,
		Position:    u.Position,
		IsSuperuser: u.IsSuperuser,
		Active:      u.Active,
		Units:       make([]dto.UserUnitResponse, 0, len(u.Units)),
		CreatedAt:   u.CreatedAt,
	}
	for _, l := range u.Units {
		res.Units = append(res.Units, dto.UserUnitResponse{
			UnitID:   l.UnitID,
			UnitCode: l.UnitCode,
			UnitName: l.UnitName,
			Role:     l.Role,
			LinkedAt: l.LinkedAt,
		})
	}
	return res
}
