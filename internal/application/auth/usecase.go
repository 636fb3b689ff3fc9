package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/usecase"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/internal/domain/repository"
	"github.com/jhoicas/validade-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	ExpMinutes        int
	RefreshExpMinutes int
	Issuer            string
}

// AuthUseCase casos de uso de autenticación: login, refresh y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica username/password y emite access + refresh.
// Credenciales inválidas: ErrUnauthorized. Usuario inactivo: ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	access, err := uc.token(user, jwt.TokenAccess, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.token(user, jwt.TokenRefresh, uc.jwtCfg.RefreshExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Access:  access,
		Refresh: refresh,
		User:    *usecase.ToUserResponse(user),
	}, nil
}

// Refresh emite un nuevo access a partir de un refresh válido de un usuario activo.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.RefreshResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, jwt.TokenRefresh, in.Refresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	access, err := uc.token(user, jwt.TokenAccess, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Access: access}, nil
}

// CurrentUser carga el usuario del token; inactivo o inexistente es ErrUnauthorized.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (uc *AuthUseCase) token(user *entity.User, kind string, minutes int) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, kind, user.ID, user.Username, user.IsSuperuser, uc.jwtCfg.Issuer, minutes)
}
