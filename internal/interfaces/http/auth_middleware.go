package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/application/usecase"
	"github.com/jhoicas/validade-api/internal/domain"
	"github.com/jhoicas/validade-api/internal/domain/entity"
	"github.com/jhoicas/validade-api/pkg/jwt"
)

// Locals keys cargadas por los middlewares de auth.
const (
	LocalUserID    = "user_id"
	LocalUsername  = "username"
	LocalSuperuser = "superuser"
	LocalUser      = "user"
)

// AuthMiddleware valida el Bearer Token JWT de acceso y extrae sus claims a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, jwt.TokenAccess, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalSuperuser, claims.Superuser)
		return c.Next()
	}
}

// userLoader contrato mínimo para cargar el usuario del token con sus unidades.
// Lo implementa *auth.AuthUseCase.
type userLoader interface {
	CurrentUser(ctx context.Context, userID string) (*entity.User, error)
}

// LoadUser carga el usuario (con vínculos a unidades) en c.Locals. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 si el usuario ya no existe o fue desactivado.
//   - 503 si falla la consulta a la DB.
func LoadUser(loader userLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no encontrado en el token"})
		}
		user, err := loader.CurrentUser(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario inactivo o inexistente"})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "USER_LOAD_FAILED", Message: "no se pudo cargar el usuario, intente más tarde"})
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequireSuperuser permite el paso solo a superusuarios. Usa el usuario cargado si existe, si no el claim.
func RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok := IsSuperuser(c)
		if u := GetUser(c); u != nil {
			ok = u.IsSuperuser
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere superusuario"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUsername devuelve el username del token.
func GetUsername(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUsername).(string)
	return s
}

// IsSuperuser indica si el token pertenece a un superusuario.
func IsSuperuser(c *fiber.Ctx) bool {
	b, _ := c.Locals(LocalSuperuser).(bool)
	return b
}

// GetUser devuelve el usuario cargado por LoadUser o nil.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// callerFrom arma el Caller de los casos de uso con el usuario cargado y la IP de origen.
func callerFrom(c *fiber.Ctx) usecase.Caller {
	return usecase.Caller{User: GetUser(c), IP: c.IP()}
}
