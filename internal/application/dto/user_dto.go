package dto

import "time"

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse tokens más datos del usuario.
type LoginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

// RefreshRequest token de refresco.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshResponse nuevo token de acceso.
type RefreshResponse struct {
	Access string `json:"access"`
}

// CreateUserRequest alta de usuario (solo superusuario).
type CreateUserRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
	Phone           string `json:"phone" validate:"max=20"`
	Position        string `json:"position" validate:"max=100"`
	IsSuperuser     bool   `json:"is_superuser"`
}

// LinkUnitRequest vincula un usuario a una unidad.
type LinkUnitRequest struct {
	UnitID string `json:"unit_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"omitempty,oneof=OPERATOR SUPERVISOR MANAGER"`
}

// UserUnitResponse vínculo usuario-unidad.
type UserUnitResponse struct {
	UnitID   string    `json:"unit_id"`
	UnitCode string    `json:"unit_code"`
	UnitName string    `json:"unit_name"`
	Role     string    `json:"role"`
	LinkedAt time.Time `json:"linked_at"`
}

// UserResponse salida de usuario (sin password).
type UserResponse struct {
	ID          string             `json:"id"`
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	FullName    string             `json:"full_name"`
	Phone       string             `json:"phone"`
	Position    string             `json:"position"`
	IsSuperuser bool               `json:"is_superuser"`
	Active      bool               `json:"active"`
	Units       []UserUnitResponse `json:"units"`
	CreatedAt   time.Time          `json:"created_at"`
}
