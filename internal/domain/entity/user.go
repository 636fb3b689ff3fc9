package entity

import "time"

// Roles de un usuario dentro de una unidad.
const (
	UnitRoleOperator   = "OPERATOR"
	UnitRoleSupervisor = "SUPERVISOR"
	UnitRoleManager    = "MANAGER"
)

// User representa un usuario del sistema con acceso a una o más unidades.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Phone        string
	Position     string
	IsSuperuser  bool
	Active       bool
	Units        []UserUnit // vínculos cargados por el repositorio
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUnit vínculo usuario-unidad con el papel en la unidad.
type UserUnit struct {
	UserID   string
	UnitID   string
	UnitCode string
	UnitName string
	Role     string
	LinkedAt time.Time
}

// FullName devuelve nombre y apellido, o el username si están vacíos.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// HasAccess indica si el usuario puede operar sobre la unidad.
// Superusuarios acceden a todas; el resto solo a las vinculadas (el repositorio carga solo unidades activas).
func (u *User) HasAccess(unitID string) bool {
	if u == nil {
		return false
	}
	if u.IsSuperuser {
		return true
	}
	for _, l := range u.Units {
		if l.UnitID == unitID {
			return true
		}
	}
	return false
}

// UnitIDs devuelve los IDs de las unidades vinculadas.
func (u *User) UnitIDs() []string {
	ids := make([]string, 0, len(u.Units))
	for _, l := range u.Units {
		ids = append(ids, l.UnitID)
	}
	return ids
}
