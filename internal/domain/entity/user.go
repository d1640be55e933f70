package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin   = "super_admin"
	RoleCompanyAdmin = "company_admin"
	RoleTechnician   = "technician"
	RoleSalesStaff   = "sales_staff"
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// IsValidRole informa si r es uno de los cuatro roles del sistema.
func IsValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleCompanyAdmin, RoleTechnician, RoleSalesStaff:
		return true
	}
	return false
}

// User representa un usuario del sistema.
// CompanyID es nil para super_admin y sales_staff.
type User struct {
	ID           string
	CompanyID    *string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Company devuelve el company_id o "" si el usuario no pertenece a un tenant.
func (u *User) Company() string {
	if u == nil || u.CompanyID == nil {
		return ""
	}
	return *u.CompanyID
}
