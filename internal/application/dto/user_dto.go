package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT más el usuario autenticado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// RegisterRequest alta self-service: crea empresa (plan starter en trial) y su company_admin.
// ReferralCode es el id del sales_staff que refirió la empresa.
type RegisterRequest struct {
	CompanyName  string `json:"company_name" validate:"required,max=200"`
	Industry     string `json:"industry" validate:"omitempty,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=50"`
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	ReferralCode string `json:"referral_code" validate:"omitempty,uuid"`
}

// ChangePasswordRequest cambio de la contraseña propia.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// MeResponse usuario actual y resumen de su empresa (nil para super_admin/sales_staff).
type MeResponse struct {
	User    UserResponse    `json:"user"`
	Company *CompanySummary `json:"company,omitempty"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// CompanyID lo ignora un company_admin (se usa el de su token).
type CreateUserRequest struct {
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Role      string `json:"role" validate:"required,oneof=super_admin company_admin technician sales_staff"`
}

// UpdateUserRequest campos opcionales; nil = sin cambio.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string     `json:"id"`
	CompanyID   *string    `json:"company_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResponse listado paginado.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
