package entity

import "time"

// Technician técnico de campo de una empresa. UserID enlaza su cuenta de login (opcional).
type Technician struct {
	ID        string
	CompanyID string
	UserID    *string
	Name      string
	Email     string
	Phone     string
	Specialty string
	Location  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
