package entity

import "time"

// CheckIn visita de servicio registrada por un técnico.
type CheckIn struct {
	ID            string
	CompanyID     string
	TechnicianID  string
	JobType       string
	Notes         string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	City          string
	State         string
	Zip           string
	Latitude      *float64
	Longitude     *float64
	Photos        []string // keys de objetos en el bucket
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Location devuelve "ciudad, estado" o lo que exista.
func (c *CheckIn) Location() string {
	switch {
	case c.City != "" && c.State != "":
		return c.City + ", " + c.State
	case c.City != "":
		return c.City
	default:
		return c.State
	}
}

// CheckInFilter filtros de listado de visitas.
type CheckInFilter struct {
	CompanyID    string
	TechnicianID string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}
