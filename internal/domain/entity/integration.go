package entity

import (
	"encoding/json"
	"time"
)

// WordPressIntegration credenciales para publicar en el sitio WordPress de la empresa
// (Application Passwords de la REST API de WP).
type WordPressIntegration struct {
	CompanyID   string
	SiteURL     string
	Username    string
	AppPassword string
	AutoPublish bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Proveedores CRM soportados.
const (
	CRMHousecallPro = "housecall_pro"
	CRMJobber       = "jobber"
	CRMServiceTitan = "servicetitan"
	CRMGeneric      = "generic"
)

// IsValidCRMProvider informa si p es un proveedor conocido.
func IsValidCRMProvider(p string) bool {
	switch p {
	case CRMHousecallPro, CRMJobber, CRMServiceTitan, CRMGeneric:
		return true
	}
	return false
}

// CRMIntegration conexión con un CRM que envía trabajos completados como webhooks.
type CRMIntegration struct {
	ID          string
	CompanyID   string
	Provider    string
	Config      json.RawMessage // mapeos propios del proveedor (ej. técnico por defecto)
	Active      bool
	LastEventAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
