package dto

import (
	"encoding/json"
	"time"
)

// WordPressIntegrationRequest credenciales del sitio (Application Password).
// AppPassword vacío conserva el guardado.
type WordPressIntegrationRequest struct {
	SiteURL     string `json:"site_url" validate:"required,url"`
	Username    string `json:"username" validate:"required"`
	AppPassword string `json:"app_password"`
	AutoPublish bool   `json:"auto_publish"`
}

// WordPressIntegrationResponse nunca expone el password.
type WordPressIntegrationResponse struct {
	SiteURL     string     `json:"site_url"`
	Username    string     `json:"username"`
	HasPassword bool       `json:"has_password"`
	AutoPublish bool       `json:"auto_publish"`
	HasAPIKey   bool       `json:"has_api_key"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// APIKeyResponse la key en claro solo se devuelve al rotarla.
type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}

// PluginDownloadResponse URL firmada del zip del plugin.
type PluginDownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CRMIntegrationRequest configuración de un proveedor CRM.
type CRMIntegrationRequest struct {
	Config json.RawMessage `json:"config" swaggertype:"object"`
	Active *bool           `json:"active"`
}

// CRMIntegrationResponse salida de una integración CRM con la URL del webhook a configurar.
type CRMIntegrationResponse struct {
	ID          string          `json:"id"`
	Provider    string          `json:"provider"`
	Config      json.RawMessage `json:"config" swaggertype:"object"`
	Active      bool            `json:"active"`
	LastEventAt *time.Time      `json:"last_event_at,omitempty"`
	WebhookURL  string          `json:"webhook_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CRMConfig campos reconocidos dentro de CRMIntegration.Config.
type CRMConfig struct {
	DefaultTechnicianID string `json:"default_technician_id"`
	SendReviewRequest   bool   `json:"send_review_request"`
}

// CRMWebhookEvent payload normalizado de "trabajo completado". Los proveedores
// envían event = job.completed (o job_completed / JOB_COMPLETED).
type CRMWebhookEvent struct {
	Event string `json:"event"`
	Job   struct {
		ID              string `json:"id"`
		Type            string `json:"type"`
		Description     string `json:"description"`
		TechnicianEmail string `json:"technician_email"`
		Customer        struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Phone string `json:"phone"`
		} `json:"customer"`
		Address struct {
			Street string `json:"street"`
			City   string `json:"city"`
			State  string `json:"state"`
			Zip    string `json:"zip"`
		} `json:"address"`
	} `json:"job"`
}

// CRMWebhookResult resultado del procesamiento del webhook.
type CRMWebhookResult struct {
	Ignored   bool   `json:"ignored"`
	CheckInID string `json:"check_in_id,omitempty"`
}
