package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
	"github.com/jhoicas/rankitpro-api/pkg/signature"
)

const (
	apiKeyPrefix    = "rip_"
	pluginURLExpiry = 15 * time.Minute
)

// WebhookCheckInCreator lo cumple CheckInUseCase.
type WebhookCheckInCreator interface {
	CreateFromWebhook(ctx context.Context, c *entity.CheckIn, sendReview bool) error
}

// IntegrationConfig valores de configuración que necesita el caso de uso.
type IntegrationConfig struct {
	APIURL           string // base pública de la API para armar URLs de webhook
	PluginObject     string // key del zip del plugin en el bucket
	CRMWebhookSecret string
}

// IntegrationUseCase WordPress (credenciales, API key del plugin, descarga) y CRMs (config y webhooks).
type IntegrationUseCase struct {
	repo        repository.IntegrationRepository
	companies   repository.CompanyRepository
	technicians repository.TechnicianRepository
	checkIns    WebhookCheckInCreator
	storage     ports.ObjectStorage
	cfg         IntegrationConfig
	log         *logger.Logger
	now         func() time.Time
}

// NewIntegrationUseCase construye el caso de uso.
func NewIntegrationUseCase(
	repo repository.IntegrationRepository,
	companies repository.CompanyRepository,
	technicians repository.TechnicianRepository,
	checkIns WebhookCheckInCreator,
	storage ports.ObjectStorage,
	cfg IntegrationConfig,
	log *logger.Logger,
) *IntegrationUseCase {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &IntegrationUseCase{
		repo:        repo,
		companies:   companies,
		technicians: technicians,
		checkIns:    checkIns,
		storage:     storage,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// GetWordPress configuración actual (sin password).
func (uc *IntegrationUseCase) GetWordPress(ctx context.Context, companyID string) (*dto.WordPressIntegrationResponse, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	wp, err := uc.repo.GetWordPress(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := &dto.WordPressIntegrationResponse{HasAPIKey: company.WPAPIKeyHash != ""}
	if wp != nil {
		out.SiteURL = wp.SiteURL
		out.Username = wp.Username
		out.HasPassword = wp.AppPassword != ""
		out.AutoPublish = wp.AutoPublish
		updated := wp.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out, nil
}

// SaveWordPress guarda credenciales. Un app_password vacío conserva el anterior.
func (uc *IntegrationUseCase) SaveWordPress(ctx context.Context, companyID string, in dto.WordPressIntegrationRequest) (*dto.WordPressIntegrationResponse, error) {
	site := strings.TrimRight(strings.TrimSpace(in.SiteURL), "/")
	u, err := url.Parse(site)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, fmt.Errorf("%w: site_url debe ser una URL http(s)", domain.ErrInvalidInput)
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username es obligatorio", domain.ErrInvalidInput)
	}

	existing, err := uc.repo.GetWordPress(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	wp := &entity.WordPressIntegration{
		CompanyID:   companyID,
		SiteURL:     site,
		Username:    username,
		AppPassword: strings.TrimSpace(in.AppPassword),
		AutoPublish: in.AutoPublish,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing != nil {
		wp.CreatedAt = existing.CreatedAt
		if wp.AppPassword == "" {
			wp.AppPassword = existing.AppPassword
		}
	}
	if wp.AppPassword == "" {
		return nil, fmt.Errorf("%w: app_password es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.repo.UpsertWordPress(ctx, wp); err != nil {
		return nil, err
	}
	return uc.GetWordPress(ctx, companyID)
}

// RotateAPIKey genera una nueva API key del plugin. Se guarda solo su SHA-256;
// la key en claro se devuelve una única vez.
func (uc *IntegrationUseCase) RotateAPIKey(ctx context.Context, companyID string) (*dto.APIKeyResponse, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generar api key: %w", err)
	}
	key := apiKeyPrefix + hex.EncodeToString(raw)
	company.WPAPIKeyHash = HashAPIKey(key)
	company.UpdatedAt = uc.now()
	if err := uc.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return &dto.APIKeyResponse{APIKey: key}, nil
}

// CompanyByAPIKey autentica al plugin. Key desconocida o empresa inactiva = ErrUnauthorized.
func (uc *IntegrationUseCase) CompanyByAPIKey(ctx context.Context, key string) (*entity.Company, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrUnauthorized
	}
	company, err := uc.companies.GetByAPIKeyHash(ctx, HashAPIKey(key))
	if err != nil {
		return nil, err
	}
	if !company.IsActive() {
		return nil, domain.ErrUnauthorized
	}
	return company, nil
}

// PluginDownload URL firmada del zip del plugin ya construido.
func (uc *IntegrationUseCase) PluginDownload(ctx context.Context) (*dto.PluginDownloadResponse, error) {
	if uc.cfg.PluginObject == "" {
		return nil, domain.ErrIntegrationDisabled
	}
	u, err := uc.storage.PresignedURL(ctx, uc.cfg.PluginObject, pluginURLExpiry)
	if err != nil {
		return nil, err
	}
	return &dto.PluginDownloadResponse{URL: u, ExpiresAt: uc.now().Add(pluginURLExpiry)}, nil
}

// ListCRM integraciones CRM de la empresa.
func (uc *IntegrationUseCase) ListCRM(ctx context.Context, companyID string) ([]dto.CRMIntegrationResponse, error) {
	list, err := uc.repo.ListCRM(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CRMIntegrationResponse, 0, len(list))
	for _, c := range list {
		out = append(out, uc.crmResponse(c))
	}
	return out, nil
}

// SaveCRM crea o actualiza la integración con un proveedor.
func (uc *IntegrationUseCase) SaveCRM(ctx context.Context, companyID, provider string, in dto.CRMIntegrationRequest) (*dto.CRMIntegrationResponse, error) {
	if !entity.IsValidCRMProvider(provider) {
		return nil, fmt.Errorf("%w: proveedor CRM desconocido", domain.ErrInvalidInput)
	}
	cfg := json.RawMessage(`{}`)
	if len(in.Config) > 0 && string(in.Config) != "null" {
		var parsed dto.CRMConfig
		if err := json.Unmarshal(in.Config, &parsed); err != nil {
			return nil, fmt.Errorf("%w: config debe ser un objeto JSON", domain.ErrInvalidInput)
		}
		if parsed.DefaultTechnicianID != "" {
			t, err := uc.technicians.GetByID(ctx, companyID, parsed.DefaultTechnicianID)
			if err != nil {
				return nil, err
			}
			if t == nil {
				return nil, fmt.Errorf("%w: default_technician_id no pertenece a la empresa", domain.ErrInvalidInput)
			}
		}
		cfg = in.Config
	}

	existing, err := uc.repo.GetCRM(ctx, companyID, provider)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.CRMIntegration{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Provider:  provider,
		Config:    cfg,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		c.LastEventAt = existing.LastEventAt
		c.Active = existing.Active
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := uc.repo.UpsertCRM(ctx, c); err != nil {
		return nil, err
	}
	out := uc.crmResponse(c)
	return &out, nil
}

// DeleteCRM elimina la integración.
func (uc *IntegrationUseCase) DeleteCRM(ctx context.Context, companyID, provider string) error {
	if !entity.IsValidCRMProvider(provider) {
		return fmt.Errorf("%w: proveedor CRM desconocido", domain.ErrInvalidInput)
	}
	return uc.repo.DeleteCRM(ctx, companyID, provider)
}

// HandleCRMWebhook verifica la firma HMAC-SHA256 del cuerpo y, si el evento es un trabajo
// completado, crea la visita. Con firma inválida no se toca nada.
func (uc *IntegrationUseCase) HandleCRMWebhook(ctx context.Context, provider, companyID string, body []byte, sig string) (*dto.CRMWebhookResult, error) {
	if !signature.Verify(uc.cfg.CRMWebhookSecret, body, sig) {
		return nil, domain.ErrInvalidSignature
	}
	if !entity.IsValidCRMProvider(provider) {
		return nil, domain.ErrNotFound
	}
	integration, err := uc.repo.GetCRM(ctx, companyID, provider)
	if err != nil {
		return nil, err
	}
	if integration == nil || !integration.Active {
		return nil, domain.ErrIntegrationDisabled
	}
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.IsActive() {
		return nil, domain.ErrIntegrationDisabled
	}

	var ev dto.CRMWebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: payload inválido", domain.ErrInvalidInput)
	}
	if !isJobCompleted(ev.Event) {
		return &dto.CRMWebhookResult{Ignored: true}, nil
	}

	var cfg dto.CRMConfig
	if len(integration.Config) > 0 {
		if err := json.Unmarshal(integration.Config, &cfg); err != nil {
			uc.log.Warn().Err(err).Str("company_id", companyID).Str("provider", provider).
				Msg("config de integración CRM ilegible; se usan valores por defecto")
		}
	}
	techID, err := uc.webhookTechnician(ctx, companyID, ev.Job.TechnicianEmail, cfg.DefaultTechnicianID)
	if err != nil {
		return nil, err
	}

	jobType := strings.TrimSpace(ev.Job.Type)
	if jobType == "" {
		jobType = "Service call"
	}
	now := uc.now()
	c := &entity.CheckIn{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		TechnicianID:  techID,
		JobType:       jobType,
		Notes:         ev.Job.Description,
		CustomerName:  strings.TrimSpace(ev.Job.Customer.Name),
		CustomerEmail: dto.NormalizeEmail(ev.Job.Customer.Email),
		CustomerPhone: strings.TrimSpace(ev.Job.Customer.Phone),
		Address:       ev.Job.Address.Street,
		City:          ev.Job.Address.City,
		State:         ev.Job.Address.State,
		Zip:           ev.Job.Address.Zip,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if c.CustomerEmail != "" && !dto.ValidEmail(c.CustomerEmail) {
		c.CustomerEmail = ""
	}
	if err := uc.checkIns.CreateFromWebhook(ctx, c, cfg.SendReviewRequest); err != nil {
		return nil, err
	}
	if err := uc.repo.TouchCRMEvent(ctx, integration.ID); err != nil {
		uc.log.Warn().Err(err).Str("integration_id", integration.ID).Msg("no se pudo registrar el último evento CRM")
	}
	return &dto.CRMWebhookResult{CheckInID: c.ID}, nil
}

func (uc *IntegrationUseCase) webhookTechnician(ctx context.Context, companyID, email, fallback string) (string, error) {
	email = dto.NormalizeEmail(email)
	if email != "" {
		t, err := uc.technicians.GetByEmail(ctx, companyID, email)
		if err != nil {
			return "", err
		}
		if t != nil {
			return t.ID, nil
		}
	}
	if fallback != "" {
		t, err := uc.technicians.GetByID(ctx, companyID, fallback)
		if err != nil {
			return "", err
		}
		if t != nil && t.Active {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("%w: no se pudo asignar un técnico al trabajo", domain.ErrInvalidInput)
}

func (uc *IntegrationUseCase) crmResponse(c *entity.CRMIntegration) dto.CRMIntegrationResponse {
	return dto.CRMIntegrationResponse{
		ID:          c.ID,
		Provider:    c.Provider,
		Config:      c.Config,
		Active:      c.Active,
		LastEventAt: c.LastEventAt,
		WebhookURL:  fmt.Sprintf("%s/api/integrations/crm/%s/webhook/%s", uc.cfg.APIURL, c.Provider, c.CompanyID),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// HashAPIKey SHA-256 en hex de la API key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func isJobCompleted(event string) bool {
	e := strings.ToLower(strings.TrimSpace(event))
	switch e {
	case "job.completed", "job_completed", "job.complete", "job_complete":
		return true
	}
	return false
}
