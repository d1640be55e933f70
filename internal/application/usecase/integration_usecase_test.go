package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/mocks"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
	"github.com/jhoicas/rankitpro-api/pkg/signature"
)

const crmSecret = "crm-secret"

type fakeWebhookCreator struct {
	created    []*entity.CheckIn
	sendReview bool
	err        error
}

func (f *fakeWebhookCreator) CreateFromWebhook(_ context.Context, c *entity.CheckIn, sendReview bool) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, c)
	f.sendReview = sendReview
	return nil
}

type integrationFixture struct {
	uc          *IntegrationUseCase
	repo        *mocks.IntegrationRepository
	companies   *mocks.CompanyRepository
	technicians *mocks.TechnicianRepository
	checkIns    *fakeWebhookCreator
}

func newIntegrationFixture() *integrationFixture {
	f := &integrationFixture{
		repo:        &mocks.IntegrationRepository{},
		companies:   &mocks.CompanyRepository{},
		technicians: &mocks.TechnicianRepository{},
		checkIns:    &fakeWebhookCreator{},
	}
	f.uc = NewIntegrationUseCase(f.repo, f.companies, f.technicians, f.checkIns, &mocks.ObjectStorage{}, IntegrationConfig{
		APIURL:           "https://api.test/",
		PluginObject:     "plugins/rank-it-pro.zip",
		CRMWebhookSecret: crmSecret,
	}, logger.Nop())
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

func jobCompleted(t *testing.T, techEmail string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"event": "job.completed",
		"job": map[string]any{
			"id":               "J-1",
			"type":             "Water heater install",
			"technician_email": techEmail,
			"customer":         map[string]string{"name": "Ana", "email": "ana@mail.com"},
			"address":          map[string]string{"city": "Austin", "state": "TX"},
		},
	})
	require.NoError(t, err)
	return body
}

func TestHandleCRMWebhook_FirmaInvalida(t *testing.T) {
	f := newIntegrationFixture()
	body := jobCompleted(t, "")

	_, err := f.uc.HandleCRMWebhook(context.Background(), entity.CRMJobber, "c1", body, "sha256=deadbeef")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	f.repo.AssertNotCalled(t, "GetCRM", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.checkIns.created)
}

func TestHandleCRMWebhook_CreaVisita(t *testing.T) {
	f := newIntegrationFixture()
	cfg := json.RawMessage(`{"send_review_request":true}`)
	f.repo.On("GetCRM", mock.Anything, "c1", entity.CRMJobber).Return(&entity.CRMIntegration{ID: "i1", Active: true, Config: cfg}, nil)
	f.repo.On("TouchCRMEvent", mock.Anything, "i1").Return(nil)
	f.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", Status: entity.CompanyStatusActive}, nil)
	f.technicians.On("GetByEmail", mock.Anything, "c1", "luis@acme.com").Return(&entity.Technician{ID: "t1", Email: "luis@acme.com", Active: true}, nil)

	body := jobCompleted(t, "LUIS@acme.com")
	out, err := f.uc.HandleCRMWebhook(context.Background(), entity.CRMJobber, "c1", body, "sha256="+signature.Sign(crmSecret, body))
	require.NoError(t, err)
	assert.False(t, out.Ignored)
	require.Len(t, f.checkIns.created, 1)
	c := f.checkIns.created[0]
	assert.Equal(t, out.CheckInID, c.ID)
	assert.Equal(t, "t1", c.TechnicianID)
	assert.Equal(t, "Water heater install", c.JobType)
	assert.Equal(t, "Austin", c.City)
	assert.True(t, f.checkIns.sendReview)
	f.repo.AssertExpectations(t)
}

func TestHandleCRMWebhook_TecnicoFueraDeLaPrimeraPagina(t *testing.T) {
	f := newIntegrationFixture()
	f.repo.On("GetCRM", mock.Anything, "c1", entity.CRMJobber).Return(&entity.CRMIntegration{ID: "i1", Active: true}, nil)
	f.repo.On("TouchCRMEvent", mock.Anything, "i1").Return(nil)
	f.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", Status: entity.CompanyStatusActive}, nil)
	// 100 técnicos con nombres anteriores a "Zoe" ocuparían la primera página de List.
	page := make([]*entity.Technician, 0, 100)
	for i := 0; i < 100; i++ {
		page = append(page, &entity.Technician{ID: fmt.Sprintf("t%03d", i), Email: fmt.Sprintf("tech%03d@acme.com", i), Active: true})
	}
	f.technicians.On("List", mock.Anything, "c1", mock.Anything, mock.Anything).Return(page, nil).Maybe()
	f.technicians.On("GetByEmail", mock.Anything, "c1", "zoe@acme.com").Return(&entity.Technician{ID: "t-zoe", Email: "zoe@acme.com", Active: true}, nil)

	body := jobCompleted(t, "zoe@acme.com")
	out, err := f.uc.HandleCRMWebhook(context.Background(), entity.CRMJobber, "c1", body, signature.Sign(crmSecret, body))
	require.NoError(t, err)
	require.Len(t, f.checkIns.created, 1)
	assert.Equal(t, "t-zoe", f.checkIns.created[0].TechnicianID)
	assert.Equal(t, out.CheckInID, f.checkIns.created[0].ID)
}

func TestHandleCRMWebhook_SinTecnicoUsaDefault(t *testing.T) {
	f := newIntegrationFixture()
	cfg := json.RawMessage(`{"default_technician_id":"t-def"}`)
	f.repo.On("GetCRM", mock.Anything, "c1", entity.CRMJobber).Return(&entity.CRMIntegration{ID: "i1", Active: true, Config: cfg}, nil)
	f.repo.On("TouchCRMEvent", mock.Anything, "i1").Return(nil)
	f.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", Status: entity.CompanyStatusActive}, nil)
	f.technicians.On("GetByEmail", mock.Anything, "c1", "nadie@acme.com").Return(nil, nil)
	f.technicians.On("GetByID", mock.Anything, "c1", "t-def").Return(&entity.Technician{ID: "t-def", Active: true}, nil)

	body := jobCompleted(t, "nadie@acme.com")
	_, err := f.uc.HandleCRMWebhook(context.Background(), entity.CRMJobber, "c1", body, signature.Sign(crmSecret, body))
	require.NoError(t, err)
	require.Len(t, f.checkIns.created, 1)
	assert.Equal(t, "t-def", f.checkIns.created[0].TechnicianID)
}

func TestHandleCRMWebhook_ConfigCorruptaNoBloquea(t *testing.T) {
	f := newIntegrationFixture()
	f.repo.On("GetCRM", mock.Anything, "c1", entity.CRMJobber).Return(&entity.CRMIntegration{ID: "i1", Active: true, Config: json.RawMessage(`{roto`)}, nil)
	f.repo.On("TouchCRMEvent", mock.Anything, "i1").Return(errors.New("db caída"))
	f.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", Status: entity.CompanyStatusActive}, nil)
	f.technicians.On("GetByEmail", mock.Anything, "c1", "luis@acme.com").Return(&entity.Technician{ID: "t1", Active: true}, nil)

	body := jobCompleted(t, "luis@acme.com")
	out, err := f.uc.HandleCRMWebhook(context.Background(), entity.CRMJobber, "c1", body, signature.Sign(crmSecret, body))
	require.NoError(t, err)
	assert.NotEmpty(t, out.CheckInID)
	assert.False(t, f.checkIns.sendReview, "config ilegible equivale a config vacía")
	f.repo.AssertExpectations(t)
}

func TestHandleCRMWebhook_EventoIgnorado(t *testing.T) {
	f := newIntegrationFixture()
	f.repo.On("GetCRM", mock.Anything, "c1", entity.CRMGeneric).Return(&entity.CRMIntegration{ID: "i1", Active: true}, nil)
	f.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", Status: entity.CompanyStatusActive}, nil)

	body := []byte(`{"event":"job.scheduled"}`)
	out, err := f.uc.HandleCRMWebhook(context.Background(), entity.CRMGeneric, "c1", body, signature.Sign(crmSecret, body))
	require.NoError(t, err)
	assert.True(t, out.Ignored)
	assert.Empty(t, f.checkIns.created)
}

func TestHandleCRMWebhook_IntegracionInactiva(t *testing.T) {
	f := newIntegrationFixture()
	f.repo.On("GetCRM", mock.Anything, "c1", entity.CRMJobber).Return(&entity.CRMIntegration{ID: "i1", Active: false}, nil)

	body := jobCompleted(t, "")
	_, err := f.uc.HandleCRMWebhook(context.Background(), entity.CRMJobber, "c1", body, signature.Sign(crmSecret, body))
	assert.ErrorIs(t, err, domain.ErrIntegrationDisabled)
}

func TestRotateAPIKey_YAutenticacion(t *testing.T) {
	f := newIntegrationFixture()
	company := &entity.Company{ID: "c1", Status: entity.CompanyStatusActive}
	f.companies.On("GetByID", mock.Anything, "c1").Return(company, nil)
	f.companies.On("Update", mock.Anything, company).Return(nil)

	out, err := f.uc.RotateAPIKey(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.APIKey, "rip_"))
	assert.Equal(t, HashAPIKey(out.APIKey), company.WPAPIKeyHash)
	assert.NotContains(t, company.WPAPIKeyHash, out.APIKey)

	f.companies.On("GetByAPIKeyHash", mock.Anything, HashAPIKey(out.APIKey)).Return(company, nil)
	f.companies.On("GetByAPIKeyHash", mock.Anything, HashAPIKey("rip_otra")).Return(nil, nil)

	got, err := f.uc.CompanyByAPIKey(context.Background(), out.APIKey)
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)

	_, err = f.uc.CompanyByAPIKey(context.Background(), "rip_otra")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.uc.CompanyByAPIKey(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPluginDownload(t *testing.T) {
	f := newIntegrationFixture()
	out, err := f.uc.PluginDownload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/plugins/rank-it-pro.zip", out.URL)
	assert.Equal(t, fixedNow.Add(15*time.Minute), out.ExpiresAt)
}
