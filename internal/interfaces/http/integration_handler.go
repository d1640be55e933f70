package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
)

// IntegrationHandler WordPress y CRMs.
type IntegrationHandler struct {
	uc *usecase.IntegrationUseCase
}

func NewIntegrationHandler(uc *usecase.IntegrationUseCase) *IntegrationHandler {
	return &IntegrationHandler{uc: uc}
}

// GetWordPress godoc
// @Summary      Configuración de WordPress
// @Tags         integrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.WordPressIntegrationResponse
// @Router       /api/integrations/wordpress [get]
func (h *IntegrationHandler) GetWordPress(c *fiber.Ctx) error {
	out, err := h.uc.GetWordPress(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SaveWordPress godoc
// @Summary      Guardar configuración de WordPress
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.WordPressIntegrationRequest  true  "Sitio y Application Password"
// @Success      200   {object}  dto.WordPressIntegrationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/integrations/wordpress [put]
func (h *IntegrationHandler) SaveWordPress(c *fiber.Ctx) error {
	var in dto.WordPressIntegrationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.SiteURL == "" || in.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "site_url y username son requeridos"})
	}
	out, err := h.uc.SaveWordPress(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RotateAPIKey godoc
// @Summary      Generar nueva API key del plugin
// @Description  La key en claro se devuelve solo en esta respuesta.
// @Tags         integrations
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  dto.APIKeyResponse
// @Router       /api/integrations/wordpress/api-key [post]
func (h *IntegrationHandler) RotateAPIKey(c *fiber.Ctx) error {
	out, err := h.uc.RotateAPIKey(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PluginDownload godoc
// @Summary      URL de descarga del plugin
// @Tags         integrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PluginDownloadResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/integrations/wordpress/plugin [get]
func (h *IntegrationHandler) PluginDownload(c *fiber.Ctx) error {
	out, err := h.uc.PluginDownload(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListCRM godoc
// @Summary      Integraciones CRM
// @Tags         integrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CRMIntegrationResponse
// @Router       /api/integrations/crm [get]
func (h *IntegrationHandler) ListCRM(c *fiber.Ctx) error {
	out, err := h.uc.ListCRM(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SaveCRM godoc
// @Summary      Configurar proveedor CRM
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path  string                     true  "housecall_pro | jobber | servicetitan | generic"
// @Param        body      body  dto.CRMIntegrationRequest  true  "config y active"
// @Success      200       {object}  dto.CRMIntegrationResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/integrations/crm/{provider} [put]
func (h *IntegrationHandler) SaveCRM(c *fiber.Ctx) error {
	var in dto.CRMIntegrationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SaveCRM(c.UserContext(), GetCompanyID(c), c.Params("provider"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteCRM godoc
// @Summary      Eliminar integración CRM
// @Tags         integrations
// @Security     BearerAuth
// @Param        provider  path  string  true  "Proveedor"
// @Success      204
// @Router       /api/integrations/crm/{provider} [delete]
func (h *IntegrationHandler) DeleteCRM(c *fiber.Ctx) error {
	if err := h.uc.DeleteCRM(c.UserContext(), GetCompanyID(c), c.Params("provider")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CRMWebhook godoc
// @Summary      Webhook de CRM (trabajo completado)
// @Description  Firma HMAC-SHA256 hex del cuerpo en X-Signature.
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        provider    path    string  true  "Proveedor"
// @Param        company_id  path    string  true  "ID de la empresa"
// @Param        X-Signature header  string  true  "HMAC-SHA256 del cuerpo"
// @Success      200  {object}  dto.CRMWebhookResult
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/integrations/crm/{provider}/webhook/{company_id} [post]
func (h *IntegrationHandler) CRMWebhook(c *fiber.Ctx) error {
	out, err := h.uc.HandleCRMWebhook(c.UserContext(), c.Params("provider"), c.Params("company_id"), c.Body(), c.Get("X-Signature"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
