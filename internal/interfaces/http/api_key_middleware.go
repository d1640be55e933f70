package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// apiKeyAuthenticator lo implementa *usecase.IntegrationUseCase.
type apiKeyAuthenticator interface {
	CompanyByAPIKey(ctx context.Context, key string) (*entity.Company, error)
}

// APIKeyMiddleware autentica al plugin de WordPress por el header X-API-Key y deja
// la empresa en c.Locals(LocalCompany) y su id en LocalCompanyID.
func APIKeyMiddleware(auth apiKeyAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_API_KEY", Message: "header X-API-Key requerido"})
		}
		company, err := auth.CompanyByAPIKey(c.UserContext(), key)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalCompany, company)
		c.Locals(LocalCompanyID, company.ID)
		return c.Next()
	}
}

// companyStatusChecker lo implementa *usecase.CompanyUseCase.
type companyStatusChecker interface {
	IsActive(ctx context.Context, companyID string) (bool, error)
}

// RequireActiveCompany bloquea las rutas de tenant cuando la empresa fue suspendida
// después de emitido el token. Debe usarse DESPUÉS de AuthMiddleware.
//   - 403 COMPANY_INACTIVE → empresa suspendida, inactiva o eliminada.
//   - 503 → fallo al consultar la DB.
//
// Tokens sin company_id (super_admin, sales_staff) pasan sin consulta.
func RequireActiveCompany(checker companyStatusChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Next()
		}
		active, err := checker.IsActive(c.UserContext(), companyID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "COMPANY_CHECK_FAILED",
				Message: "no se pudo verificar la empresa, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "COMPANY_INACTIVE",
				Message: "la empresa no está activa",
			})
		}
		return c.Next()
	}
}
