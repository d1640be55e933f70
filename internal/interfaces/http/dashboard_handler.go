package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/rankitpro-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
// Cada dashboard está restringido por rol en el router.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Admin métricas globales de la plataforma.
// GET /api/dashboard/admin
//
// Respuesta: AdminDashboardDTO (empresas por plan y estado, MRR, visitas y reseñas del mes).
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	out, err := h.uc.Admin(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Company resumen de la empresa del token.
// GET /api/dashboard/company
//
// Respuesta: CompanyDashboardDTO (consumo del plan, top técnicos, visitas recientes).
func (h *DashboardHandler) Company(c *fiber.Ctx) error {
	out, err := h.uc.Company(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Technician métricas propias del técnico autenticado.
// GET /api/dashboard/technician
func (h *DashboardHandler) Technician(c *fiber.Ctx) error {
	out, err := h.uc.Technician(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sales cartera y comisiones del vendedor autenticado.
// GET /api/dashboard/sales
func (h *DashboardHandler) Sales(c *fiber.Ctx) error {
	out, err := h.uc.Sales(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
