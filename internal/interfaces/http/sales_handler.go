package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
)

// SalesHandler cartera y comisiones de vendedores.
type SalesHandler struct {
	uc *usecase.SalesUseCase
}

func NewSalesHandler(uc *usecase.SalesUseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Companies godoc
// @Summary      Empresas referidas por el vendedor
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CompanyResponse
// @Router       /api/sales/companies [get]
func (h *SalesHandler) Companies(c *fiber.Ctx) error {
	out, err := h.uc.Companies(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MyCommissions godoc
// @Summary      Comisiones propias
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "pending | paid"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.CommissionListResponse
// @Router       /api/sales/commissions [get]
func (h *SalesHandler) MyCommissions(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.Commissions(c.UserContext(), GetUserID(c), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AllCommissions godoc
// @Summary      Comisiones de todos los vendedores
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        sales_user_id  query  string  false  "Filtrar por vendedor"
// @Param        status         query  string  false  "pending | paid"
// @Success      200            {object}  dto.CommissionListResponse
// @Router       /api/admin/commissions [get]
func (h *SalesHandler) AllCommissions(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.Commissions(c.UserContext(), c.Query("sales_user_id"), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PayCommission godoc
// @Summary      Marcar comisión como pagada
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la comisión"
// @Success      200  {object}  dto.CommissionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/commissions/{id}/pay [post]
func (h *SalesHandler) PayCommission(c *fiber.Ctx) error {
	out, err := h.uc.PayCommission(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
