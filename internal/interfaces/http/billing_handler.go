package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/billing"
	"github.com/jhoicas/rankitpro-api/internal/application/dto"
)

// BillingHandler planes, suscripción, facturas y webhook del proveedor de pagos.
type BillingHandler struct {
	subs *billing.SubscriptionUseCase
	pdf  *billing.PDFUseCase
}

func NewBillingHandler(subs *billing.SubscriptionUseCase, pdf *billing.PDFUseCase) *BillingHandler {
	return &BillingHandler{subs: subs, pdf: pdf}
}

// Plans godoc
// @Summary      Planes disponibles
// @Tags         billing
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/billing/plans [get]
func (h *BillingHandler) Plans(c *fiber.Ctx) error {
	out, err := h.subs.ListPlans(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Subscription godoc
// @Summary      Suscripción actual
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SubscriptionResponse
// @Router       /api/billing/subscription [get]
func (h *BillingHandler) Subscription(c *fiber.Ctx) error {
	out, err := h.subs.GetSubscription(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangePlan godoc
// @Summary      Cambiar de plan
// @Description  Emite la factura del nuevo periodo y la cobra con el proveedor de pagos.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ChangePlanRequest  true  "plan_id"
// @Success      200   {object}  dto.SubscriptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Router       /api/billing/subscription [post]
func (h *BillingHandler) ChangePlan(c *fiber.Ctx) error {
	var in dto.ChangePlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "plan_id es requerido"})
	}
	out, err := h.subs.ChangePlan(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar suscripción
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/billing/cancel [post]
func (h *BillingHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.subs.Cancel(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Invoices godoc
// @Summary      Facturas de la empresa
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.InvoiceListResponse
// @Router       /api/billing/invoices [get]
func (h *BillingHandler) Invoices(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.subs.ListInvoices(c.UserContext(), GetCompanyID(c), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// InvoicePDF godoc
// @Summary      Descargar factura en PDF
// @Tags         billing
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/billing/invoices/{id}/pdf [get]
func (h *BillingHandler) InvoicePDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.InvoicePDF(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// Webhook godoc
// @Summary      Webhook del proveedor de pagos
// @Description  Eventos invoice.paid, invoice.payment_failed y subscription.canceled firmados con HMAC-SHA256 en X-Signature.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        X-Signature  header  string  true  "HMAC-SHA256 del cuerpo"
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/billing/webhook [post]
func (h *BillingHandler) Webhook(c *fiber.Ctx) error {
	if err := h.subs.HandleWebhook(c.UserContext(), c.Body(), c.Get("X-Signature")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "ok"})
}
