package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
)

// ReviewHandler solicitudes de reseña (privado) y formulario público del cliente.
type ReviewHandler struct {
	uc *usecase.ReviewUseCase
}

func NewReviewHandler(uc *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de reseña
// @Tags         review-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateReviewRequestRequest  true  "Cliente y método de envío"
// @Success      201   {object}  dto.ReviewRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/review-requests [post]
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReviewRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.CustomerEmail == "" && in.CustomerPhone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_email o customer_phone es requerido"})
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud de reseña
// @Tags         review-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ReviewRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/review-requests/{id} [get]
func (h *ReviewHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de reseña
// @Tags         review-requests
// @Produce      json
// @Security     BearerAuth
// @Param        technician_id  query  string  false  "Filtrar por técnico"
// @Param        limit          query  int     false  "Límite"  default(20)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200            {object}  dto.ReviewRequestListResponse
// @Router       /api/review-requests [get]
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), c.Query("technician_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Resend godoc
// @Summary      Reenviar solicitud de reseña
// @Tags         review-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ReviewRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/review-requests/{id}/resend [post]
func (h *ReviewHandler) Resend(c *fiber.Ctx) error {
	out, err := h.uc.Resend(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Conteos por estado y calificación promedio
// @Tags         review-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ReviewStatsResponse
// @Router       /api/review-requests/stats [get]
func (h *ReviewHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PublicGet godoc
// @Summary      Datos del formulario público de reseña
// @Tags         public
// @Produce      json
// @Param        token  path  string  true  "Token de la solicitud"
// @Success      200    {object}  dto.PublicReviewResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/public/reviews/{token} [get]
func (h *ReviewHandler) PublicGet(c *fiber.Ctx) error {
	out, err := h.uc.GetPublic(c.UserContext(), c.Params("token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PublicSubmit godoc
// @Summary      Enviar reseña del cliente
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        token  path  string                   true  "Token de la solicitud"
// @Param        body   body  dto.SubmitReviewRequest  true  "rating 1..5 y comentario"
// @Success      201    {object}  dto.MessageResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/public/reviews/{token} [post]
func (h *ReviewHandler) PublicSubmit(c *fiber.Ctx) error {
	var in dto.SubmitReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rating debe estar entre 1 y 5"})
	}
	if err := h.uc.Submit(c.UserContext(), c.Params("token"), in); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "¡gracias por su reseña!"})
}
