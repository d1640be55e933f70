package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
)

// TechnicianHandler técnicos de la empresa del token.
type TechnicianHandler struct {
	uc *usecase.TechnicianUseCase
}

func NewTechnicianHandler(uc *usecase.TechnicianUseCase) *TechnicianHandler {
	return &TechnicianHandler{uc: uc}
}

// Create godoc
// @Summary      Crear técnico
// @Tags         technicians
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTechnicianRequest  true  "Datos del técnico"
// @Success      201   {object}  dto.TechnicianResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Router       /api/technicians [post]
func (h *TechnicianHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTechnicianRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener técnico
// @Tags         technicians
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del técnico"
// @Success      200  {object}  dto.TechnicianResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/technicians/{id} [get]
func (h *TechnicianHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar técnicos
// @Tags         technicians
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.TechnicianListResponse
// @Router       /api/technicians [get]
func (h *TechnicianHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar técnico
// @Tags         technicians
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID del técnico"
// @Param        body  body  dto.UpdateTechnicianRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.TechnicianResponse
// @Router       /api/technicians/{id} [put]
func (h *TechnicianHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTechnicianRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar técnico (soft delete)
// @Tags         technicians
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del técnico"
// @Success      204
// @Router       /api/technicians/{id} [delete]
func (h *TechnicianHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats godoc
// @Summary      Estadísticas del técnico
// @Tags         technicians
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del técnico"
// @Success      200  {object}  dto.TechnicianStatsResponse
// @Router       /api/technicians/{id}/stats [get]
func (h *TechnicianHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar técnicos desde xlsx
// @Description  Columnas: name, email, phone, specialty, location. Las filas que superan el límite del plan se reportan como error.
// @Tags         technicians
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Archivo .xlsx"
// @Success      200   {object}  dto.ImportTechniciansResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/technicians/import [post]
func (h *TechnicianHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo file"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	out, err := h.uc.Import(c.UserContext(), GetCompanyID(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
