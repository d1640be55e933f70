package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
)

const maxPhotoBytes = 10 << 20

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CheckInHandler visitas de técnicos.
type CheckInHandler struct {
	uc *usecase.CheckInUseCase
}

func NewCheckInHandler(uc *usecase.CheckInUseCase) *CheckInHandler {
	return &CheckInHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar visita
// @Description  Opcionalmente crea la solicitud de reseña y un borrador de blog.
// @Tags         check-ins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateCheckInRequest  true  "Datos de la visita"
// @Success      201   {object}  dto.CheckInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Router       /api/check-ins [post]
func (h *CheckInHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCheckInRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.JobType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "job_type es requerido"})
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener visita
// @Tags         check-ins
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la visita"
// @Success      200  {object}  dto.CheckInResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/check-ins/{id} [get]
func (h *CheckInHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar visitas
// @Tags         check-ins
// @Produce      json
// @Security     BearerAuth
// @Param        technician_id  query  string  false  "Filtrar por técnico"
// @Param        from           query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to             query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit          query  int     false  "Límite"  default(20)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200            {object}  dto.CheckInListResponse
// @Router       /api/check-ins [get]
func (h *CheckInHandler) List(c *fiber.Ctx) error {
	var q dto.CheckInQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar visita
// @Tags         check-ins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID de la visita"
// @Param        body  body  dto.UpdateCheckInRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.CheckInResponse
// @Router       /api/check-ins/{id} [put]
func (h *CheckInHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCheckInRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar visita (soft delete)
// @Tags         check-ins
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la visita"
// @Success      204
// @Router       /api/check-ins/{id} [delete]
func (h *CheckInHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadPhoto godoc
// @Summary      Subir foto de la visita
// @Description  Guarda el original y una miniatura JPEG de 320px.
// @Tags         check-ins
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "ID de la visita"
// @Param        photo  formData  file    true  "Imagen JPEG o PNG"
// @Success      201    {object}  dto.PhotoUploadResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/check-ins/{id}/photos [post]
func (h *CheckInHandler) UploadPhoto(c *fiber.Ctx) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido en el campo photo"})
	}
	if fh.Size > maxPhotoBytes {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: fmt.Sprintf("la foto supera %d MB", maxPhotoBytes>>20)})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AddPhoto(c.UserContext(), GetPrincipal(c), c.Params("id"), fh.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Export godoc
// @Summary      Exportar visitas a Excel
// @Tags         check-ins
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        technician_id  query  string  false  "Filtrar por técnico"
// @Param        from           query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to             query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Router       /api/check-ins/export [get]
func (h *CheckInHandler) Export(c *fiber.Ctx) error {
	var q dto.CheckInQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	data, err := h.uc.Export(c.UserContext(), GetPrincipal(c), q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxMIME)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="check-ins.xlsx"`)
	return c.Send(data)
}
