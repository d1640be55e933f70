package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
)

// BlogHandler posts del blog de la empresa y feed RSS público.
type BlogHandler struct {
	uc     *usecase.BlogUseCase
	apiURL string // URL pública de la API, base de los enlaces del feed
}

func NewBlogHandler(uc *usecase.BlogUseCase, apiURL string) *BlogHandler {
	return &BlogHandler{uc: uc, apiURL: apiURL}
}

// Create godoc
// @Summary      Crear post
// @Tags         blog-posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateBlogPostRequest  true  "Título y contenido"
// @Success      201   {object}  dto.BlogPostResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/blog-posts [post]
func (h *BlogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBlogPostRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Title == "" || in.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "title y content son requeridos"})
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Generate godoc
// @Summary      Generar borrador desde una visita
// @Description  Usa el LLM configurado; sin LLM se genera un borrador por plantilla.
// @Tags         blog-posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.GenerateBlogPostRequest  true  "check_in_id"
// @Success      201   {object}  dto.BlogPostResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/blog-posts/generate [post]
func (h *BlogHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateBlogPostRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.CheckInID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "check_in_id es requerido"})
	}
	out, err := h.uc.Generate(c.UserContext(), GetCompanyID(c), in.CheckInID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener post
// @Tags         blog-posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del post"
// @Success      200  {object}  dto.BlogPostResponse
// @Router       /api/blog-posts/{id} [get]
func (h *BlogHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar posts
// @Tags         blog-posts
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "draft | published"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.BlogPostListResponse
// @Router       /api/blog-posts [get]
func (h *BlogHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar post
// @Tags         blog-posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true  "ID del post"
// @Param        body  body  dto.UpdateBlogPostRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.BlogPostResponse
// @Router       /api/blog-posts/{id} [put]
func (h *BlogHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBlogPostRequest
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
// @Summary      Eliminar post
// @Tags         blog-posts
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del post"
// @Success      204
// @Router       /api/blog-posts/{id} [delete]
func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Publish godoc
// @Summary      Publicar post
// @Description  Publica en WordPress si la integración está configurada.
// @Tags         blog-posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del post"
// @Success      200  {object}  dto.BlogPostResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/blog-posts/{id}/publish [post]
func (h *BlogHandler) Publish(c *fiber.Ctx) error {
	out, err := h.uc.Publish(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Feed godoc
// @Summary      Feed RSS de posts publicados
// @Tags         public
// @Produce      application/rss+xml
// @Param        slug  path  string  true  "Slug de la empresa"
// @Success      200   {string}  string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/public/companies/{slug}/feed.xml [get]
func (h *BlogHandler) Feed(c *fiber.Ctx) error {
	data, err := h.uc.Feed(c.UserContext(), c.Params("slug"), h.apiURL)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/rss+xml; charset=utf-8")
	return c.Send(data)
}
