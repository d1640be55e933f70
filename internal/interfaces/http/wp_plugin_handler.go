package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
)

const wpMaxItems = 50

// WPPluginHandler endpoints de solo lectura que consume el plugin de WordPress
// (autenticados con X-API-Key).
type WPPluginHandler struct {
	checkIns *usecase.CheckInUseCase
	reviews  *usecase.ReviewUseCase
	blog     *usecase.BlogUseCase
}

func NewWPPluginHandler(checkIns *usecase.CheckInUseCase, reviews *usecase.ReviewUseCase, blog *usecase.BlogUseCase) *WPPluginHandler {
	return &WPPluginHandler{checkIns: checkIns, reviews: reviews, blog: blog}
}

func wpLimit(c *fiber.Ctx) int {
	n := c.QueryInt("limit", 10)
	if n <= 0 {
		return 10
	}
	if n > wpMaxItems {
		return wpMaxItems
	}
	return n
}

// CheckIns godoc
// @Summary      Visitas recientes (plugin)
// @Tags         wordpress-plugin
// @Produce      json
// @Param        X-API-Key  header  string  true   "API key de la empresa"
// @Param        limit      query   int     false  "Máximo 50"  default(10)
// @Success      200  {array}  dto.CheckInResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/wp/check-ins [get]
func (h *WPPluginHandler) CheckIns(c *fiber.Ctx) error {
	out, err := h.checkIns.RecentForCompany(c.UserContext(), GetCompanyID(c), wpLimit(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reviews godoc
// @Summary      Reseñas públicas (plugin)
// @Tags         wordpress-plugin
// @Produce      json
// @Param        X-API-Key  header  string  true   "API key de la empresa"
// @Param        limit      query   int     false  "Máximo 50"  default(10)
// @Success      200  {array}  dto.ReviewItemResponse
// @Router       /api/wp/reviews [get]
func (h *WPPluginHandler) Reviews(c *fiber.Ctx) error {
	out, err := h.reviews.PublicReviews(c.UserContext(), GetCompanyID(c), wpLimit(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BlogPosts godoc
// @Summary      Posts publicados (plugin)
// @Tags         wordpress-plugin
// @Produce      json
// @Param        X-API-Key  header  string  true   "API key de la empresa"
// @Param        limit      query   int     false  "Máximo 50"  default(10)
// @Success      200  {array}  dto.BlogPostResponse
// @Router       /api/wp/blog-posts [get]
func (h *WPPluginHandler) BlogPosts(c *fiber.Ctx) error {
	out, err := h.blog.PublishedPosts(c.UserContext(), GetCompanyID(c), wpLimit(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
