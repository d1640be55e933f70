package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	appanalytics "github.com/jhoicas/rankitpro-api/internal/application/analytics"
	"github.com/jhoicas/rankitpro-api/internal/application/auth"
	"github.com/jhoicas/rankitpro-api/internal/application/billing"
	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CompanyUC      *usecase.CompanyUseCase
	UserUC         *usecase.UserUseCase
	TechnicianUC   *usecase.TechnicianUseCase
	CheckInUC      *usecase.CheckInUseCase
	ReviewUC       *usecase.ReviewUseCase
	BlogUC         *usecase.BlogUseCase
	IntegrationUC  *usecase.IntegrationUseCase
	SalesUC        *usecase.SalesUseCase
	SubscriptionUC *billing.SubscriptionUseCase
	InvoicePDF     *billing.PDFUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	JWTSecret      string
	APIURL         string
	CORSOrigins    string
	// Ping comprueba dependencias para /health (nil = siempre ok).
	Ping func(ctx context.Context) error
}

const (
	superAdmin   = entity.RoleSuperAdmin
	companyAdmin = entity.RoleCompanyAdmin
	technician   = entity.RoleTechnician
	salesStaff   = entity.RoleSalesStaff
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key, X-Signature",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	userHandler := NewUserHandler(deps.UserUC)
	technicianHandler := NewTechnicianHandler(deps.TechnicianUC)
	checkInHandler := NewCheckInHandler(deps.CheckInUC)
	reviewHandler := NewReviewHandler(deps.ReviewUC)
	blogHandler := NewBlogHandler(deps.BlogUC, deps.APIURL)
	integrationHandler := NewIntegrationHandler(deps.IntegrationUC)
	wpHandler := NewWPPluginHandler(deps.CheckInUC, deps.ReviewUC, deps.BlogUC)
	billingHandler := NewBillingHandler(deps.SubscriptionUC, deps.InvoicePDF)
	salesHandler := NewSalesHandler(deps.SalesUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)

	validID := ValidIDParams("id", "company_id")

	// Auth (público); login y registro con límite por IP
	authGroup := api.Group("/auth")
	authGroup.Post("/login", ipLimiter(20), authHandler.Login)
	authGroup.Post("/register", ipLimiter(10), authHandler.Register)

	// Público
	public := api.Group("/public")
	public.Get("/reviews/:token", reviewHandler.PublicGet)
	public.Post("/reviews/:token", ipLimiter(30), reviewHandler.PublicSubmit)
	public.Get("/companies/:slug/feed.xml", blogHandler.Feed)
	api.Get("/billing/plans", billingHandler.Plans)
	api.Post("/billing/webhook", billingHandler.Webhook)
	api.Post("/integrations/crm/:provider/webhook/:company_id", validID, integrationHandler.CRMWebhook)

	// Plugin de WordPress (X-API-Key)
	wp := api.Group("/wp", APIKeyMiddleware(deps.IntegrationUC))
	wp.Get("/check-ins", wpHandler.CheckIns)
	wp.Get("/reviews", wpHandler.Reviews)
	wp.Get("/blog-posts", wpHandler.BlogPosts)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC), RequireActiveCompany(deps.CompanyUC))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Put("/auth/password", authHandler.ChangePassword)

	// Companies: rutas /current antes que /:id
	companies := protected.Group("/companies")
	companies.Get("/current", RequireRole(companyAdmin, technician), companyHandler.Current)
	companies.Put("/current", RequireRole(companyAdmin), companyHandler.UpdateCurrent)
	companies.Get("/current/usage", RequireRole(companyAdmin), companyHandler.Usage)
	companies.Get("/", RequireRole(superAdmin), companyHandler.List)
	companies.Post("/", RequireRole(superAdmin), companyHandler.Create)
	companies.Get("/:id", RequireRole(superAdmin), validID, companyHandler.GetByID)
	companies.Put("/:id", RequireRole(superAdmin), validID, companyHandler.Update)
	companies.Delete("/:id", RequireRole(superAdmin), validID, companyHandler.Delete)
	companies.Put("/:id/sales-rep", RequireRole(superAdmin), validID, companyHandler.AssignSalesRep)

	users := protected.Group("/users", RequireRole(superAdmin, companyAdmin))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", validID, userHandler.Update)
	users.Delete("/:id", validID, userHandler.Delete)

	// Rutas de tenant: exigen empresa en el token. No se usa un grupo "/" porque
	// su middleware aplicaría también a /sales, /admin y /dashboard.
	tenant := RequireCompany()

	technicians := protected.Group("/technicians", tenant)
	technicians.Get("/", RequireRole(companyAdmin, technician), technicianHandler.List)
	technicians.Post("/", RequireRole(companyAdmin), technicianHandler.Create)
	technicians.Post("/import", RequireRole(companyAdmin), technicianHandler.Import)
	technicians.Get("/:id", RequireRole(companyAdmin, technician), validID, technicianHandler.GetByID)
	technicians.Put("/:id", RequireRole(companyAdmin), validID, technicianHandler.Update)
	technicians.Delete("/:id", RequireRole(companyAdmin), validID, technicianHandler.Delete)
	technicians.Get("/:id/stats", RequireRole(companyAdmin, technician), validID, technicianHandler.Stats)

	checkIns := protected.Group("/check-ins", tenant, RequireRole(companyAdmin, technician))
	checkIns.Get("/export", checkInHandler.Export)
	checkIns.Get("/", checkInHandler.List)
	checkIns.Post("/", checkInHandler.Create)
	checkIns.Get("/:id", validID, checkInHandler.GetByID)
	checkIns.Put("/:id", validID, checkInHandler.Update)
	checkIns.Delete("/:id", validID, checkInHandler.Delete)
	checkIns.Post("/:id/photos", validID, checkInHandler.UploadPhoto)

	reviews := protected.Group("/review-requests", tenant, RequireRole(companyAdmin, technician))
	reviews.Get("/stats", reviewHandler.Stats)
	reviews.Get("/", reviewHandler.List)
	reviews.Post("/", reviewHandler.Create)
	reviews.Get("/:id", validID, reviewHandler.GetByID)
	reviews.Post("/:id/resend", validID, reviewHandler.Resend)

	blog := protected.Group("/blog-posts", tenant, RequireRole(companyAdmin))
	blog.Get("/", blogHandler.List)
	blog.Post("/", blogHandler.Create)
	blog.Post("/generate", blogHandler.Generate)
	blog.Get("/:id", validID, blogHandler.GetByID)
	blog.Put("/:id", validID, blogHandler.Update)
	blog.Delete("/:id", validID, blogHandler.Delete)
	blog.Post("/:id/publish", validID, blogHandler.Publish)

	integrations := protected.Group("/integrations", tenant, RequireRole(companyAdmin))
	integrations.Get("/wordpress", integrationHandler.GetWordPress)
	integrations.Put("/wordpress", integrationHandler.SaveWordPress)
	integrations.Post("/wordpress/api-key", integrationHandler.RotateAPIKey)
	integrations.Get("/wordpress/plugin", integrationHandler.PluginDownload)
	integrations.Get("/crm", integrationHandler.ListCRM)
	integrations.Put("/crm/:provider", integrationHandler.SaveCRM)
	integrations.Delete("/crm/:provider", integrationHandler.DeleteCRM)

	billingGroup := protected.Group("/billing", tenant, RequireRole(companyAdmin))
	billingGroup.Get("/subscription", billingHandler.Subscription)
	billingGroup.Post("/subscription", billingHandler.ChangePlan)
	billingGroup.Post("/cancel", billingHandler.Cancel)
	billingGroup.Get("/invoices", billingHandler.Invoices)
	billingGroup.Get("/invoices/:id/pdf", validID, billingHandler.InvoicePDF)

	sales := protected.Group("/sales", RequireRole(salesStaff))
	sales.Get("/companies", salesHandler.Companies)
	sales.Get("/commissions", salesHandler.MyCommissions)

	admin := protected.Group("/admin", RequireRole(superAdmin))
	admin.Get("/commissions", salesHandler.AllCommissions)
	admin.Post("/commissions/:id/pay", validID, salesHandler.PayCommission)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/admin", RequireRole(superAdmin), dashboardHandler.Admin)
	dashboard.Get("/company", RequireRole(companyAdmin), RequireCompany(), dashboardHandler.Company)
	dashboard.Get("/technician", RequireRole(technician), RequireCompany(), dashboardHandler.Technician)
	dashboard.Get("/sales", RequireRole(salesStaff), dashboardHandler.Sales)
}

// ipLimiter límite por IP y minuto para endpoints públicos sensibles.
func ipLimiter(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_REQUESTS", Message: "demasiadas solicitudes, intente más tarde"})
		},
	})
}
