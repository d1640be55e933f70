// Package bootstrap arma las dependencias compartidas por cmd/api, cmd/worker y cmd/rankctl.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	appanalytics "github.com/jhoicas/rankitpro-api/internal/application/analytics"
	"github.com/jhoicas/rankitpro-api/internal/application/auth"
	"github.com/jhoicas/rankitpro-api/internal/application/billing"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
	infraai "github.com/jhoicas/rankitpro-api/internal/infrastructure/ai"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/cache"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/feed"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/jobs"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/notify"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/payments"
	infrapdf "github.com/jhoicas/rankitpro-api/internal/infrastructure/pdf"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/postgres"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/queue"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/storage"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/wordpress"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/xlsx"
	"github.com/jhoicas/rankitpro-api/pkg/config"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

const memoryQueueSize = 1024

// cacheStore une los tres puertos que implementan Redis y la caché en memoria.
type cacheStore interface {
	ports.Cache
	ports.RateLimiter
	ports.TokenRevoker
}

// Container casos de uso listos para usar más los recursos que hay que cerrar.
type Container struct {
	Config *config.Config
	Log    *logger.Logger
	Pool   *pgxpool.Pool
	Cache  cacheStore
	Queue  ports.ReviewQueue
	// InMemoryQueue indica que no hay broker: el proceso de la API consume su propia cola.
	InMemoryQueue bool

	Auth         *auth.AuthUseCase
	Companies    *usecase.CompanyUseCase
	Users        *usecase.UserUseCase
	Technicians  *usecase.TechnicianUseCase
	CheckIns     *usecase.CheckInUseCase
	Reviews      *usecase.ReviewUseCase
	Blog         *usecase.BlogUseCase
	Integrations *usecase.IntegrationUseCase
	Sales        *usecase.SalesUseCase
	Subscription *billing.SubscriptionUseCase
	InvoicePDF   *billing.PDFUseCase
	Dashboard    *appanalytics.DashboardUseCase

	closers []func()
}

// New conecta PostgreSQL, Redis, MinIO y la cola, y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	c.Pool = pool
	c.closers = append(c.closers, pool.Close)

	// ── Redis (caché, rate limit de login, revocación) ──
	redisCache, err := connectRedis(ctx, cfg.Redis)
	switch {
	case err == nil:
		c.Cache = redisCache
		c.closers = append(c.closers, func() { _ = redisCache.Close() })
	case cfg.App.IsProduction():
		c.Close()
		return nil, err
	default:
		log.Warn().Err(err).Msg("Redis no disponible, se usa caché en memoria")
		c.Cache = cache.NewMemoryCache()
	}

	// ── Cola de solicitudes de reseña ──
	if cfg.Queue.AMQPURL != "" {
		q, err := queue.NewAMQPQueue(cfg.Queue.AMQPURL, cfg.Queue.ReviewQueue, log)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("conexión a AMQP: %w", err)
		}
		c.Queue = q
	} else {
		log.Warn().Msg("AMQP_URL vacío, se usa cola en memoria")
		c.Queue = queue.NewInMemoryQueue(memoryQueueSize, log)
		c.InMemoryQueue = true
	}
	c.closers = append(c.closers, func() { _ = c.Queue.Close() })

	objects, err := storage.NewMinioStorage(cfg.Storage)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("almacenamiento de objetos: %w", err)
	}

	// ── Repositorios ──
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	technicianRepo := postgres.NewTechnicianRepository(pool)
	checkInRepo := postgres.NewCheckInRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	blogRepo := postgres.NewBlogPostRepository(pool)
	integrationRepo := postgres.NewIntegrationRepository(pool)
	billingRepo := postgres.NewBillingRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// ── Adaptadores ──
	var email ports.EmailSender = notify.NewLogSender(log)
	if cfg.SMTP.Host != "" {
		email = notify.NewSMTPSender(cfg.SMTP)
	}
	var sms ports.SMSSender = notify.NewLogSender(log)
	if cfg.SMS.AccountSID != "" {
		sms = notify.NewTwilioSender(cfg.SMS)
	}
	var generator ports.BlogGenerator = infraai.NewTemplateGenerator()
	if anthropic := infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel); anthropic.Configured() {
		generator = infraai.NewFallbackGenerator(anthropic, generator, log)
	}
	var payer ports.PaymentProvider = payments.NewManualProvider()
	if cfg.Billing.ProviderURL != "" {
		payer = payments.NewHTTPProvider(cfg.Billing)
	}
	codec := xlsx.NewCodec()

	// ── Casos de uso ──
	c.Auth = auth.NewAuthUseCase(userRepo, companyRepo, planRepo, txRunner, c.Cache, c.Cache, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	c.Companies = usecase.NewCompanyUseCase(companyRepo, planRepo, userRepo, technicianRepo, checkInRepo)
	c.Users = usecase.NewUserUseCase(userRepo, companyRepo)
	c.Technicians = usecase.NewTechnicianUseCase(technicianRepo, companyRepo, planRepo, userRepo, codec)
	c.Reviews = usecase.NewReviewUseCase(reviewRepo, companyRepo, technicianRepo, c.Queue, email, sms, cfg.App.PublicURL, log)
	c.Blog = usecase.NewBlogUseCase(blogRepo, checkInRepo, companyRepo, technicianRepo, integrationRepo,
		generator, wordpress.NewClient(), feed.NewRSSRenderer(), log)
	c.CheckIns = usecase.NewCheckInUseCase(checkInRepo, technicianRepo, companyRepo, planRepo,
		c.Reviews, c.Blog, objects, storage.NewThumbnailer(), codec, log)
	c.Integrations = usecase.NewIntegrationUseCase(integrationRepo, companyRepo, technicianRepo, c.CheckIns, objects, usecase.IntegrationConfig{
		APIURL:           cfg.App.APIURL,
		PluginObject:     cfg.Storage.PluginObject,
		CRMWebhookSecret: cfg.CRM.WebhookSecret,
	}, log)
	c.Sales = usecase.NewSalesUseCase(companyRepo, billingRepo)
	c.Subscription = billing.NewSubscriptionUseCase(companyRepo, planRepo, billingRepo, technicianRepo, txRunner,
		payer, cfg.Billing.Currency, cfg.Billing.WebhookSecret, log)
	c.InvoicePDF = billing.NewPDFUseCase(billingRepo, companyRepo, planRepo, infrapdf.NewMarotoInvoiceRenderer(cfg.App.Name))
	c.Dashboard = appanalytics.NewDashboardUseCase(dashboardRepo, userRepo, technicianRepo, checkInRepo, c.Companies, c.Cache, log)

	return c, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*cache.RedisCache, error) {
	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	rc := cache.NewRedisCache(client)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conexión a Redis: %w", err)
	}
	return rc, nil
}

// Tasks tareas periódicas del sistema.
func (c *Container) Tasks() []jobs.Task {
	return []jobs.Task{
		{
			Name:     jobs.ReviewDispatch,
			Interval: time.Minute,
			Run:      c.Reviews.DispatchPending,
		},
		{
			Name:     jobs.ReviewReminders,
			Interval: time.Hour,
			Run:      c.Reviews.SendReminders,
		},
		{
			Name:     jobs.SubscriptionRenewals,
			Interval: time.Hour,
			Run: func(ctx context.Context) error {
				n, err := c.Subscription.RunRenewals(ctx)
				if n > 0 {
					c.Log.Info().Int("companies", n).Msg("renovaciones procesadas")
				}
				return err
			},
		},
	}
}

// Scheduler scheduler con todas las tareas registradas, sin arrancar.
func (c *Container) Scheduler() (*jobs.Scheduler, error) {
	s, err := jobs.NewScheduler(c.Log)
	if err != nil {
		return nil, err
	}
	for _, t := range c.Tasks() {
		if err := s.Register(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Ping verifica PostgreSQL y, si es Redis, la caché.
func (c *Container) Ping(ctx context.Context) error {
	if err := c.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if p, ok := c.Cache.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close libera conexiones en orden inverso.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
