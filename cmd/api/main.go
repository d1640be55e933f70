package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/rankitpro-api/internal/bootstrap"
	httpRouter "github.com/jhoicas/rankitpro-api/internal/interfaces/http"
	"github.com/jhoicas/rankitpro-api/pkg/config"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("aplicación finalizada con error")
	}
	log.Info().Msg("aplicación detenida")
}

// run devuelve el error en vez de terminar el proceso para que los defer
// (scheduler, conexiones) se ejecuten siempre.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("inicializar dependencias: %w", err)
	}
	defer c.Close()

	// Sin broker la API entrega sus propias solicitudes de reseña.
	if c.InMemoryQueue {
		go func() {
			if err := c.Queue.Consume(ctx, c.Reviews.Deliver); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("consumidor en memoria finalizado")
			}
		}()
	}

	if cfg.Jobs.Enabled {
		scheduler, err := c.Scheduler()
		if err != nil {
			return fmt.Errorf("registrar tareas programadas: %w", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Error().Err(err).Msg("detener tareas programadas")
			}
		}()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 << 20, // fotos de hasta 10 MB más el multipart
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Rank It Pro API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         c.Auth,
		CompanyUC:      c.Companies,
		UserUC:         c.Users,
		TechnicianUC:   c.Technicians,
		CheckInUC:      c.CheckIns,
		ReviewUC:       c.Reviews,
		BlogUC:         c.Blog,
		IntegrationUC:  c.Integrations,
		SalesUC:        c.Sales,
		SubscriptionUC: c.Subscription,
		InvoicePDF:     c.InvoicePDF,
		DashboardUC:    c.Dashboard,
		JWTSecret:      cfg.JWT.Secret,
		APIURL:         cfg.App.APIURL,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		Ping:           c.Ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	return nil
}
