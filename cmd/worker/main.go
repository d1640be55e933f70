package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jhoicas/rankitpro-api/internal/bootstrap"
	"github.com/jhoicas/rankitpro-api/pkg/config"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

// worker consume la cola review_requests y entrega cada solicitud por e-mail o SMS.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "worker"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("inicializar dependencias: %w", err)
	}
	defer c.Close()

	if c.InMemoryQueue {
		return errors.New("el worker necesita AMQP_URL; sin broker la API entrega las solicitudes")
	}

	log.Info().Str("queue", cfg.Queue.ReviewQueue).Msg("worker escuchando")
	if err := c.Queue.Consume(ctx, c.Reviews.Deliver); err != nil && ctx.Err() == nil {
		return fmt.Errorf("consumidor finalizado: %w", err)
	}
	return nil
}
