package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/rankitpro-api/internal/bootstrap"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/postgres"
	"github.com/jhoicas/rankitpro-api/pkg/config"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	return cfg, logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "rankctl"}), nil
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return postgres.NewPool(ctx, cfg.DB)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := postgres.Migrate(cmd.Context(), pool)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Println("sin migraciones pendientes")
				return nil
			}
			for _, v := range applied {
				fmt.Println("aplicada", v)
			}
			return nil
		},
	}
}

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Tareas programadas",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista las tareas registradas",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NOMBRE\tINTERVALO")
			for _, t := range c.Tasks() {
				fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Interval)
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "run <nombre>",
		Short: "Ejecuta una tarea una vez (review-dispatch, review-reminders, subscription-renewals)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			s, err := c.Scheduler()
			if err != nil {
				return err
			}
			defer func() { _ = s.Stop() }()
			if err := s.RunNow(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("ok", args[0])
			return nil
		},
	})
	return cmd
}

func plansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Planes de suscripción",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista los planes activos",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			plans, err := postgres.NewPlanRepository(pool).ListActive(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRE\tPRECIO\tTÉCNICOS\tVISITAS/MES")
			for _, p := range plans {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.PriceMonthly.StringFixed(2),
					limitLabel(p.MaxTechnicians), limitLabel(p.MaxCheckInsPerMonth))
			}
			return w.Flush()
		},
	})
	return cmd
}

func container(ctx context.Context) (*bootstrap.Container, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, log)
}

func limitLabel(n int) string {
	if n == 0 {
		return "ilimitado"
	}
	return fmt.Sprint(n)
}
