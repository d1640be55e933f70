// Package analytics contiene los dashboards por rol (super_admin, company_admin,
// technician, sales_staff). Las respuestas se cachean 5 minutos por clave de rol.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

const (
	dashboardTTL            = 5 * time.Minute
	dashboardTopTechnicians = 5 // técnicos en el ranking del mes
	dashboardRecentCheckIns = 10
)

// UsageProvider uso del plan de una empresa (implementado por CompanyUseCase).
type UsageProvider interface {
	Usage(ctx context.Context, companyID string) (*dto.UsageResponse, error)
}

// DashboardUseCase arma los dashboards.
//
// Fuente de datos: DashboardRepository (consultas read-only) más los repositorios
// de usuarios, técnicos y visitas para las piezas que ya resuelven ellos.
type DashboardUseCase struct {
	repo        repository.DashboardRepository
	users       repository.UserRepository
	technicians repository.TechnicianRepository
	checkIns    repository.CheckInRepository
	usage       UsageProvider
	cache       ports.Cache
	log         *logger.Logger
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	repo repository.DashboardRepository,
	users repository.UserRepository,
	technicians repository.TechnicianRepository,
	checkIns repository.CheckInRepository,
	usage UsageProvider,
	cache ports.Cache,
	log *logger.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		repo:        repo,
		users:       users,
		technicians: technicians,
		checkIns:    checkIns,
		usage:       usage,
		cache:       cache,
		log:         log,
		now:         time.Now,
	}
}

// Admin métricas de toda la plataforma.
//
// Dos llamadas en paralelo:
//  1. PlatformTotals(mes)  → contadores e ingresos del mes
//  2. CountByRole          → UsersByRole
func (uc *DashboardUseCase) Admin(ctx context.Context) (*dto.AdminDashboardDTO, error) {
	var out dto.AdminDashboardDTO
	if uc.cached(ctx, "dashboard:admin", &out) {
		return &out, nil
	}
	monthStart := monthStartUTC(uc.now())

	type totalsResult struct {
		totals *repository.PlatformTotals
		err    error
	}
	type rolesResult struct {
		roles map[string]int
		err   error
	}
	totalsCh := make(chan totalsResult, 1)
	rolesCh := make(chan rolesResult, 1)

	go func() {
		t, err := uc.repo.PlatformTotals(ctx, monthStart)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		r, err := uc.users.CountByRole(ctx)
		rolesCh <- rolesResult{r, err}
	}()

	totals := <-totalsCh
	roles := <-rolesCh
	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales de plataforma: %w", totals.err)
	}
	if roles.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios por rol: %w", roles.err)
	}

	t := totals.totals
	out = dto.AdminDashboardDTO{
		Companies:         t.Companies,
		ActiveCompanies:   t.ActiveCompanies,
		Users:             t.Users,
		UsersByRole:       roles.roles,
		Technicians:       t.Technicians,
		CheckIns:          t.CheckIns,
		CheckInsThisMonth: t.CheckInsThisMonth,
		ReviewRequests:    t.ReviewRequests,
		ReviewsCompleted:  t.ReviewsCompleted,
		MonthlyRevenue:    t.MonthlyRevenue.Round(2),
	}
	if out.UsersByRole == nil {
		out.UsersByRole = map[string]int{}
	}
	uc.store(ctx, "dashboard:admin", out)
	return &out, nil
}

// Company métricas de la empresa, ranking del mes y uso del plan (tres consultas en paralelo).
func (uc *DashboardUseCase) Company(ctx context.Context, companyID string) (*dto.CompanyDashboardDTO, error) {
	key := "dashboard:company:" + companyID
	var out dto.CompanyDashboardDTO
	if uc.cached(ctx, key, &out) {
		return &out, nil
	}
	monthStart := monthStartUTC(uc.now())

	type totalsResult struct {
		totals *repository.CompanyTotals
		err    error
	}
	type rankResult struct {
		rank []repository.TechnicianRank
		err  error
	}
	type usageResult struct {
		usage *dto.UsageResponse
		err   error
	}
	totalsCh := make(chan totalsResult, 1)
	rankCh := make(chan rankResult, 1)
	usageCh := make(chan usageResult, 1)

	go func() {
		t, err := uc.repo.CompanyTotals(ctx, companyID, monthStart)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		r, err := uc.repo.TopTechnicians(ctx, companyID, monthStart, dashboardTopTechnicians)
		rankCh <- rankResult{r, err}
	}()
	go func() {
		u, err := uc.usage.Usage(ctx, companyID)
		usageCh <- usageResult{u, err}
	}()

	totals := <-totalsCh
	rank := <-rankCh
	usage := <-usageCh
	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales de empresa: %w", totals.err)
	}
	if rank.err != nil {
		return nil, fmt.Errorf("dashboard: ranking de técnicos: %w", rank.err)
	}
	if usage.err != nil {
		return nil, fmt.Errorf("dashboard: uso del plan: %w", usage.err)
	}

	t := totals.totals
	out = dto.CompanyDashboardDTO{
		Technicians:       t.Technicians,
		CheckIns:          t.CheckIns,
		CheckInsThisMonth: t.CheckInsThisMonth,
		BlogPosts:         t.BlogPosts,
		PublishedPosts:    t.PublishedPosts,
		ReviewRequests:    t.ReviewRequests,
		ReviewsCompleted:  t.ReviewsCompleted,
		AverageRating:     t.AverageRating,
		TopTechnicians:    make([]dto.TechnicianRankDTO, 0, len(rank.rank)),
		Usage:             *usage.usage,
	}
	for _, r := range rank.rank {
		out.TopTechnicians = append(out.TopTechnicians, dto.TechnicianRankDTO(r))
	}
	uc.store(ctx, key, out)
	return &out, nil
}

// Technician métricas del técnico asociado al usuario y sus últimas visitas.
func (uc *DashboardUseCase) Technician(ctx context.Context, p entity.Principal) (*dto.TechnicianDashboardDTO, error) {
	key := "dashboard:technician:" + p.UserID
	var out dto.TechnicianDashboardDTO
	if uc.cached(ctx, key, &out) {
		return &out, nil
	}
	tech, err := uc.technicians.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if tech == nil || tech.CompanyID != p.CompanyID {
		return nil, domain.ErrNotFound
	}

	stats, err := uc.technicians.Stats(ctx, tech.CompanyID, tech.ID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: métricas del técnico: %w", err)
	}
	recent, err := uc.checkIns.List(ctx, entity.CheckInFilter{
		CompanyID:    tech.CompanyID,
		TechnicianID: tech.ID,
		Limit:        dashboardRecentCheckIns,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: visitas recientes: %w", err)
	}

	out = dto.TechnicianDashboardDTO{
		Technician: dto.NewTechnicianResponse(tech),
		Stats: dto.TechnicianStatsResponse{
			TechnicianID:      tech.ID,
			CheckIns:          stats.CheckIns,
			CheckInsThisMonth: stats.CheckInsThisMonth,
			ReviewsRequested:  stats.ReviewsRequested,
			ReviewsCompleted:  stats.ReviewsCompleted,
			AverageRating:     stats.AverageRating,
		},
		RecentCheckIns: make([]dto.CheckInResponse, 0, len(recent)),
	}
	for _, c := range recent {
		out.RecentCheckIns = append(out.RecentCheckIns, dto.NewCheckInResponse(c))
	}
	uc.store(ctx, key, out)
	return &out, nil
}

// Sales empresas referidas y comisiones del vendedor.
func (uc *DashboardUseCase) Sales(ctx context.Context, salesUserID string) (*dto.SalesDashboardDTO, error) {
	key := "dashboard:sales:" + salesUserID
	var out dto.SalesDashboardDTO
	if uc.cached(ctx, key, &out) {
		return &out, nil
	}
	t, err := uc.repo.SalesTotals(ctx, salesUserID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: totales de ventas: %w", err)
	}
	out = dto.SalesDashboardDTO{
		ReferredCompanies:   t.ReferredCompanies,
		ActiveSubscriptions: t.ActiveSubscriptions,
		PendingCommissions:  t.PendingCommissions.Round(2),
		PaidCommissions:     t.PaidCommissions.Round(2),
	}
	uc.store(ctx, key, out)
	return &out, nil
}

// cached un fallo de caché se registra y se trata como miss.
func (uc *DashboardUseCase) cached(ctx context.Context, key string, dst any) bool {
	ok, err := uc.cache.GetJSON(ctx, key, dst)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("caché de dashboard no disponible")
		return false
	}
	return ok
}

func (uc *DashboardUseCase) store(ctx context.Context, key string, v any) {
	if err := uc.cache.SetJSON(ctx, key, v, dashboardTTL); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear el dashboard")
	}
}

func monthStartUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
