package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

// Nombres de las tareas registradas por los comandos.
const (
	ReviewDispatch       = "review-dispatch"
	ReviewReminders      = "review-reminders"
	SubscriptionRenewals = "subscription-renewals"
)

// Task tarea periódica. Run recibe un contexto con timeout de Interval.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler envuelve gocron y mantiene las tareas por nombre para ejecutarlas a demanda.
type Scheduler struct {
	cron  gocron.Scheduler
	log   *logger.Logger
	tasks map[string]Task
	mu    sync.RWMutex
}

// NewScheduler crea el scheduler sin arrancarlo.
func NewScheduler(log *logger.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("jobs: crear scheduler: %w", err)
	}
	return &Scheduler{cron: s, log: log, tasks: make(map[string]Task)}, nil
}

// Register agrega una tarea. Una ejecución que se solapa con la anterior se reprograma.
func (s *Scheduler) Register(t Task) error {
	if t.Name == "" || t.Interval <= 0 || t.Run == nil {
		return fmt.Errorf("jobs: tarea inválida %q", t.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.Name]; ok {
		return fmt.Errorf("jobs: tarea duplicada %q", t.Name)
	}

	_, err := s.cron.NewJob(
		gocron.DurationJob(t.Interval),
		gocron.NewTask(func() { _ = s.execute(context.Background(), t) }),
		gocron.WithName(t.Name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("jobs: registrar %s: %w", t.Name, err)
	}
	s.tasks[t.Name] = t
	return nil
}

// Start arranca el scheduler.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.tasks)).Msg("scheduler iniciado")
	s.cron.Start()
}

// Stop detiene el scheduler esperando las ejecuciones en curso.
func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// RunNow ejecuta una tarea registrada de forma síncrona (CLI).
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	t, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("jobs: tarea desconocida %q", name)
	}
	return s.execute(ctx, t)
}

// Names devuelve los nombres registrados en orden alfabético.
func (s *Scheduler) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.tasks))
	for n := range s.tasks {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s *Scheduler) execute(parent context.Context, t Task) error {
	ctx, cancel := context.WithTimeout(parent, t.Interval)
	defer cancel()

	start := time.Now()
	err := t.Run(ctx)
	ev := s.log.Info()
	if err != nil {
		ev = s.log.Error().Err(err)
	}
	ev.Str("job", t.Name).Dur("elapsed", time.Since(start)).Msg("job ejecutado")
	return err
}
