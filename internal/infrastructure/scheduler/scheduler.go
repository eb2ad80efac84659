// Package scheduler ejecuta la reconciliación de stock en segundo plano.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// runTimeout límite de una pasada programada.
const runTimeout = 10 * time.Minute

// Reconciler es la parte del caso de uso de reconciliación que usa el scheduler.
type Reconciler interface {
	Run(ctx context.Context, fix bool) (*dto.ReconcileReport, error)
}

// Scheduler corre la reconciliación en modo reporte según una expresión cron de 5 campos.
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	log        *logger.Logger
}

// New valida la expresión y registra el job. No arranca hasta Start.
func New(expr string, reconciler Reconciler, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		log:        log,
	}
	if _, err := s.cron.AddFunc(expr, s.reconcile); err != nil {
		return nil, fmt.Errorf("scheduler: expresión cron %q: %w", expr, err)
	}
	return s, nil
}

// Start arranca el scheduler.
func (s *Scheduler) Start() {
	s.log.Info().Msg("scheduler de reconciliación iniciado")
	s.cron.Start()
}

// Stop detiene el scheduler y espera a que termine una pasada en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler de reconciliación detenido")
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	report, err := s.reconciler.Run(ctx, false)
	if err != nil {
		s.log.Error().Err(err).Msg("reconciliación programada")
		return
	}
	ev := s.log.Info()
	if len(report.Drifts) > 0 || len(report.OrphanMovements) > 0 {
		ev = s.log.Warn()
	}
	ev.Int("items", report.ItemsChecked).
		Int("drifts", len(report.Drifts)).
		Int("orphans", len(report.OrphanMovements)).
		Msg("reconciliación programada finalizada")
}
