// Package metrics expone los contadores de movimientos en formato Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

const namespace = "inventario"

// Prometheus implementa inventory.Metrics sobre un registro propio.
type Prometheus struct {
	registry     *prometheus.Registry
	applied      *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	lockTimeouts prometheus.Counter
}

var _ inventory.Metrics = (*Prometheus)(nil)

// NewPrometheus registra los contadores y los colectores de proceso y runtime.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_applied_total",
			Help:      "Movimientos aplicados por operación y tipo.",
		}, []string{"operation", "type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_rejected_total",
			Help:      "Movimientos rechazados por operación y motivo.",
		}, []string{"operation", "reason"}),
		lockTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_lock_timeouts_total",
			Help:      "Operaciones que no obtuvieron el lock del ítem a tiempo.",
		}),
	}
	p.registry.MustRegister(
		p.applied, p.rejected, p.lockTimeouts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) MovementApplied(operation string, typ entity.MovementType) {
	p.applied.WithLabelValues(operation, string(typ)).Inc()
}

func (p *Prometheus) MovementRejected(operation, reason string) {
	p.rejected.WithLabelValues(operation, reason).Inc()
}

func (p *Prometheus) LockTimeout() {
	p.lockTimeouts.Inc()
}

// Handler sirve el registro para el scrape.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
