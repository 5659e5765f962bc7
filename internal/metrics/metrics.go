// Package metrics exposes operational counters over a /metrics endpoint.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"teambot/internal/logging"
)

// Metrics counts inbound events, handler failures, and completed
// registrations. All methods tolerate a nil receiver so callers can run
// without metrics wired.
type Metrics struct {
	events        *prometheus.CounterVec
	errors        prometheus.Counter
	registrations *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teambot_events_total",
			Help: "Inbound chat events by type.",
		}, []string{"type"}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Name: "teambot_errors_total",
			Help: "Event handler failures reported to the user.",
		}),
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teambot_registrations_total",
			Help: "Knowledge items appended to team documents, by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) EventReceived(eventType string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType).Inc()
}

func (m *Metrics) ErrorReported() {
	if m == nil {
		return
	}
	m.errors.Inc()
}

func (m *Metrics) RegistrationCompleted(kind string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(kind).Inc()
}

// Serve runs an HTTP server exposing gatherer on /metrics until ctx is
// cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger logging.Logger) error {
	logger = logging.OrNop(logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics: listening on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
