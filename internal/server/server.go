package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"

	"github.com/alisaviation/exporter/internal/helpers"
	"github.com/alisaviation/exporter/internal/logger"
	"github.com/alisaviation/exporter/internal/storage"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Address string
	Store   *storage.Store
}

func New(address string, store *storage.Store) *Server {
	return &Server{Address: address, Store: store}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(logger.RequestResponseLogger)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Store.Gatherer(), promhttp.HandlerOpts{
		ErrorLog:      zap.NewStdLog(logger.Log),
		ErrorHandling: promhttp.ContinueOnError,
	}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.GetMetricsList)

	return r
}

// Listen binds the metrics port. Failing here is the one fatal condition at startup.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.Address)
	if err != nil {
		return nil, fmt.Errorf("bind metrics listener on %s: %w", s.Address, err)
	}
	return ln, nil
}

// Serve blocks until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Metrics endpoint listening", zap.String("address", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// GetMetricsList renders the exporter's own series as a plain HTML list.
func (s *Server) GetMetricsList(w http.ResponseWriter, r *http.Request) {
	families, err := s.Store.Gatherer().Gather()
	if err != nil {
		logger.Log.Warn("Partial metrics gather", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/html")

	var response strings.Builder
	response.WriteString("<html><body><h1>Metrics</h1><ul>")
	for _, family := range families {
		if isRuntimeFamily(family.GetName()) || family.GetType() != dto.MetricType_GAUGE {
			continue
		}
		for _, m := range family.GetMetric() {
			series := html.EscapeString(family.GetName() + formatLabels(m.GetLabel()))
			response.WriteString(fmt.Sprintf("<li>%s: %s</li>", series, helpers.FormatFloat(m.GetGauge().GetValue())))
		}
	}
	response.WriteString("</ul></body></html>")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(response.String()))
}

func isRuntimeFamily(name string) bool {
	return strings.HasPrefix(name, "go_") || strings.HasPrefix(name, "process_")
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
