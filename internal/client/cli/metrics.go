package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/dmitrijs2005/recipebook/internal/logging"
)

const requestsFamily = "recipebook_client_gateway_requests_total"

// newMetricsRegistry returns the registry the gateway metrics live in,
// together with the Go runtime and process collectors.
func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// serveMetrics exposes g at /metrics on addr. It returns the bound address
// and a function that stops the server.
func serveMetrics(ctx context.Context, addr string, g prometheus.Gatherer, log logging.Logger) (string, func() error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen for metrics on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server stopped", "error", err)
		}
	}()
	log.Info(ctx, "serving metrics", "addr", ln.Addr().String())

	stop := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
	return ln.Addr().String(), stop, nil
}

// Metrics prints the gateway call counters gathered so far.
func (a *App) Metrics(_ context.Context) error {
	if a.metrics == nil {
		fmt.Fprintln(a.out, "Metrics are not enabled.")
		return nil
	}

	families, err := a.metrics.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, f := range families {
		if f.GetName() != requestsFamily {
			continue
		}
		for _, m := range f.GetMetric() {
			lines = append(lines, fmt.Sprintf("%-20s %-22s %.0f", labelValue(m, "op"), labelValue(m, "outcome"), m.GetCounter().GetValue()))
		}
	}

	if len(lines) == 0 {
		fmt.Fprintln(a.out, "No calls yet.")
		return nil
	}
	fmt.Fprintln(a.out, strings.Join(lines, "\n"))
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}
