package common

import (
	"context"
	"fmt"
	"net/http"

	httplib "lispy/lib/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusArgs struct {
	MetricsPort uint `arg:"--metrics-port,env:METRICS_PORT" default:"2112"`
}

func NewMetricsRouter() *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	AddPprofHandlers(router)
	return router
}

// ServePromMetrics blocks serving /metrics on port until ctx is done.
func ServePromMetrics(ctx context.Context, port uint) error {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: NewMetricsRouter()}
	if err := httplib.Serve(ctx, srv); err != nil {
		return fmt.Errorf("metric server stopped unexpectedly: %w", err)
	}
	return nil
}
