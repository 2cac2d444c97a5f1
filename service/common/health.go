package common

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httplib "lispy/lib/http"

	"github.com/heptiolabs/healthcheck"
)

type HealthCheckArgs struct {
	HealthPort uint `arg:"--health-port,env:HEALTH_PORT" default:"8082"`
}

// NewHealthHandler serves /live and /ready. Each named check must pass for
// the service to be ready.
func NewHealthHandler(checks map[string]healthcheck.Check) healthcheck.Handler {
	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))
	for name, check := range checks {
		health.AddReadinessCheck(name, healthcheck.Timeout(check, time.Second))
	}
	return health
}

// ServeHealthCheck blocks serving health on port until ctx is done.
func ServeHealthCheck(ctx context.Context, port uint, health http.Handler) error {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: health}
	if err := httplib.Serve(ctx, srv); err != nil {
		return fmt.Errorf("health check server stopped unexpectedly: %w", err)
	}
	return nil
}
