package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	httplib "lispy/lib/http"
	_ "lispy/opdefs"
	"lispy/service/common"
	"lispy/session"

	"github.com/alexflint/go-arg"
	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ------------------------ START metric definitions ----------------------------

var totalRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Number of incoming HTTP requests.",
	},
	[]string{"path"},
)

var responseStatus = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "response_status",
		Help: "Status of HTTP response",
	},
	[]string{"path", "status"},
)

var httpDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
	Name: "http_response_time_seconds",
	Help: "Duration of HTTP requests.",
	Objectives: map[float64]float64{
		0.50: 0.05,
		0.90: 0.05,
		0.99: 0.01,
	},
}, []string{"path"})

// ------------------------ END metric definitions ------------------------------

// response writer to capture status code from header.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func NewResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

// middleware to count requests by path and status and time them.
func prometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			path, _ = route.GetPathTemplate()
		}
		totalRequests.WithLabelValues(path).Inc()
		timer := prometheus.NewTimer(httpDuration.WithLabelValues(path))
		rw := NewResponseWriter(w)
		next.ServeHTTP(rw, r)
		timer.ObserveDuration()
		responseStatus.WithLabelValues(path, strconv.Itoa(rw.statusCode)).Inc()
	})
}

type HTTPArgs struct {
	Port           uint          `arg:"--port,env:PORT" default:"2425"`
	RequestTimeout time.Duration `arg:"--request-timeout,env:REQUEST_TIMEOUT" default:"10s"`
	MaxConcurrent  int           `arg:"--max-concurrent,env:MAX_CONCURRENT" default:"64"`
}

func newRouter(s server, args HTTPArgs) *mux.Router {
	router := mux.NewRouter()
	router.Use(prometheusMiddleware)
	router.Use(httplib.RateLimitingMiddleware(args.MaxConcurrent))
	router.Use(httplib.TimeoutMiddleware(args.RequestTimeout))
	s.setHandlers(router)
	return router
}

func main() {
	// Parse flags / environment variables.
	var flags struct {
		session.SessionArgs
		common.PrometheusArgs
		common.HealthCheckArgs
		HTTPArgs
	}
	arg.MustParse(&flags)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(ioutil.Discard)

	sess, err := session.CreateFromArgs(&flags.SessionArgs)
	if err != nil {
		panic(fmt.Sprintf("Failed to setup session: %v", err))
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, sess, flags.PrometheusArgs, flags.HealthCheckArgs, flags.HTTPArgs)
	stop()
	if cerr := sess.Close(); cerr != nil {
		sess.Logger.Warn("failed to close session", zap.Error(cerr))
	}
	if err != nil {
		sess.Logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// run serves eval, metrics and health together until ctx is done or one
// of them fails.
func run(ctx context.Context, sess session.Session, prom common.PrometheusArgs, hc common.HealthCheckArgs, args HTTPArgs) error {
	logger := sess.Logger
	s := server{executor: sess.Executor, logger: logger}
	health := common.NewHealthHandler(map[string]healthcheck.Check{
		"executor": func() error {
			_, err := sess.Executor.Replay(context.Background(), "(+ 1 1)")
			return err
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return common.ServePromMetrics(gctx, prom.MetricsPort)
	})
	g.Go(func() error {
		return common.ServeHealthCheck(gctx, hc.HealthPort, health)
	})
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", args.Port)
		// Note: e2e tests wait for this line before sending traffic
		logger.Info("server is ready...", zap.String("addr", addr))
		srv := &http.Server{Addr: addr, Handler: newRouter(s, args)}
		return httplib.Serve(gctx, srv)
	})
	return g.Wait()
}
