package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/coach/dispatch"
	"github.com/2beens/fitcoach/internal/coach/history"
	"github.com/2beens/fitcoach/internal/coach/history/memstore"
	"github.com/2beens/fitcoach/internal/coach/history/postgres"
	"github.com/2beens/fitcoach/internal/coach/intent"
	coachmcp "github.com/2beens/fitcoach/internal/coach/mcp"
	"github.com/2beens/fitcoach/internal/coach/meals"
	"github.com/2beens/fitcoach/internal/coach/progression"
	"github.com/2beens/fitcoach/internal/coach/suggestions"
	"github.com/2beens/fitcoach/internal/coach/volume"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"
	"github.com/2beens/fitcoach/internal/middleware"
	"github.com/2beens/fitcoach/internal/misc"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// DevUserID owns the seeded history in dev_memstore mode.
const DevUserID = "dev-user"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	mcpSecret         string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	// coach engine
	aggregator     *aggregator.Aggregator
	dispatcher     *dispatch.Dispatcher
	classifier     *intent.Classifier
	poller         *suggestions.Poller
	resetScheduler *suggestions.ResetScheduler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets
	if secrets == nil {
		secrets = &config.Secrets{}
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		mcpSecret:   secrets.MCPSecret,
	}

	var store history.Store
	var poolCollector prometheus.Collector
	if cfg.DevMemstore {
		devStore := memstore.New()
		memstore.Seed(devStore, DevUserID, time.Now().In(location), 8, 42)
		store = devStore
		log.Warnf("using in-memory history store, seeded for user [%s]", DevUserID)
	} else {
		s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         secrets.PostgresUser,
			DBPassword:     secrets.PostgresPassword,
			TracingEnabled: secrets.HoneycombEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		store = postgres.NewRepo(s.dbPool)
		poolCollector = db.NewPoolCollector(s.dbPool, cfg.PostgresDBName)
	}

	s.promRegistry = metrics.SetupPrometheus(poolCollector)
	s.metricsManager = metrics.NewManager("fitcoach", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	if cfg.RedisHost != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: secrets.RedisPassword,
			DB:       0, // use default DB
		})
		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	} else {
		log.Warnln("redis host not set, rate limiting disabled")
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	s.otelShutdown, err = tracing.HoneycombSetup(secrets.HoneycombEnabled, "fitcoach", s.redisClient)
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	s.aggregator = aggregator.New(
		store,
		aggregator.WithReadTimeout(cfg.StoreReadTimeout()),
		aggregator.WithLocation(location),
	)
	progressionAnalyzer := progression.NewAnalyzer(s.aggregator)
	volumeAnalyzer := volume.NewAnalyzer(s.aggregator)
	s.dispatcher = dispatch.NewDispatcher(
		s.aggregator,
		progressionAnalyzer,
		volumeAnalyzer,
		meals.NewAllocator(s.aggregator),
		dispatch.WithMetrics(s.metricsManager),
	)
	s.classifier = intent.NewClassifier(intent.DefaultRules())

	dismissed := suggestions.NewDismissed(cfg.DismissedCacheSizeMB*1024*1024, s.metricsManager)
	s.poller = suggestions.NewPoller(progressionAnalyzer, volumeAnalyzer, dismissed, s.metricsManager)
	s.resetScheduler, err = suggestions.NewResetScheduler(dismissed, cfg.DismissedResetCron, location)
	if err != nil {
		return nil, fmt.Errorf("dismissed suggestions reset: %w", err)
	}

	return s, nil
}

func (s *Server) dependencies() []misc.Dependency {
	var deps []misc.Dependency
	if s.dbPool != nil {
		deps = append(deps, misc.Dependency{Name: "postgres", Ping: s.dbPool.Ping})
	}
	if s.redisClient != nil {
		deps = append(deps, misc.Dependency{Name: "redis", Ping: func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		}})
	}
	return deps
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	misc.NewHandler(s.versionInfo, s.dependencies()...).SetupRoutes(r)

	var coachMiddleware []mux.MiddlewareFunc
	if s.redisClient != nil {
		coachMiddleware = append(coachMiddleware, middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"coach",
			s.config.RateLimitAllowedPerMin,
			s.metricsManager,
		))
	}
	coachHandler := coach.NewHandler(s.dispatcher, s.classifier, s.aggregator, s.poller)
	coachHandler.SetupRoutes(r, coachMiddleware...)

	mcpServer := coachmcp.NewServer(coachmcp.NewCoachService(s.aggregator, s.dispatcher))
	r.PathPrefix("/mcp").
		Handler(middleware.MCPSecretCheck(s.mcpSecret)(coachmcp.NewHTTPHandler(mcpServer))).
		Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins...))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           router,
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.resetScheduler.Start()
	log.Debugf("dismissed suggestions reset scheduled, next at %s", s.resetScheduler.Next())

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.resetScheduler.Stop()
	log.Trace("suggestions reset scheduler stopped ...")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
}
