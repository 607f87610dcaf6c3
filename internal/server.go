package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/blogbox/internal/auth"
	"github.com/2beens/blogbox/internal/blogs"
	"github.com/2beens/blogbox/internal/config"
	"github.com/2beens/blogbox/internal/db"
	"github.com/2beens/blogbox/internal/middleware"
	"github.com/2beens/blogbox/internal/posts"
	"github.com/2beens/blogbox/internal/telemetry/metrics"
	"github.com/2beens/blogbox/internal/telemetry/tracing"
	"github.com/2beens/blogbox/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	mongoClient *mongo.Client
	authChecker *auth.StaticChecker

	blogsRepo *blogs.Repo
	postsRepo *posts.Repo

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	mongoClient, err := db.NewMongoClient(ctx, db.NewMongoClientParams{
		URI: params.Config.MongoURI,
	})
	if err != nil {
		return nil, fmt.Errorf("new mongo client: %w", err)
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "blogbox-backend")
	if err != nil {
		return nil, err
	}

	database := mongoClient.Database(params.Config.MongoDBName)

	return &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
		mongoClient: mongoClient,
		authChecker: auth.NewStaticChecker(params.AdminUsername, params.AdminPassword),

		blogsRepo: blogs.NewRepo(database),
		postsRepo: posts.NewRepo(database),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	blogsHandler := blogs.NewHandler(s.blogsRepo, s.metricsManager)
	blogsHandler.SetupRoutes(r)

	postsHandler := posts.NewHandler(
		posts.NewService(s.postsRepo, s.blogsRepo),
		s.metricsManager,
	)
	postsHandler.SetupRoutes(r)

	r.HandleFunc("/", s.handleHome).Methods("GET").Name("home")
	r.HandleFunc("/testing/all-data", s.handleWipeAllData).Methods("DELETE", "OPTIONS").Name("wipe-all-data")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	msg := "blogbox service"
	if s.versionInfo != "" {
		msg += fmt.Sprintf(" [%s]", s.versionInfo)
	}
	pkg.WriteTextResponseOK(w, msg)
}

// handleWipeAllData removes every blog and post. Meant for test
// environments so suites can start from a clean slate.
func (s *Server) handleWipeAllData(w http.ResponseWriter, r *http.Request) {
	if err := s.postsRepo.DeleteAll(r.Context()); err != nil {
		log.Errorf("wipe all data, posts: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := s.blogsRepo.DeleteAll(r.Context()); err != nil {
		log.Errorf("wipe all data, blogs: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Warnln("all blogs and posts data wiped")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(
		s.config.PrometheusMetricsHost,
		strconv.Itoa(s.config.PrometheusMetricsPort),
	)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.mongoClient != nil {
		log.Debugln("disconnecting mongo client ...")
		if err := s.mongoClient.Disconnect(context.Background()); err != nil {
			log.Errorf("failed to disconnect mongo client: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
