package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/taskloop/taskloop/internal/auth"
	"github.com/taskloop/taskloop/internal/config"
	"github.com/taskloop/taskloop/internal/database"
	"github.com/taskloop/taskloop/internal/handlers"
	"github.com/taskloop/taskloop/internal/logger"
	"github.com/taskloop/taskloop/internal/middleware"
	"github.com/taskloop/taskloop/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load configuration. This is also the startup guard: a missing or
	// weak auth secret refuses to start here.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "taskloop-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Select store backend
	var (
		taskStore database.TaskStore
		userStore database.UserStore
		pinger    handlers.Pinger
	)
	switch cfg.StoreBackend {
	case config.StoreMemory:
		taskStore = database.NewMemoryTaskStore()
		userStore = database.NewMemoryUserStore()
		zapLogger.Info("using_in_memory_store")
	default:
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
			}
		}()
		taskStore = database.NewTaskRepository(db)
		userStore = database.NewUserRepository(db)
		pinger = db
		zapLogger.Info("connected_to_database")
	}

	// Auth core: one gate and one issuer, both built from the immutable
	// startup configuration. Nothing reads ambient secrets afterwards.
	secret := []byte(cfg.AuthSecret)
	gate := auth.NewGate(secret, cfg.Policy())
	issuer := auth.NewIssuer(secret, cfg.AuthIssuer, cfg.AuthAudience, cfg.AuthTokenTTL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userStore, issuer, zapLogger)
	taskHandler := handlers.NewTaskHandler(taskStore, zapLogger)
	healthChecker := handlers.NewHealthChecker(pinger)

	// Setup router
	r := mux.NewRouter()

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("taskloop-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	openAPIPath := filepath.Join("api", "openapi", "openapi.yaml")
	handlers.NewOpenAPIHandler(openAPIPath).RegisterRoutes(r)

	// API v1 routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	authRouter := apiRouter.PathPrefix("/auth").Subrouter()
	authHandler.RegisterPublicRoutes(authRouter)

	protectedAuthRouter := apiRouter.PathPrefix("/auth").Subrouter()
	protectedAuthRouter.Use(middleware.Auth(gate, zapLogger))
	authHandler.RegisterProtectedRoutes(protectedAuthRouter)

	// Task routes (protected, owner-scoped)
	tasksRouter := apiRouter.PathPrefix("/users/{userID}/tasks").Subrouter()
	tasksRouter.Use(middleware.Auth(gate, zapLogger))
	taskHandler.RegisterRoutes(tasksRouter)

	// Catch-all OPTIONS handler so preflight requests succeed even on
	// routes that don't list the method; CORS middleware sets the headers.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"version":"1.0.0"}`)); err != nil {
		_ = err
	}
}
