package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/taskpilot/taskpilot/internal/agent"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/handlers"
	"github.com/taskpilot/taskpilot/internal/logger"
	"github.com/taskpilot/taskpilot/internal/middleware"
	"github.com/taskpilot/taskpilot/internal/scheduler"
	"github.com/taskpilot/taskpilot/internal/services/classifier"
	"github.com/taskpilot/taskpilot/internal/storage"
	"github.com/taskpilot/taskpilot/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for classifier API logging")
	flag.Parse()

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
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "taskpilot", cfg.OTELEndpoint)
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

	store, err := storage.New(cfg)
	if err != nil {
		zapLogger.Fatal("failed_to_initialize_storage", zap.Error(err))
	}
	defer func() {
		if closer, ok := store.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				zapLogger.Warn("failed_to_close_storage", zap.Error(err))
			}
		}
	}()
	zapLogger.Info("storage_initialized", zap.String("backend", cfg.StorageBackend))

	// Classifier is optional; without it chat turns report the agent as
	// not configured while the task and event endpoints keep working.
	var cls classifier.Classifier
	if cfg.OpenAIKey != "" {
		cls = classifier.NewOpenAIClassifierWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger, debugMode)
		zapLogger.Info("classifier_initialized", zap.String("model", cfg.AIModel))
	} else {
		zapLogger.Warn("classifier_not_configured_chat_disabled")
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()
	engine, err := agent.NewEngine(startupCtx, store, cls, agent.Options{
		WorkdayEnd:      scheduler.WorkdayEnd{Hour: cfg.WorkdayEndHour, Minute: cfg.WorkdayEndMinute},
		ClassifyTimeout: time.Duration(cfg.ClassifierTimeout) * time.Second,
		Logger:          zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("failed_to_initialize_engine", zap.Error(err))
	}

	agentHandler := handlers.NewAgentHandler(engine)
	taskHandler := handlers.NewTaskHandler(engine)
	eventHandler := handlers.NewEventHandler(engine)
	healthChecker := handlers.NewHealthChecker(store)

	r := mux.NewRouter()

	// Middleware executes in registration order in gorilla/mux
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("taskpilot"))
	}
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.Logging(zapLogger))

	rateLimitMW, err := middleware.RateLimit(cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("invalid_rate_limit_format", zap.String("rate", cfg.RateLimit), zap.Error(err))
	}

	// Health checks stay unthrottled
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	agentRouter := r.PathPrefix("/agent").Subrouter()
	agentRouter.Use(rateLimitMW)
	agentHandler.RegisterRoutes(agentRouter)

	tasksRouter := r.PathPrefix("/tasks").Subrouter()
	tasksRouter.Use(rateLimitMW)
	taskHandler.RegisterRoutes(tasksRouter)

	eventsRouter := r.PathPrefix("/events").Subrouter()
	eventsRouter.Use(rateLimitMW)
	eventHandler.RegisterRoutes(eventsRouter)

	// Preflight requests get a 204 after the CORS middleware sets headers
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   35 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

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
	if _, err := fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}
