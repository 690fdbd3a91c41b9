// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/voxboard-ai/dashboard-core/internal/auth"
	"github.com/voxboard-ai/dashboard-core/internal/config"
	"github.com/voxboard-ai/dashboard-core/internal/handler"
	"github.com/voxboard-ai/dashboard-core/internal/middleware"
	natsclient "github.com/voxboard-ai/dashboard-core/internal/nats"
	"github.com/voxboard-ai/dashboard-core/internal/notify"
	"github.com/voxboard-ai/dashboard-core/internal/storage"
	"github.com/voxboard-ai/dashboard-core/internal/store"
	"github.com/voxboard-ai/dashboard-core/pkg/logger"
	"github.com/voxboard-ai/dashboard-core/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "dashboard-core", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Session substrate: file-backed when a session file is configured,
	// otherwise ephemeral in-memory.
	var substrate storage.Store
	if cfg.SessionFile != "" {
		fileStore, err := storage.NewFileStore(cfg.SessionFile, log)
		if err != nil {
			log.Error("failed to open session file", zap.Error(err))
			os.Exit(1)
		}
		substrate = fileStore
	} else {
		substrate = storage.NewMemStore()
	}

	// Remote sync notifiers are best-effort; the server runs without them.
	var notifiers notify.Multi
	var nc *natsclient.Client
	if cfg.NATSURL != "" {
		nc, err = natsclient.Connect(natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, change events disabled", zap.Error(err))
		} else {
			defer nc.Close()
			streamNotifier := notify.NewStreamNotifier(nc)
			if err := streamNotifier.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure change stream", zap.Error(err))
			} else {
				notifiers = append(notifiers, streamNotifier)
			}
		}
	}
	if cfg.SyncBaseURL != "" {
		notifiers = append(notifiers, notify.NewHTTPNotifier(cfg.SyncBaseURL))
	}
	var notifier notify.Notifier = notify.Nop{}
	if len(notifiers) > 0 {
		notifier = notifiers
	}

	engine := store.NewEngine(substrate, store.DefaultRegistry(), notifier, log)
	manager := store.NewManager(engine, log)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	simulator := auth.NewSimulator(substrate, engine, tokens, cfg.SessionTTL, log)

	healthHandler := handler.NewHealthHandler(nc)
	authHandler := handler.NewAuthHandler(simulator, log)
	collectionHandler := handler.NewCollectionHandler(manager, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/signup", authHandler.Signup)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})

		r.Route("/collections/{collection}/items", func(r chi.Router) {
			r.Use(middleware.Auth(tokens))

			r.Get("/", collectionHandler.List)
			r.Post("/", collectionHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", collectionHandler.Get)
				r.Patch("/", collectionHandler.Update)
				r.Delete("/", collectionHandler.Delete)
			})
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	// Drain in-flight sync dispatches before exit.
	engine.Wait()

	log.Info("server stopped")
}
