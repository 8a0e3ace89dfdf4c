// Package main is the entry point for the sync hub.
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

	"github.com/thevinciapp/vinci-hub/internal/broadcast"
	"github.com/thevinciapp/vinci-hub/internal/config"
	"github.com/thevinciapp/vinci-hub/internal/gateway"
	"github.com/thevinciapp/vinci-hub/internal/handler"
	"github.com/thevinciapp/vinci-hub/internal/llm"
	"github.com/thevinciapp/vinci-hub/internal/middleware"
	natsclient "github.com/thevinciapp/vinci-hub/internal/nats"
	"github.com/thevinciapp/vinci-hub/internal/service"
	"github.com/thevinciapp/vinci-hub/internal/state"
	"github.com/thevinciapp/vinci-hub/pkg/logger"
	"github.com/thevinciapp/vinci-hub/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Infow("starting sync hub")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "vinci-hub", cfg.TracingEndpoint)
		if err != nil {
			log.Warnw("failed to initialize tracing", "error", err)
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS when a snapshot journal is configured
	var nats *natsclient.Client
	var journal *natsclient.Journal
	if cfg.NATSURL != "" {
		nats, err = natsclient.Connect(natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Errorw("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nats.Close()

		journal = natsclient.NewJournal(nats)
		if err := journal.EnsureStream(ctx); err != nil {
			log.Errorw("failed to ensure journal stream", "error", err)
			os.Exit(1)
		}
	}

	// Initialize LLM providers for hub-side completion
	providers := make(map[string]llm.Client)
	for provider, key := range map[llm.Provider]string{
		llm.ProviderAnthropic: cfg.AnthropicAPIKey,
		llm.ProviderOpenAI:    cfg.OpenAIAPIKey,
		llm.ProviderGroq:      cfg.GroqAPIKey,
	} {
		if key == "" {
			continue
		}
		client, err := llm.NewClient(provider, key)
		if err != nil {
			log.Warnw("failed to create LLM client", "provider", provider, "error", err)
			continue
		}
		providers[string(provider)] = client
	}

	// Remote gateway
	gw, err := gateway.NewClient(cfg.BackendURL, cfg.BackendAnonKey, cfg.BackendTimeout)
	if err != nil {
		log.Errorw("failed to create gateway", "error", err)
		os.Exit(1)
	}

	// Store and broadcaster: every commit produces exactly one broadcast.
	store := state.New()
	var journalSink broadcast.Journal
	if journal != nil {
		journalSink = journal
	}
	broadcaster := broadcast.New(journalSink, log)

	// Replay the last journaled snapshot so windows attaching before session
	// propagation still see the previous state.
	if journal != nil {
		if payload, err := journal.LatestSnapshot(ctx, ""); err == nil {
			store.Replace(state.FromPayload(*payload))
			log.Infow("replayed journaled snapshot")
		} else {
			log.Debugw("no journaled snapshot to replay", "error", err)
		}
	}

	store.Subscribe(broadcaster.Publish)

	// Initialize services
	sessionSvc := service.NewSessionService(gw, store, log)
	if journal != nil {
		sessionSvc.OnUserChange(journal.SetUser)
	}
	spaceSvc := service.NewSpaceService(gw, store, log)
	conversationSvc := service.NewConversationService(gw, store, log)
	messageSvc := service.NewMessageService(gw, store, providers, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(nats)
	sessionHandler := handler.NewSessionHandler(sessionSvc, log)
	stateHandler := handler.NewStateHandler(store, broadcaster, log)
	spaceHandler := handler.NewSpaceHandler(spaceSvc, log)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	messageHandler := handler.NewMessageHandler(messageSvc, log)
	modelHandler := handler.NewModelHandler(providers)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Session propagation
		r.Post("/session", sessionHandler.Set)
		r.Delete("/session", sessionHandler.Clear)

		// Snapshot access and subscription
		r.Get("/state", stateHandler.Get)
		r.Get("/state/subscribe", stateHandler.Subscribe)
		r.Post("/state/messages", messageHandler.Add)

		// Spaces
		r.Route("/spaces", func(r chi.Router) {
			r.Post("/", spaceHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", spaceHandler.Update)
				r.Patch("/model", spaceHandler.UpdateModel)
				r.Post("/activate", spaceHandler.Activate)
				r.Delete("/", spaceHandler.Delete)
			})

			r.Route("/{spaceID}/conversations", func(r chi.Router) {
				r.Post("/", conversationHandler.Create)
				r.Patch("/{id}", conversationHandler.Update)
				r.Delete("/{id}", conversationHandler.Delete)
			})
		})

		// Conversations and messages
		r.Route("/conversations/{id}", func(r chi.Router) {
			r.Post("/activate", conversationHandler.Activate)
			r.Get("/messages", messageHandler.List)
			r.Post("/messages", messageHandler.Send)
			r.Patch("/messages/{messageID}", messageHandler.Update)
			r.Delete("/messages/{messageID}", messageHandler.Delete)
		})

		// Search and model catalog
		r.Post("/search", messageHandler.Search)
		r.Get("/models", modelHandler.List)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HubPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("hub listening", "port", cfg.HubPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down hub")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Infow("hub stopped")
}
