// Package main is the entry point for the workbench API server.
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

	"github.com/sekha-ai/sekha-workbench/internal/config"
	"github.com/sekha-ai/sekha-workbench/internal/events"
	"github.com/sekha-ai/sekha-workbench/internal/handler"
	"github.com/sekha-ai/sekha-workbench/internal/llm"
	"github.com/sekha-ai/sekha-workbench/internal/middleware"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
	"github.com/sekha-ai/sekha-workbench/internal/service"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
	"github.com/sekha-ai/sekha-workbench/pkg/metrics"
	"github.com/sekha-ai/sekha-workbench/pkg/tracing"
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

	log.Info("starting workbench API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "sekha-workbench", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing")
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to the Sekha memory service
	sekhaClient, err := sekha.NewHTTPClient(sekha.Config{
		BaseURL: cfg.SekhaURL,
		APIKey:  cfg.SekhaAPIKey,
		Timeout: cfg.SekhaTimeout,
	})
	if err != nil {
		log.Error("failed to create sekha client")
		os.Exit(1)
	}

	// Connect to NATS if eventing is enabled
	var natsClient *events.Client
	var publisher *events.Publisher
	if cfg.EventsEnabled {
		natsClient, err = events.Connect(ctx, events.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS")
			os.Exit(1)
		}
		defer natsClient.Close()

		publisher = events.NewPublisher(natsClient, log)
		if err := publisher.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure stream")
			os.Exit(1)
		}
	}

	// Initialize AI bridge
	var bridge llm.Client
	switch {
	case cfg.LLMProvider == "openai" && cfg.OpenAIAPIKey != "":
		bridge, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	case cfg.AnthropicAPIKey != "":
		bridge, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	}
	if err != nil {
		log.Warn("failed to create LLM client, tag suggestion disabled")
		bridge = nil
	}

	// Initialize services
	selection := service.NewSelectionManager()
	selection.OnDidChangeSelection(func(ids []string) {
		metrics.SelectionSize.Set(float64(len(ids)))
	})
	tagManager := service.NewTagManager(sekhaClient, bridge, publisher, log)
	mergeService := service.NewMergeService(sekhaClient, publisher, log)
	batchService := service.NewBatchService(sekhaClient, selection, tagManager, publisher, log)
	importService := service.NewImportService(sekhaClient, publisher, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(sekhaClient, natsClient)
	conversationHandler := handler.NewConversationHandler(sekhaClient, importService, log)
	tagHandler := handler.NewTagHandler(tagManager, log)
	mergeHandler := handler.NewMergeHandler(mergeService, log)
	selectionHandler := handler.NewSelectionHandler(selection)
	batchHandler := handler.NewBatchHandler(batchService, log)

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
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
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

		// Conversations
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", conversationHandler.Create)
			r.Get("/", conversationHandler.List)
			r.Post("/search", conversationHandler.Search)
			r.Post("/import", conversationHandler.Import)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", conversationHandler.Get)
				r.Put("/", conversationHandler.Update)
				r.Delete("/", conversationHandler.Delete)

				// Tags
				r.Get("/tags", tagHandler.Get)
				r.Post("/tags", tagHandler.Add)
				r.Delete("/tags", tagHandler.Remove)
				r.Post("/tags/suggest", tagHandler.Suggest)
			})
		})

		// Aggregate tag views
		r.Get("/tags", tagHandler.All)
		r.Get("/tags/filter", tagHandler.Filter)

		// Selection
		r.Route("/selection", func(r chi.Router) {
			r.Get("/", selectionHandler.Get)
			r.Put("/", selectionHandler.Put)
			r.Delete("/", selectionHandler.Clear)
			r.Post("/{id}/toggle", selectionHandler.Toggle)
		})

		// Merge
		r.Post("/merge", mergeHandler.Merge)

		// Batch operations over the selection
		r.Route("/batch", func(r chi.Router) {
			r.Post("/pin", batchHandler.Pin)
			r.Post("/unpin", batchHandler.Unpin)
			r.Post("/archive", batchHandler.Archive)
			r.Post("/delete", batchHandler.Delete)
			r.Post("/move", batchHandler.Move)
			r.Post("/tags", batchHandler.AddTags)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error")
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown")
	}

	log.Info("server stopped")
}
