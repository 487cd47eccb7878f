package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"zalo-hr-gateway/internal/agent"
	"zalo-hr-gateway/internal/analyzer"
	"zalo-hr-gateway/internal/approval"
	"zalo-hr-gateway/internal/classify"
	"zalo-hr-gateway/internal/config"
	"zalo-hr-gateway/internal/dedup"
	"zalo-hr-gateway/internal/directory"
	"zalo-hr-gateway/internal/events"
	"zalo-hr-gateway/internal/ingest"
	"zalo-hr-gateway/internal/middleware"
	"zalo-hr-gateway/internal/notify"
	"zalo-hr-gateway/internal/registration"
	"zalo-hr-gateway/internal/roles"
	"zalo-hr-gateway/internal/webhooks"
	"zalo-hr-gateway/internal/worker"
	"zalo-hr-gateway/internal/zalo"
)

const pruneInterval = 10 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		logger.Error("Configuration invalid. Application cannot start.", "error", err)
		os.Exit(1)
	}

	// External collaborators.
	zaloClient := zalo.NewClient(cfg.ZaloBaseURL, cfg.ZaloAccessToken, cfg.SendTimeout.Std(), cfg.ExternalTimeout.Std(), logger)
	directoryClient := directory.NewClient(cfg.DirectoryBaseURL, cfg.ExternalTimeout.Std())
	analyzerClient := analyzer.NewClient(cfg.AnalyzerBaseURL, cfg.ExternalTimeout.Std())
	agentClient := agent.NewClient(cfg.AgentBaseURL, cfg.ExternalTimeout.Std())

	// Workflow state and services.
	notifier := notify.NewDispatcher(zaloClient, logger)
	regStore := registration.NewMemoryStore()
	machine := approval.NewMachine(regStore, directoryClient, notifier, cfg.HRChannelID, logger)
	resolver := roles.NewResolver(cfg.HRChannelID, directoryClient, logger)
	classifier := classify.New(cfg.CVPatterns, cfg.WBSPatterns)
	pipeline := ingest.NewPipeline(zaloClient, analyzerClient, agentClient, cfg.UploadDir, logger)
	router := events.NewRouter(resolver, classifier, pipeline, machine, agentClient, notifier, logger)

	// Worker pool processing acknowledged events.
	workerPool := worker.NewPool(cfg.QueueSize, router, logger)
	workerPool.Start(cfg.Workers)

	dedupStore := dedup.NewStore(cfg.DedupTTL.Std())
	webhookHandler := webhooks.NewHandler(logger, workerPool.JobQueue, dedupStore, regStore)

	mux := chi.NewRouter()
	mux.Route("/webhook", func(r chi.Router) {
		r.Use(middleware.CaptureBody(logger))
		r.Post("/", webhookHandler.HandleWebhook)
	})
	mux.Get("/registrations", webhookHandler.HandleListRegistrations)
	mux.Get("/health", webhookHandler.HandleHealth)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: mux,
	}

	// Background janitor for stale state. Dedup entries always age out;
	// pending registrations only when an expiry window is configured.
	janitorDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-janitorDone:
				return
			case <-ticker.C:
				now := time.Now()
				dedupStore.Prune(now)
				for _, reg := range regStore.PruneExpired(now, cfg.PendingRegistrationTTL.Std()) {
					logger.Warn("Pending registration expired without a decision",
						"registration_id", reg.RegistrationID, "candidate", reg.Profile.Name)
					notifier.Send(context.Background(), cfg.HRChannelID, notify.HRExpiredRegistration(reg))
				}
			}
		}
	}()

	go func() {
		logger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")

	close(janitorDone)

	// Stop the worker pool first so in-flight events finish their replies.
	workerPool.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited gracefully")
}
