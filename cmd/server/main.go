// @title                       Peer Support Portal API
// @version                     1.0
// @description                 Chat, community board and appointment booking for the peer-support portal.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Session token: "Bearer <token>"
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/safespace/support-portal/internal/api"
	"github.com/safespace/support-portal/internal/api/handler"
	"github.com/safespace/support-portal/internal/core/ports"
	"github.com/safespace/support-portal/internal/core/service"
	"github.com/safespace/support-portal/internal/infrastructure/config"
	"github.com/safespace/support-portal/internal/infrastructure/db/docstore"
	"github.com/safespace/support-portal/internal/infrastructure/db/memory"
	mongostore "github.com/safespace/support-portal/internal/infrastructure/db/mongo"
	redisstore "github.com/safespace/support-portal/internal/infrastructure/db/redis"
	"github.com/safespace/support-portal/internal/infrastructure/llm"
	"github.com/safespace/support-portal/internal/infrastructure/queue"
	"github.com/safespace/support-portal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
		Env:    cfg.Env,
		File:   cfg.LogFile,
	})

	checks := map[string]handler.Check{}
	var cleanups []func() error
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			if err := cleanups[i](); err != nil {
				log.Warn().Err(err).Msg("cleanup failed")
			}
		}
	}()

	// --- Document backend ---
	var backend docstore.Backend
	switch cfg.Store.Backend {
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func() error { return mongostore.Disconnect(client) })
		b := mongostore.NewDocumentBackend(db)
		checks["mongodb"] = b.Ping
		backend = b
	default:
		b, err := docstore.NewFileBackend(cfg.Store.DataDir)
		if err != nil {
			return err
		}
		checks["data_dir"] = b.Ping
		backend = b
	}
	store := docstore.NewStore(backend, docstore.Normalizer{}, component(log, "docstore"))

	// --- Session store ---
	var sessions ports.SessionStore
	switch cfg.Store.SessionBackend {
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		cleanups = append(cleanups, client.Close)
		s := redisstore.NewSessionStore(client, cfg.SessionTTL)
		checks["redis"] = s.Ping
		sessions = s
	default:
		sessions = memory.NewSessionStore(cfg.SessionTTL)
	}

	// --- Completion provider ---
	completion, closeCompletion, err := llm.New(ctx, llm.Config{
		Provider:    cfg.Completion.Provider,
		APIKey:      cfg.Completion.APIKey,
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		BaseURL:     cfg.Completion.BaseURL,
	})
	if err != nil {
		return err
	}
	cleanups = append(cleanups, closeCompletion)
	if completion == nil {
		log.Warn().Str("provider", cfg.Completion.Provider).Msg("completions disabled, chat will use the fallback reply")
	}

	// The coordinator outlives the HTTP server so in-flight writes finish
	// during shutdown.
	workCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	coordinator := queue.NewCoordinator(cfg.Store.Workers, component(log, "coordinator"))
	coordinator.Start(workCtx)

	// --- Services ---
	conversation := service.NewConversationService(store, coordinator, completion, service.ConversationConfig{
		Timeout:  cfg.Completion.Timeout,
		Fallback: cfg.Completion.Fallback,
	}, component(log, "conversation"))
	community := service.NewCommunityService(store, coordinator, cfg.Community.PreviewLength, component(log, "community"))
	appointments := service.NewAppointmentService(store, coordinator, component(log, "appointments"))
	navigation := service.NewNavigationService(sessions, conversation, community, component(log, "navigation"))

	e := api.NewRouter(api.Deps{
		Navigation:   navigation,
		Conversation: conversation,
		Community:    community,
		Appointments: appointments,
		Catalog:      service.NewCatalogService(),
		Sessions:     sessions,
		JWTSecret:    cfg.JWTSecret,
		SessionTTL:   cfg.SessionTTL,
		Checks:       checks,
		Logger:       component(log, "http"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Backend).Str("sessions", cfg.Store.SessionBackend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	stopWorkers()
	log.Info().Msg("server stopped")
	return err
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
