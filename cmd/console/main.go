package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-console/internal/config"
	"github.com/spec-kit/desk-console/internal/credstore"
	"github.com/spec-kit/desk-console/internal/observability"
	"github.com/spec-kit/desk-console/internal/remote"
	"github.com/spec-kit/desk-console/internal/session"
	"github.com/spec-kit/desk-console/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	var creds credstore.Store
	switch cfg.Credential.Backend {
	case config.CredentialBackendRedis:
		redisStore := credstore.NewRedisStore(cfg.Redis, cfg.Credential.RedisKey, logger)
		defer redisStore.Close()
		creds = redisStore
	default:
		creds = credstore.NewFileStore(cfg.Credential.FilePath)
	}

	metrics := observability.NewMetrics()

	// The desk client pulls its bearer token from the session store;
	// the store is the only component that ever sees the raw
	// credential slot.
	var sessions *session.Store
	desk := remote.NewClient(cfg.Desk, func() string { return sessions.Token() }, metrics, logger)
	sessions = session.NewStore(creds, desk, logger)

	logger.Info("starting console",
		zap.String("desk", cfg.Desk.BaseURL),
		zap.String("credential_backend", string(cfg.Credential.Backend)))

	program := tea.NewProgram(ui.New(ui.Deps{
		Sessions: sessions,
		Desk:     desk,
		Logger:   logger,
	}), tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		logger.Fatal("console crashed", zap.Error(err))
	}
}
