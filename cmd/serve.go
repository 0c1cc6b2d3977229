package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/auditdesk/assistant-hub/internal/auditdata"
	"github.com/auditdesk/assistant-hub/internal/config"
	"github.com/auditdesk/assistant-hub/internal/enrich"
	"github.com/auditdesk/assistant-hub/internal/openai"
	"github.com/auditdesk/assistant-hub/internal/provision"
	"github.com/auditdesk/assistant-hub/internal/service"
	transport "github.com/auditdesk/assistant-hub/internal/transport/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	logger.Info().Int("port", cfg.HTTPPort).Msg("starting assistant hub")
	if cfg.APIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set; chat endpoints will report a configuration error")
	}

	client := openai.NewClient(cfg.APIKey)

	defs, err := provision.LoadDefinitions(cfg.AssistantsDir)
	if err != nil {
		return err
	}

	// Missing data files degrade first-turn injection, not startup.
	data, loadErrs := auditdata.Load(cfg.DataDir)
	for _, loadErr := range loadErrs {
		logger.Warn().Err(loadErr).Msg("audit data unavailable")
	}

	registry := service.NewRegistry()
	for _, def := range defs {
		assistant, err := provision.EffectiveConfig(def)
		if err != nil {
			logger.Warn().Err(err).Str("key", def.Key).Msg("runtime record unreadable; using static config")
			assistant = def.Config
		}
		assistant.Key = def.Key
		// The environment wins over the runtime record.
		if id := os.Getenv(config.AssistantIDEnv(def.Key)); id != "" {
			assistant.ID = id
		}

		var enricher enrich.Enricher = enrich.Noop{}
		maxPolls := service.InteractiveMaxPolls
		if assistant.InjectAuditContext {
			enricher = enrich.NewAuditEnricher(data, logger)
			maxPolls = service.DataHeavyMaxPolls
		}

		poller := service.NewPoller(client, service.PollInterval, maxPolls)
		convLog := logger.With().Str("assistant", def.Key).Logger()
		conv := service.NewConversation(client, assistant.ID, enricher, poller, convLog)
		registry.Register(def.Key, assistant, conv)

		if assistant.Configured() {
			logger.Info().Str("key", def.Key).Str("name", assistant.Name).Msg("loaded assistant")
		} else {
			logger.Warn().Str("key", def.Key).Msg("assistant has no remote ID; excluded from listing")
		}
	}

	handler := transport.NewHandler(registry, cfg.APIKey != "")
	server := transport.NewServer(handler, cfg.PublicDir)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	logger.Info().Int("assistants", len(registry.List())).Msg("assistant hub started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down gracefully")
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
