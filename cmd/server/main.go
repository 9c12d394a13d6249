package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"clinic-intake/internal/config"
	"clinic-intake/internal/core"
	"clinic-intake/internal/db"
	httpserver "clinic-intake/internal/http"
	"clinic-intake/internal/llm"
	"clinic-intake/internal/notify"
	"clinic-intake/internal/triage"

	_ "github.com/lib/pq"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Open database connection
	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}

	// Verify connection and apply the schema. A store failure here is
	// reported, not fatal: the server still starts and handlers surface
	// "database unavailable" until the store comes back.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		logger.Error().Err(err).Msg("database unavailable")
	} else if err := db.Migrate(context.Background(), dbConn); err != nil {
		logger.Error().Err(err).Msg("failed to apply schema")
	} else {
		logger.Info().Msg("database ready")
	}

	repo := db.NewRepository(dbConn, logger)

	dispatcher := notify.NewSMTPDispatcher(
		cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailAppPassword,
		cfg.EmailEnabled(), logger,
	)
	coordinator := triage.NewCoordinator(repo, dispatcher, cfg.AdminEmail, logger)

	// Initialize OpenAI LLM client (uses env: OPENAI_API_KEY, OPENAI_MODEL_CHAT)
	chat := core.NewIntakeChat(llm.NewOpenAIClient())

	srv := httpserver.NewServer(repo, chat, coordinator, cfg.MessageCap, logger)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, srv); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
