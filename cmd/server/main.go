package main

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"wordrace/internal/app"
	"wordrace/internal/config"
	"wordrace/internal/domain"
	"wordrace/internal/store"
	httpTransport "wordrace/internal/transport/http"
	"wordrace/internal/words"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg)

	logger.Info().
		Str("env", cfg.Server.Env).
		Str("port", cfg.Server.Port).
		Msg("starting word race server")

	oracle, err := newOracle(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.Words.File).Msg("failed to load dictionary")
	}
	logger.Info().Int("words", oracle.Size()).Msg("dictionary loaded")

	st := store.New(oracle, store.Options{
		Settings: domain.RoomSettings{
			MinPlayers: cfg.Game.MinPlayers,
			MaxPlayers: cfg.Game.MaxPlayers,
		},
		GracePeriod:    cfg.Game.RoomGracePeriod,
		RoomCodeLength: cfg.Game.RoomCodeLength,
	}, logger)
	defer st.Close()

	engine := app.NewEngine(st, oracle, logger)

	// Create HTTP server
	server := httpTransport.NewServer(cfg, st, engine, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.Logging.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func newOracle(cfg *config.Config) (*words.Oracle, error) {
	list := words.DefaultWords
	if cfg.Words.File != "" {
		loaded, err := words.Load(cfg.Words.File)
		if err != nil {
			return nil, err
		}
		list = loaded
	}
	return words.New(list, rand.NewSource(time.Now().UnixNano()))
}
