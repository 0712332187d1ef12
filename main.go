package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SweetyAngel/egerus/internal/config"
	"github.com/SweetyAngel/egerus/internal/httpserver"
	"github.com/SweetyAngel/egerus/internal/session"
	"github.com/SweetyAngel/egerus/internal/words"
)

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if cfg.InsecureSecret() {
		log.Warn().Msg("JWT_SECRET not set, using development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entries, err := words.Init(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	mem := session.NewMemoryStore()
	go session.Janitor(ctx, mem, time.Minute, cfg.SessionIdle)

	srv := httpserver.New(cfg, mem, entries, session.Options{})
	log.Info().Str("port", cfg.Port).Int("words", len(entries)).Msg("starting egerus")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	closed := mem.Clear()
	log.Info().Int("sessions", closed).Msg("shut down")
}
