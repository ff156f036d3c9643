package main

import (
	"context"
	"time"

	"aurum-backend/internal/app"
	"aurum-backend/internal/config"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}

	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("get DB handle")
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatal().Err(err).Msg("Postgres connection failed")
		}
		log.Info().Msg("Postgres connected")
	}
	if a.Rdb != nil {
		if err := a.Rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		log.Info().Msg("Redis connected")
	}

	if a.Sweeper != nil {
		go a.Sweeper.RunEvery(context.Background(), time.Minute)
	}

	log.Info().Str("port", cfg.Port).Msg("Server running")
	if err := a.Fiber.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
