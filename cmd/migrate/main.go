package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/tienda360-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda360-api/pkg/config"
	"github.com/jhoicas/tienda360-api/pkg/logger"
)

// Uso: go run ./cmd/migrate -cmd up | down | status | version | redo | reset
func main() {
	command := flag.String("cmd", "up", "comando goose")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	switch *command {
	case "up", "down", "status", "version", "redo", "reset":
	default:
		log.Fatal().Str("cmd", *command).Msg("comando no soportado")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, *command, flag.Args()...); err != nil {
		log.Fatal().Err(err).Msg("migración")
	}
	log.Info().Str("cmd", *command).Msg("migración completada")
}
