package main

import (
	"log/slog"
	"time"

	"propledger/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"PORT" envdef:"8080"`
	MetricsPort     uint16        `env:"METRICS_PORT" envdef:"9091"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envdef:"INFO"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envdef:"15s"`

	Postgres   config.PostgresConfig
	Redis      config.RedisConfig
	Kafka      config.KafkaConfig
	Settlement config.SettlementConfig
}
