// Package config holds configuration sections shared between binaries.
package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envdef:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envdef:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envdef:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envdef:"30m"`
}

// RedisConfig configures the active-prop read cache. An empty Addr disables
// caching and the prop store is queried directly.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envdef:""`
	PropsTTL time.Duration `env:"REDIS_PROPS_TTL" envdef:"30s"`
}

// KafkaConfig configures domain-event publishing. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers string `env:"KAFKA_BROKERS" envdef:""`
}

// SettlementConfig tunes the settlement scanner.
//
// FinalAfter is the staleness tolerance: a game whose start time is at least
// this far in the past is treated as finished even when the upstream status
// feed still says in_progress.
type SettlementConfig struct {
	Interval   time.Duration `env:"SETTLEMENT_INTERVAL" envdef:"15m"`
	FinalAfter time.Duration `env:"SETTLEMENT_FINAL_AFTER" envdef:"3h"`
}
