package pga

import "time"

// Config controls the behavior of the wrapped connection pool.
type Config struct {
	// ConnectionString is the Postgres URL or DSN handed to pgxpool.
	ConnectionString string

	// MaxConns defaults to 10.
	MaxConns int32

	// MinConns defaults to 0.
	MinConns int32

	// HealthChecksDisabled disables idle-connection health checks.
	HealthChecksDisabled bool

	// HealthCheckPeriod defaults to 30s when health checks are enabled.
	HealthCheckPeriod time.Duration

	// MaxConnLifetime defaults to 30m.
	MaxConnLifetime time.Duration

	// MaxConnIdleTime defaults to 5m.
	MaxConnIdleTime time.Duration

	// ConnectTimeout defaults to 10s.
	ConnectTimeout time.Duration
}
