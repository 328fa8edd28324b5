// Package postgres stores actor documents in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/colonial-weather/internal/config"
)

// Pool owns the pgx connection pool behind an ActorRepository.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to PostgreSQL with the configured pool limits.
//
// Precondition: cfg has passed config validation.
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Open connects to PostgreSQL and returns the actor store over it. When
// migrate is true the embedded schema migrations are applied first.
//
// Postcondition: the caller must Close the returned Pool.
func Open(ctx context.Context, cfg config.DatabaseConfig, migrate bool) (*ActorRepository, *Pool, error) {
	if migrate {
		if err := Migrate(cfg.DSN()); err != nil {
			return nil, nil, err
		}
	}
	p, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewActorRepository(p.pool), p, nil
}

// Health pings the database within timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
