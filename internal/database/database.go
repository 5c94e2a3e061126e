// Package database owns the Postgres connection pool: connecting with retries,
// running migrations, scoping queries to a transaction carried in the context,
// and keeping idle connections warm.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectOptions controls how Connect reaches the database.
type ConnectOptions struct {
	// Attempts is the number of pings tried before giving up. Zero means one.
	Attempts uint
	// Delay is the base delay between attempts; retry-go backs off from it.
	Delay time.Duration
	// Logger receives a warning per failed attempt. Nil disables logging.
	Logger *slog.Logger
}

// Connect opens a pgxpool.Pool for dsn and pings it until it answers or the
// attempts are exhausted. pgxpool.New does not dial, so the ping is what
// proves the database is reachable before the server accepts traffic.
func Connect(ctx context.Context, dsn string, opts ConnectOptions) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("database.Connect: open pool: %w", err)
	}

	attempts := opts.Attempts
	if attempts == 0 {
		attempts = 1
	}
	delay := opts.Delay
	if delay == 0 {
		delay = 300 * time.Millisecond
	}

	err = retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			if opts.Logger != nil {
				opts.Logger.WarnContext(ctx, "failed ping to database",
					"attempt", attempt+1,
					"error", err,
				)
			}
		}),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("database.Connect: ping: %w", err)
	}
	return pool, nil
}
