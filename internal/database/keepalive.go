package database

import (
	"context"
	"log/slog"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool and *DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// pingTimeout bounds a single keep-alive ping.
const pingTimeout = 5 * time.Second

// KeepAlive pings the database every interval until ctx is cancelled.
// Managed Postgres providers and PgBouncer drop idle connections; a periodic
// ping keeps at least one pooled connection alive. A failed ping is logged
// and the loop continues. A non-positive interval disables the loop and
// KeepAlive simply waits for ctx.
//
// KeepAlive returns nil when ctx is cancelled so it can run in an errgroup.
func KeepAlive(ctx context.Context, p Pinger, interval time.Duration, log *slog.Logger) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := p.Ping(pingCtx)
			cancel()
			if err != nil {
				log.WarnContext(ctx, "database keep-alive ping failed", "error", err)
				continue
			}
			log.DebugContext(ctx, "database keep-alive ping ok")
		}
	}
}
