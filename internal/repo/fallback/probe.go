package fallback

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Probe reports whether the durable store is reachable right now. It is an
// explicit policy object so the per-call re-probing (and its consistency
// gap, see the store types) stays a conscious, swappable decision.
type Probe interface {
	Available(ctx context.Context) bool
}

// PoolProbe issues a trivial query against the connection pool and treats
// any failure as "unavailable".
type PoolProbe struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPoolProbe(pool *pgxpool.Pool, timeout time.Duration) *PoolProbe {
	if timeout <= 0 {
		timeout = time.Second
	}

	return &PoolProbe{
		pool:    pool,
		timeout: timeout,
	}
}

func (p *PoolProbe) Available(ctx context.Context) bool {
	if p.pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var one int

	err := p.pool.QueryRow(ctx, `SELECT 1`).Scan(&one)

	return err == nil
}

// ProbeFunc adapts a plain function to the Probe interface.
type ProbeFunc func(ctx context.Context) bool

func (f ProbeFunc) Available(ctx context.Context) bool {
	return f(ctx)
}
