package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

var _ inventory.Locker = (*RedisLocker)(nil)

// RedisOptions parámetros del mutex distribuido.
type RedisOptions struct {
	Expiry     time.Duration // TTL del lock en Redis; debe superar el timeout de operación
	Tries      int
	RetryDelay time.Duration
}

// DefaultRedisOptions valores para operaciones de ledger sub-segundo.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Expiry:     5 * time.Second,
		Tries:      32,
		RetryDelay: 25 * time.Millisecond,
	}
}

// RedisLocker lock por clave compartido entre instancias de la API (redsync).
type RedisLocker struct {
	rs   *redsync.Redsync
	opts RedisOptions
	log  *logger.Logger
}

// NewRedisLocker construye el locker sobre un cliente go-redis.
func NewRedisLocker(client redis.UniversalClient, opts RedisOptions, log *logger.Logger) *RedisLocker {
	def := DefaultRedisOptions()
	if opts.Expiry <= 0 {
		opts.Expiry = def.Expiry
	}
	if opts.Tries <= 0 {
		opts.Tries = def.Tries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}
	return &RedisLocker{
		rs:   redsync.New(goredis.NewPool(client)),
		opts: opts,
		log:  log,
	}
}

// WithLock toma el mutex de key (reintentando hasta Tries o hasta que venza ctx) y ejecuta fn.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	mutex := l.rs.NewMutex(
		key,
		redsync.WithExpiry(l.opts.Expiry),
		redsync.WithTries(l.opts.Tries),
		redsync.WithRetryDelay(l.opts.RetryDelay),
	)
	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) || ctx.Err() != nil {
			return fmt.Errorf("%w: lock %s: %v", domain.ErrConcurrency, key, err)
		}
		return fmt.Errorf("redis lock %s: %w", key, err)
	}
	defer func() {
		// El contexto de la operación pudo vencer; el unlock igual debe llegar a Redis.
		if ok, err := mutex.UnlockContext(context.WithoutCancel(ctx)); !ok || err != nil {
			l.log.Warn().Str("lock_key", key).Bool("unlock_ok", ok).Err(err).Msg("no se pudo liberar el lock")
		}
	}()
	return fn(ctx)
}
