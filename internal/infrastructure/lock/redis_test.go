package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

func setupRedisLocker(t *testing.T, opts RedisOptions) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, opts, logger.NewNop()), mr
}

func TestRedisLocker_EjecutaYLibera(t *testing.T) {
	l, mr := setupRedisLocker(t, RedisOptions{})

	executed := false
	err := l.WithLock(context.Background(), "inventory:item:1", func(ctx context.Context) error {
		executed = true
		assert.True(t, mr.Exists("inventory:item:1"), "el lock existe mientras fn corre")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, executed)
	assert.False(t, mr.Exists("inventory:item:1"), "el lock se libera al terminar")
}

func TestRedisLocker_ClaveTomadaEsErrConcurrency(t *testing.T) {
	l, _ := setupRedisLocker(t, RedisOptions{Tries: 2, RetryDelay: 5 * time.Millisecond})

	err := l.WithLock(context.Background(), "inventory:item:1", func(ctx context.Context) error {
		return l.WithLock(ctx, "inventory:item:1", func(context.Context) error {
			t.Fatal("el lock no es reentrante")
			return nil
		})
	})
	assert.ErrorIs(t, err, domain.ErrConcurrency)
}

func TestRedisLocker_PropagaErrorDeFn(t *testing.T) {
	l, mr := setupRedisLocker(t, RedisOptions{})
	err := l.WithLock(context.Background(), "k", func(ctx context.Context) error {
		return domain.ErrNotFound
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, mr.Exists("k"))
}
