// Package lock implementa inventory.Locker: en proceso (KeyedLocker) o distribuido con Redis (RedisLocker).
package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
)

var _ inventory.Locker = (*KeyedLocker)(nil)

// KeyedLocker da un mutex por clave dentro del proceso. Claves distintas no se bloquean.
// Las entradas se liberan cuando nadie espera ni retiene la clave.
type KeyedLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{} // buffer 1: lleno = tomado
	refs int
}

// NewKeyedLocker construye el locker.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{slots: make(map[string]*slot)}
}

// WithLock espera el lock de key hasta que venza ctx y ejecuta fn.
func (l *KeyedLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s := l.acquireSlot(key)
	defer l.releaseSlot(key, s)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: lock %s: %v", domain.ErrConcurrency, key, ctx.Err())
	}
	defer func() { <-s.ch }()

	return fn(ctx)
}

func (l *KeyedLocker) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *KeyedLocker) releaseSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// held cuenta las claves vivas; lo usan los tests.
func (l *KeyedLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
