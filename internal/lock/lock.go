// Package lock serialises model fits per ticker, either inside one process or
// across replicas through Redis.
package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/guttosm/garchcast/internal/domain/errs"
)

// Locker grants exclusive use of a key. Acquire never blocks: a key already
// held fails with errs.ErrFitInProgress. The returned release func is safe to
// call more than once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Local is an in-process Locker.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocal returns an empty in-process Locker.
func NewLocal() *Local {
	return &Local{held: map[string]struct{}{}}
}

func (l *Local) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, fmt.Errorf("%s: %w", key, errs.ErrFitInProgress)
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
