// Package workerpool wraps a shared ants goroutine pool behind a small
// manager interface so that callers can fan work out without owning pool
// lifecycle details.
package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/panjf2000/ants/v2"
)

const defaultPoolSize = 16

// Manager coordinates task submission against a shared goroutine pool.
type Manager interface {
	Submit(ctx context.Context, task func()) error
	Shutdown()
}

type manager struct {
	pool *ants.Pool
}

// NewManager creates a pool backed manager. A non positive size falls back to
// the default pool size.
func NewManager(_ context.Context, size int) (Manager, error) {
	if size <= 0 {
		size = defaultPoolSize
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	return &manager{pool: pool}, nil
}

func (m *manager) Submit(ctx context.Context, task func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return m.pool.Submit(task)
}

func (m *manager) Shutdown() {
	m.pool.Release()
}

// Await fans the supplied tasks out on the manager's pool and blocks until
// every task has finished, joining any errors they return. Submission
// failures are joined in as well so no task outcome is silently dropped.
func Await(ctx context.Context, m Manager, tasks ...func(ctx context.Context) error) error {
	if len(tasks) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	results := make([]error, len(tasks))

	for i, task := range tasks {
		wg.Add(1)

		run := task
		slot := i
		err := m.Submit(ctx, func() {
			defer wg.Done()
			results[slot] = run(ctx)
		})
		if err != nil {
			wg.Done()
			results[slot] = err
		}
	}

	wg.Wait()
	return errors.Join(results...)
}
