package tasks

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository useful for tests and local runs.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[int64]Task
	nextID int64
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{byID: map[int64]Task{}} }

func (r *MemoryRepo) FindByID(ctx context.Context, id int64) (Task, bool, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	return t, ok, nil
}

func (r *MemoryRepo) Create(ctx context.Context, t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == 0 {
		r.nextID++
		t.ID = r.nextID
	} else if t.ID > r.nextID {
		r.nextID = t.ID
	}
	r.byID[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id int64, s Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	t.Status = s
	r.byID[id] = t
	return true, nil
}
