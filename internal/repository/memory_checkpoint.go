package repository

import (
	"context"
	"sync"

	"clearcheck/internal/domain/event"
	clearcheck_errors "clearcheck/pkg/errors"
)

type checkpointKey struct {
	name   string
	tenant string
}

type MemoryCheckpointRepository struct {
	mu          sync.Mutex
	checkpoints map[checkpointKey]event.ProjectionCheckpoint
}

func NewMemoryCheckpointRepository() *MemoryCheckpointRepository {
	return &MemoryCheckpointRepository{checkpoints: make(map[checkpointKey]event.ProjectionCheckpoint)}
}

func (r *MemoryCheckpointRepository) Get(ctx context.Context, projectionName, tenantID string) (event.ProjectionCheckpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp, ok := r.checkpoints[checkpointKey{projectionName, tenantID}]
	if !ok {
		return event.ProjectionCheckpoint{}, clearcheck_errors.ErrNotFound
	}
	return cp, nil
}

func (r *MemoryCheckpointRepository) Save(ctx context.Context, cp event.ProjectionCheckpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkpoints[checkpointKey{cp.ProjectionName, cp.TenantID}] = cp
	return nil
}

func (r *MemoryCheckpointRepository) Delete(ctx context.Context, projectionName, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkpoints, checkpointKey{projectionName, tenantID})
	return nil
}
