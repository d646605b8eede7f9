package cdiquery

import (
	"context"

	"github.com/google/uuid"
)

// QueryRepository is the audit trail for generated queries.
type QueryRepository interface {
	Create(ctx context.Context, q *StoredQuery) error
	GetByID(ctx context.Context, id uuid.UUID) (*StoredQuery, error)
	List(ctx context.Context, limit, offset int) ([]*StoredQuery, int, error)
}
