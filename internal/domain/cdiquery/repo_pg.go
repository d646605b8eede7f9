package cdiquery

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryRepoPG struct{ pool *pgxpool.Pool }

func NewQueryRepoPG(pool *pgxpool.Pool) QueryRepository { return &queryRepoPG{pool: pool} }

const queryCols = `id, query_type, priority, query_text, clinical_indicator, confidence, created_at`

func scanQuery(row pgx.Row) (*StoredQuery, error) {
	var q StoredQuery
	err := row.Scan(&q.ID, &q.QueryType, &q.Priority, &q.QueryText, &q.ClinicalIndicator, &q.Confidence, &q.CreatedAt)
	return &q, err
}

func (r *queryRepoPG) Create(ctx context.Context, q *StoredQuery) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cdi_query (id, query_type, priority, query_text, clinical_indicator, confidence)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO NOTHING`,
		q.ID, q.QueryType, q.Priority, q.QueryText, q.ClinicalIndicator, q.Confidence)
	return err
}

func (r *queryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*StoredQuery, error) {
	return scanQuery(r.pool.QueryRow(ctx, `SELECT `+queryCols+` FROM cdi_query WHERE id = $1`, id))
}

func (r *queryRepoPG) List(ctx context.Context, limit, offset int) ([]*StoredQuery, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cdi_query`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+queryCols+` FROM cdi_query ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*StoredQuery
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, q)
	}
	return out, total, rows.Err()
}
