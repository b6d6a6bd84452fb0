package repository

import (
	"context"

	"fundoo-notes-be/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IRequestLogRepository interface {
	Increment(ctx context.Context, method string, path string) error
}

type requestLogRepository struct {
	db database.DatabaseQueryer
}

func NewRequestLogRepository(db *pgxpool.Pool) IRequestLogRepository {
	return &requestLogRepository{db: db}
}

func (r *requestLogRepository) Increment(ctx context.Context, method string, path string) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO request_log (method, path, count) VALUES ($1, $2, 1)
		 ON CONFLICT (method, path) DO UPDATE SET count = request_log.count + 1`,
		method,
		path,
	)
	return err
}
