package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/domain/entity"
)

type ProgressRepositoryAdapter struct {
	db *sql.DB
}

func NewProgressRepositoryAdapter(db *sql.DB) outbound.ProgressRepository {
	return &ProgressRepositoryAdapter{db: db}
}

const progressColumns = `id, user_id, module_id, completed, completion_date, created_at, updated_at`

func (r *ProgressRepositoryAdapter) FindByUser(ctx context.Context, userID string) ([]*entity.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id::text = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Progress, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress: %w", err)
	}
	return out, nil
}

func (r *ProgressRepositoryAdapter) FindByUserAndModule(ctx context.Context, userID, moduleID string) (*entity.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id::text = $1 AND module_id = $2`

	p, err := scanProgress(r.db.QueryRowContext(ctx, query, userID, moduleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to find progress: %w", err)
	}
	return p, nil
}

func (r *ProgressRepositoryAdapter) Upsert(ctx context.Context, p *entity.Progress) error {
	query := `
		INSERT INTO user_progress (id, user_id, module_id, completed, completion_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, module_id) DO UPDATE
		SET completed = EXCLUDED.completed, completion_date = EXCLUDED.completion_date, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.ModuleID, p.Completed, p.CompletionDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (r *ProgressRepositoryAdapter) CountCompleted(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_progress WHERE user_id::text = $1 AND completed`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed modules: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProgress(row rowScanner) (*entity.Progress, error) {
	var p entity.Progress
	var completionDate sql.NullTime
	if err := row.Scan(&p.ID, &p.UserID, &p.ModuleID, &p.Completed, &completionDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if completionDate.Valid {
		t := completionDate.Time.UTC()
		p.CompletionDate = &t
	}
	return &p, nil
}
