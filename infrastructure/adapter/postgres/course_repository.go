package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/domain/entity"
)

type CourseRepositoryAdapter struct {
	db *sql.DB
}

var _ outbound.CourseRepository = (*CourseRepositoryAdapter)(nil)

func NewCourseRepositoryAdapter(db *sql.DB) *CourseRepositoryAdapter {
	return &CourseRepositoryAdapter{db: db}
}

func (r *CourseRepositoryAdapter) FindAll(ctx context.Context, offset, limit int) ([]*entity.Course, error) {
	query := `
		SELECT id, title, description, icon, color_class, created_at, updated_at
		FROM courses
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*entity.Course, 0)
	for rows.Next() {
		var c entity.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Icon, &c.ColorClass, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepositoryAdapter) FindByID(ctx context.Context, id string) (*entity.Course, error) {
	query := `
		SELECT id, title, description, icon, color_class, created_at, updated_at
		FROM courses
		WHERE id = $1
	`

	var c entity.Course
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title, &c.Description, &c.Icon, &c.ColorClass, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to find course: %w", err)
	}
	return &c, nil
}

func (r *CourseRepositoryAdapter) FindModulesByCourse(ctx context.Context, courseID string) ([]*entity.Module, error) {
	query := `
		SELECT id, course_id, title, description, position, created_at, updated_at
		FROM modules
		WHERE course_id = $1
		ORDER BY position, id
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	defer rows.Close()

	modules := make([]*entity.Module, 0)
	for rows.Next() {
		var m entity.Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.Position, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate modules: %w", err)
	}
	return modules, nil
}

func (r *CourseRepositoryAdapter) FindModuleByID(ctx context.Context, id string) (*entity.Module, error) {
	query := `
		SELECT id, course_id, title, description, position, created_at, updated_at
		FROM modules
		WHERE id = $1
	`

	var m entity.Module
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.Position, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrModuleNotFound
		}
		return nil, fmt.Errorf("failed to find module: %w", err)
	}
	return &m, nil
}

func (r *CourseRepositoryAdapter) ModuleExists(ctx context.Context, moduleID string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM modules WHERE id = $1)`, moduleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check module: %w", err)
	}
	return exists, nil
}

func (r *CourseRepositoryAdapter) CountModules(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM modules`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count modules: %w", err)
	}
	return n, nil
}

// Seed upserts courses and their modules in one transaction.
func (r *CourseRepositoryAdapter) Seed(ctx context.Context, courses []*entity.Course, modules []*entity.Module) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range courses {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO courses (id, title, description, icon, color_class, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE
			SET title = EXCLUDED.title, description = EXCLUDED.description, icon = EXCLUDED.icon,
			    color_class = EXCLUDED.color_class, updated_at = EXCLUDED.updated_at
		`, c.ID, c.Title, c.Description, c.Icon, c.ColorClass, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to seed course %s: %w", c.ID, err)
		}
	}

	for _, m := range modules {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO modules (id, course_id, title, description, position, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE
			SET course_id = EXCLUDED.course_id, title = EXCLUDED.title, description = EXCLUDED.description,
			    position = EXCLUDED.position, updated_at = EXCLUDED.updated_at
		`, m.ID, m.CourseID, m.Title, m.Description, m.Position, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to seed module %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}
