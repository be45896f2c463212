package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/domain/entity"
)

type LessonRepositoryAdapter struct {
	db *sql.DB
}

var _ outbound.LessonRepository = (*LessonRepositoryAdapter)(nil)

func NewLessonRepositoryAdapter(db *sql.DB) *LessonRepositoryAdapter {
	return &LessonRepositoryAdapter{db: db}
}

const lessonColumns = `id, module_id, title, theory, practice_instructions, practice_initial_code, practice_solution, position, created_at, updated_at`

func (r *LessonRepositoryAdapter) FindByModule(ctx context.Context, moduleID string) ([]*entity.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE module_id = $1 ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]*entity.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lessons: %w", err)
	}
	return lessons, nil
}

func (r *LessonRepositoryAdapter) FindByID(ctx context.Context, id string) (*entity.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	l, err := scanLesson(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to find lesson: %w", err)
	}
	return l, nil
}

// Seed upserts lessons in one transaction. Their modules must already exist.
func (r *LessonRepositoryAdapter) Seed(ctx context.Context, lessons []*entity.Lesson) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range lessons {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lessons (`+lessonColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE
			SET module_id = EXCLUDED.module_id, title = EXCLUDED.title, theory = EXCLUDED.theory,
			    practice_instructions = EXCLUDED.practice_instructions,
			    practice_initial_code = EXCLUDED.practice_initial_code,
			    practice_solution = EXCLUDED.practice_solution,
			    position = EXCLUDED.position, updated_at = EXCLUDED.updated_at
		`, l.ID, l.ModuleID, l.Title, l.Theory, l.PracticeInstructions, l.PracticeInitialCode,
			l.PracticeSolution, l.Position, l.CreatedAt, l.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to seed lesson %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

func scanLesson(row rowScanner) (*entity.Lesson, error) {
	var l entity.Lesson
	if err := row.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Theory, &l.PracticeInstructions,
		&l.PracticeInitialCode, &l.PracticeSolution, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

type AttemptRepositoryAdapter struct {
	db *sql.DB
}

func NewAttemptRepositoryAdapter(db *sql.DB) outbound.AttemptRepository {
	return &AttemptRepositoryAdapter{db: db}
}

const attemptColumns = `id, user_id, lesson_id, code_submitted, is_correct, attempt_date`

func (r *AttemptRepositoryAdapter) Create(ctx context.Context, a *entity.ExerciseAttempt) error {
	query := `INSERT INTO exercise_attempts (` + attemptColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, a.ID, a.UserID, a.LessonID, a.CodeSubmitted, a.IsCorrect, a.AttemptDate)
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}

func (r *AttemptRepositoryAdapter) FindByID(ctx context.Context, id string) (*entity.ExerciseAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM exercise_attempts WHERE id::text = $1`
	return r.findOne(ctx, query, id)
}

func (r *AttemptRepositoryAdapter) FindLatest(ctx context.Context, userID, lessonID string) (*entity.ExerciseAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM exercise_attempts
		WHERE user_id::text = $1 AND lesson_id = $2
		ORDER BY attempt_date DESC, id DESC
		LIMIT 1`
	return r.findOne(ctx, query, userID, lessonID)
}

func (r *AttemptRepositoryAdapter) FindByUser(ctx context.Context, userID string, limit int) ([]*entity.ExerciseAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM exercise_attempts
		WHERE user_id::text = $1
		ORDER BY attempt_date DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.ExerciseAttempt, 0)
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}
	return out, nil
}

func (r *AttemptRepositoryAdapter) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exercise_attempts WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attempt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete attempt: %w", err)
	}
	if n == 0 {
		return outbound.ErrAttemptNotFound
	}
	return nil
}

func (r *AttemptRepositoryAdapter) findOne(ctx context.Context, query string, args ...interface{}) (*entity.ExerciseAttempt, error) {
	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to find attempt: %w", err)
	}
	return a, nil
}

func scanAttempt(row rowScanner) (*entity.ExerciseAttempt, error) {
	var a entity.ExerciseAttempt
	if err := row.Scan(&a.ID, &a.UserID, &a.LessonID, &a.CodeSubmitted, &a.IsCorrect, &a.AttemptDate); err != nil {
		return nil, err
	}
	a.AttemptDate = a.AttemptDate.UTC()
	return &a, nil
}
