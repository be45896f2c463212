package outbound

import (
	"context"
	"errors"

	"github.com/codemastery/codemastery-api/domain/entity"
)

var (
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrAttemptNotFound = errors.New("attempt not found")
)

type LessonRepository interface {
	FindByModule(ctx context.Context, moduleID string) ([]*entity.Lesson, error)
	FindByID(ctx context.Context, id string) (*entity.Lesson, error)
}

// AttemptRepository lists attempts newest first.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *entity.ExerciseAttempt) error
	FindByID(ctx context.Context, id string) (*entity.ExerciseAttempt, error)
	FindLatest(ctx context.Context, userID, lessonID string) (*entity.ExerciseAttempt, error)
	FindByUser(ctx context.Context, userID string, limit int) ([]*entity.ExerciseAttempt, error)
	Delete(ctx context.Context, id string) error
}
