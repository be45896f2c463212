package outbound

import (
	"context"
	"errors"

	"github.com/codemastery/codemastery-api/domain/entity"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrModuleNotFound = errors.New("module not found")

	ErrProgressNotFound = errors.New("progress not found")
)

type CourseRepository interface {
	FindAll(ctx context.Context, offset, limit int) ([]*entity.Course, error)
	FindByID(ctx context.Context, id string) (*entity.Course, error)
	FindModulesByCourse(ctx context.Context, courseID string) ([]*entity.Module, error)
	FindModuleByID(ctx context.Context, id string) (*entity.Module, error)
	ModuleExists(ctx context.Context, moduleID string) (bool, error)
	CountModules(ctx context.Context) (int, error)
}

// ProgressRepository returns ErrProgressNotFound when a user has no row for a module.
type ProgressRepository interface {
	FindByUser(ctx context.Context, userID string) ([]*entity.Progress, error)
	Upsert(ctx context.Context, progress *entity.Progress) error
	FindByUserAndModule(ctx context.Context, userID, moduleID string) (*entity.Progress, error)
	CountCompleted(ctx context.Context, userID string) (int, error)
}
