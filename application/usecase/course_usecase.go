package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/codemastery/codemastery-api/application/port/inbound"
	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/domain/entity"
	domainerr "github.com/codemastery/codemastery-api/domain/error"
)

// CourseUseCase serves the catalogue and per-user progress. Every caller has
// already passed the access-token guard.
type CourseUseCase struct {
	courses  outbound.CourseRepository
	progress outbound.ProgressRepository
	clock    outbound.Clock
}

var _ inbound.CourseUseCase = (*CourseUseCase)(nil)

func NewCourseUseCase(courses outbound.CourseRepository, progress outbound.ProgressRepository, clock outbound.Clock) *CourseUseCase {
	return &CourseUseCase{
		courses:  courses,
		progress: progress,
		clock:    clock,
	}
}

func (uc *CourseUseCase) ListCourses(ctx context.Context, req inbound.ListCoursesRequest) ([]*entity.Course, error) {
	courses, err := uc.courses.FindAll(ctx, req.Skip, req.Limit)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("list courses", err)
	}
	if courses == nil {
		courses = []*entity.Course{}
	}
	return courses, nil
}

func (uc *CourseUseCase) GetCourse(ctx context.Context, id string) (*inbound.CourseDetailResponse, error) {
	course, err := uc.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	modules, err := uc.courses.FindModulesByCourse(ctx, course.ID)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("list modules", err)
	}
	if modules == nil {
		modules = []*entity.Module{}
	}

	return &inbound.CourseDetailResponse{Course: course, Modules: modules}, nil
}

func (uc *CourseUseCase) ListModules(ctx context.Context, courseID string) ([]*entity.Module, error) {
	if _, err := uc.findCourse(ctx, courseID); err != nil {
		return nil, err
	}

	modules, err := uc.courses.FindModulesByCourse(ctx, courseID)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("list modules", err)
	}
	if modules == nil {
		modules = []*entity.Module{}
	}
	return modules, nil
}

func (uc *CourseUseCase) ListProgress(ctx context.Context, principal *entity.User) ([]*entity.Progress, error) {
	if principal == nil {
		return nil, domainerr.ErrPrincipalNotFound
	}

	progress, err := uc.progress.FindByUser(ctx, principal.ID)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("list progress", err)
	}
	if progress == nil {
		progress = []*entity.Progress{}
	}
	return progress, nil
}

// CompleteModule is idempotent: completing twice keeps the first completion date.
func (uc *CourseUseCase) CompleteModule(ctx context.Context, principal *entity.User, moduleID string) (*entity.Progress, error) {
	if principal == nil {
		return nil, domainerr.ErrPrincipalNotFound
	}
	moduleID = strings.TrimSpace(moduleID)
	if moduleID == "" {
		return nil, domainerr.ErrMissingField("module_id")
	}

	exists, err := uc.courses.ModuleExists(ctx, moduleID)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("find module", err)
	}
	if !exists {
		return nil, domainerr.NotFound("Module", moduleID)
	}

	now := uc.clock.Now()
	progress, err := uc.progress.FindByUserAndModule(ctx, principal.ID, moduleID)
	switch {
	case err == nil:
		if progress.Completed {
			return progress, nil
		}
	case errors.Is(err, outbound.ErrProgressNotFound):
		progress = &entity.Progress{
			ID:        uuid.NewString(),
			UserID:    principal.ID,
			ModuleID:  moduleID,
			CreatedAt: now,
		}
	default:
		return nil, domainerr.ErrDatabaseError("find progress", err)
	}

	progress.MarkCompleted(now)
	if err := uc.progress.Upsert(ctx, progress); err != nil {
		return nil, domainerr.ErrDatabaseError("save progress", err)
	}
	return progress, nil
}

func (uc *CourseUseCase) ProgressSummary(ctx context.Context, principal *entity.User) (*inbound.ProgressSummaryResponse, error) {
	if principal == nil {
		return nil, domainerr.ErrPrincipalNotFound
	}

	total, err := uc.courses.CountModules(ctx)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("count modules", err)
	}
	completed, err := uc.progress.CountCompleted(ctx, principal.ID)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("count progress", err)
	}

	summary := &inbound.ProgressSummaryResponse{
		UserID:           principal.ID,
		TotalModules:     total,
		CompletedModules: completed,
	}
	if total > 0 {
		summary.CompletionPercentage = float64(completed) / float64(total) * 100
	}
	return summary, nil
}

func (uc *CourseUseCase) findCourse(ctx context.Context, id string) (*entity.Course, error) {
	course, err := uc.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrCourseNotFound) {
			return nil, domainerr.NotFound("Course", id)
		}
		return nil, domainerr.ErrDatabaseError("find course", err)
	}
	return course, nil
}
