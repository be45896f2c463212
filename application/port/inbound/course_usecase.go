package inbound

import (
	"context"

	"github.com/codemastery/codemastery-api/domain/entity"
)

type ListCoursesRequest struct {
	Skip  int
	Limit int
}

type CourseDetailResponse struct {
	*entity.Course
	Modules []*entity.Module `json:"modules"`
}

type ProgressSummaryResponse struct {
	UserID               string  `json:"user_id"`
	TotalModules         int     `json:"total_modules"`
	CompletedModules     int     `json:"completed_modules"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type CourseUseCase interface {
	ListCourses(ctx context.Context, req ListCoursesRequest) ([]*entity.Course, error)
	GetCourse(ctx context.Context, id string) (*CourseDetailResponse, error)
	ListModules(ctx context.Context, courseID string) ([]*entity.Module, error)
	ListProgress(ctx context.Context, principal *entity.User) ([]*entity.Progress, error)
	CompleteModule(ctx context.Context, principal *entity.User, moduleID string) (*entity.Progress, error)
	ProgressSummary(ctx context.Context, principal *entity.User) (*ProgressSummaryResponse, error)
}
