package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/codemastery/codemastery-api/application/port/inbound"
	"github.com/codemastery/codemastery-api/domain/entity"
	"github.com/codemastery/codemastery-api/domain/valueobject"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, req inbound.RegisterRequest) (*inbound.MeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.MeResponse), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*valueobject.TokenPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*valueobject.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) Refresh(ctx context.Context, principal *entity.User) (*valueobject.TokenPair, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*valueobject.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) Me(ctx context.Context, principal *entity.User) (*inbound.MeResponse, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.MeResponse), args.Error(1)
}

type MockCourseUseCase struct {
	mock.Mock
}

func (m *MockCourseUseCase) ListCourses(ctx context.Context, req inbound.ListCoursesRequest) ([]*entity.Course, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Course), args.Error(1)
}

func (m *MockCourseUseCase) GetCourse(ctx context.Context, id string) (*inbound.CourseDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.CourseDetailResponse), args.Error(1)
}

func (m *MockCourseUseCase) ListModules(ctx context.Context, courseID string) ([]*entity.Module, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Module), args.Error(1)
}

func (m *MockCourseUseCase) ListProgress(ctx context.Context, principal *entity.User) ([]*entity.Progress, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Progress), args.Error(1)
}

func (m *MockCourseUseCase) CompleteModule(ctx context.Context, principal *entity.User, moduleID string) (*entity.Progress, error) {
	args := m.Called(ctx, principal, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Progress), args.Error(1)
}

func (m *MockCourseUseCase) ProgressSummary(ctx context.Context, principal *entity.User) (*inbound.ProgressSummaryResponse, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ProgressSummaryResponse), args.Error(1)
}

type MockPrincipalStore struct {
	mock.Mock
}

func (m *MockPrincipalStore) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockLessonUseCase struct {
	mock.Mock
}

func (m *MockLessonUseCase) GetModule(ctx context.Context, id string) (*entity.Module, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Module), args.Error(1)
}

func (m *MockLessonUseCase) ListLessons(ctx context.Context, moduleID string) ([]*entity.Lesson, error) {
	args := m.Called(ctx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lesson), args.Error(1)
}

func (m *MockLessonUseCase) GetLesson(ctx context.Context, id string) (*entity.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lesson), args.Error(1)
}

func (m *MockLessonUseCase) SubmitCode(ctx context.Context, principal *entity.User, lessonID string, req inbound.SubmitCodeRequest) (*inbound.SubmissionResponse, error) {
	args := m.Called(ctx, principal, lessonID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.SubmissionResponse), args.Error(1)
}

func (m *MockLessonUseCase) LatestAttempt(ctx context.Context, principal *entity.User, lessonID string) (*entity.ExerciseAttempt, error) {
	args := m.Called(ctx, principal, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExerciseAttempt), args.Error(1)
}

func (m *MockLessonUseCase) ListAttempts(ctx context.Context, principal *entity.User, limit int) ([]*entity.ExerciseAttempt, error) {
	args := m.Called(ctx, principal, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ExerciseAttempt), args.Error(1)
}

func (m *MockLessonUseCase) DeleteAttempt(ctx context.Context, principal *entity.User, attemptID string) error {
	return m.Called(ctx, principal, attemptID).Error(0)
}
