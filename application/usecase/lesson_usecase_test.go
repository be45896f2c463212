package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codemastery/codemastery-api/application/port/inbound"
	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/domain/entity"
	domainerr "github.com/codemastery/codemastery-api/domain/error"
	"github.com/codemastery/codemastery-api/infrastructure/service/clock"
	"github.com/codemastery/codemastery-api/infrastructure/service/logger"
)

type lessonFixture struct {
	courses  *MockCourseRepository
	lessons  *MockLessonRepository
	attempts *MockAttemptRepository
	uc       *LessonUseCase
}

func newLessonFixture() *lessonFixture {
	f := &lessonFixture{
		courses:  new(MockCourseRepository),
		lessons:  new(MockLessonRepository),
		attempts: new(MockAttemptRepository),
	}
	f.uc = NewLessonUseCase(f.courses, f.lessons, f.attempts, clock.NewFixed(t0), logger.NewNopLogger())
	return f
}

var helloLesson = &entity.Lesson{
	ID:               "py-vars-1",
	ModuleID:         "python-variables",
	Title:            "Hola Mundo",
	PracticeSolution: "print('Hola Mundo')\n",
}

func TestLessonUseCase_ListLessons(t *testing.T) {
	ctx := context.Background()

	t.Run("module exists", func(t *testing.T) {
		f := newLessonFixture()
		f.courses.On("FindModuleByID", ctx, "python-variables").Return(&entity.Module{ID: "python-variables"}, nil)
		f.lessons.On("FindByModule", ctx, "python-variables").Return(nil, nil)

		got, err := f.uc.ListLessons(ctx, "python-variables")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unknown module", func(t *testing.T) {
		f := newLessonFixture()
		f.courses.On("FindModuleByID", ctx, "nope").Return(nil, outbound.ErrModuleNotFound)

		_, err := f.uc.ListLessons(ctx, "nope")
		assert.ErrorIs(t, err, domainerr.ErrNotFound)
		f.lessons.AssertNotCalled(t, "FindByModule", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newLessonFixture()
		f.courses.On("FindModuleByID", ctx, "m1").Return(nil, errors.New("db down"))

		_, err := f.uc.GetModule(ctx, "m1")
		assert.Equal(t, domainerr.ErrCodeDatabaseError, err.(*domainerr.AppError).Code)
	})
}

func TestLessonUseCase_GetLesson(t *testing.T) {
	ctx := context.Background()
	f := newLessonFixture()
	f.lessons.On("FindByID", ctx, "py-vars-1").Return(helloLesson, nil)
	f.lessons.On("FindByID", ctx, "missing").Return(nil, outbound.ErrLessonNotFound)

	got, err := f.uc.GetLesson(ctx, "py-vars-1")
	require.NoError(t, err)
	assert.Equal(t, "Hola Mundo", got.Title)

	_, err = f.uc.GetLesson(ctx, "missing")
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
}

func TestLessonUseCase_SubmitCode(t *testing.T) {
	ctx := context.Background()
	user := &entity.User{ID: "u1"}

	t.Run("correct answer", func(t *testing.T) {
		f := newLessonFixture()
		f.lessons.On("FindByID", ctx, "py-vars-1").Return(helloLesson, nil)
		f.attempts.On("Create", ctx, mock.MatchedBy(func(a *entity.ExerciseAttempt) bool {
			return a.UserID == "u1" && a.LessonID == "py-vars-1" && a.IsCorrect && a.AttemptDate.Equal(t0) &&
				a.CodeSubmitted == "  PRINT('hola   mundo')  "
		})).Return(nil)

		got, err := f.uc.SubmitCode(ctx, user, "py-vars-1", inbound.SubmitCodeRequest{CodeSubmitted: "  PRINT('hola   mundo')  "})
		require.NoError(t, err)
		assert.True(t, got.IsCorrect)
		assert.Equal(t, msgCorrectCode, got.Message)
		assert.Equal(t, "PRINT('hola   mundo')", got.SubmittedCode)
		assert.Nil(t, got.ExpectedCode)
		assert.NotEmpty(t, got.AttemptID)
		f.attempts.AssertExpectations(t)
	})

	t.Run("wrong answer is recorded and reveals the solution", func(t *testing.T) {
		f := newLessonFixture()
		f.lessons.On("FindByID", ctx, "py-vars-1").Return(helloLesson, nil)
		f.attempts.On("Create", ctx, mock.MatchedBy(func(a *entity.ExerciseAttempt) bool {
			return !a.IsCorrect
		})).Return(nil)

		got, err := f.uc.SubmitCode(ctx, user, "py-vars-1", inbound.SubmitCodeRequest{CodeSubmitted: "print('adios')"})
		require.NoError(t, err)
		assert.False(t, got.IsCorrect)
		assert.Equal(t, msgIncorrectCode, got.Message)
		require.NotNil(t, got.ExpectedCode)
		assert.Equal(t, "print('Hola Mundo')", *got.ExpectedCode)
	})

	t.Run("empty submission", func(t *testing.T) {
		f := newLessonFixture()
		_, err := f.uc.SubmitCode(ctx, user, "py-vars-1", inbound.SubmitCodeRequest{CodeSubmitted: " \n"})
		assert.Equal(t, domainerr.ErrCodeInvalidRequest, err.(*domainerr.AppError).Code)
		f.attempts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown lesson", func(t *testing.T) {
		f := newLessonFixture()
		f.lessons.On("FindByID", ctx, "missing").Return(nil, outbound.ErrLessonNotFound)

		_, err := f.uc.SubmitCode(ctx, user, "missing", inbound.SubmitCodeRequest{CodeSubmitted: "x"})
		assert.ErrorIs(t, err, domainerr.ErrNotFound)
	})

	t.Run("save failure", func(t *testing.T) {
		f := newLessonFixture()
		f.lessons.On("FindByID", ctx, "py-vars-1").Return(helloLesson, nil)
		f.attempts.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := f.uc.SubmitCode(ctx, user, "py-vars-1", inbound.SubmitCodeRequest{CodeSubmitted: "x"})
		assert.Equal(t, domainerr.ErrCodeDatabaseError, err.(*domainerr.AppError).Code)
	})

	t.Run("no principal", func(t *testing.T) {
		f := newLessonFixture()
		_, err := f.uc.SubmitCode(ctx, nil, "py-vars-1", inbound.SubmitCodeRequest{CodeSubmitted: "x"})
		assert.ErrorIs(t, err, domainerr.ErrPrincipalNotFound)
	})
}

func TestLessonUseCase_Attempts(t *testing.T) {
	ctx := context.Background()
	user := &entity.User{ID: "u1"}
	attempt := &entity.ExerciseAttempt{ID: "a1", UserID: "u1", LessonID: "py-vars-1", AttemptDate: t0}

	t.Run("latest", func(t *testing.T) {
		f := newLessonFixture()
		f.attempts.On("FindLatest", ctx, "u1", "py-vars-1").Return(attempt, nil)
		f.attempts.On("FindLatest", ctx, "u1", "other").Return(nil, outbound.ErrAttemptNotFound)

		got, err := f.uc.LatestAttempt(ctx, user, "py-vars-1")
		require.NoError(t, err)
		assert.Equal(t, "a1", got.ID)

		_, err = f.uc.LatestAttempt(ctx, user, "other")
		assert.ErrorIs(t, err, domainerr.ErrNotFound)
	})

	t.Run("list clamps the limit", func(t *testing.T) {
		f := newLessonFixture()
		f.attempts.On("FindByUser", ctx, "u1", inbound.DefaultAttemptsLimit).Return(nil, nil).Twice()
		f.attempts.On("FindByUser", ctx, "u1", 5).Return([]*entity.ExerciseAttempt{attempt}, nil).Once()

		got, err := f.uc.ListAttempts(ctx, user, 0)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		_, err = f.uc.ListAttempts(ctx, user, inbound.MaxAttemptsLimit+1)
		require.NoError(t, err)

		got, err = f.uc.ListAttempts(ctx, user, 5)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		f.attempts.AssertExpectations(t)
	})

	t.Run("delete own attempt", func(t *testing.T) {
		f := newLessonFixture()
		f.attempts.On("FindByID", ctx, "a1").Return(attempt, nil)
		f.attempts.On("Delete", ctx, "a1").Return(nil)

		require.NoError(t, f.uc.DeleteAttempt(ctx, user, "a1"))
		f.attempts.AssertExpectations(t)
	})

	t.Run("delete someone else's attempt", func(t *testing.T) {
		f := newLessonFixture()
		f.attempts.On("FindByID", ctx, "a1").Return(attempt, nil)

		err := f.uc.DeleteAttempt(ctx, &entity.User{ID: "u2"}, "a1")
		assert.ErrorIs(t, err, domainerr.ErrForbidden)
		f.attempts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("delete missing attempt", func(t *testing.T) {
		f := newLessonFixture()
		f.attempts.On("FindByID", ctx, "gone").Return(nil, outbound.ErrAttemptNotFound)

		assert.ErrorIs(t, f.uc.DeleteAttempt(ctx, user, "gone"), domainerr.ErrNotFound)
	})
}
