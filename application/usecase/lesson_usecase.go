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
	"github.com/codemastery/codemastery-api/infrastructure/service/logger"
)

const (
	msgCorrectCode   = "¡Código correcto!"
	msgIncorrectCode = "Código incorrecto, revisa e intenta de nuevo."
)

// LessonUseCase serves lessons and grades practice submissions. Attempts are
// always scoped to the authenticated principal.
type LessonUseCase struct {
	courses  outbound.CourseRepository
	lessons  outbound.LessonRepository
	attempts outbound.AttemptRepository
	clock    outbound.Clock
	logger   logger.Logger
}

var _ inbound.LessonUseCase = (*LessonUseCase)(nil)

func NewLessonUseCase(
	courses outbound.CourseRepository,
	lessons outbound.LessonRepository,
	attempts outbound.AttemptRepository,
	clock outbound.Clock,
	logger logger.Logger,
) *LessonUseCase {
	return &LessonUseCase{
		courses:  courses,
		lessons:  lessons,
		attempts: attempts,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *LessonUseCase) GetModule(ctx context.Context, id string) (*entity.Module, error) {
	module, err := uc.courses.FindModuleByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrModuleNotFound) {
			return nil, domainerr.NotFound("Module", id)
		}
		return nil, domainerr.ErrDatabaseError("find module", err)
	}
	return module, nil
}

func (uc *LessonUseCase) ListLessons(ctx context.Context, moduleID string) ([]*entity.Lesson, error) {
	if _, err := uc.GetModule(ctx, moduleID); err != nil {
		return nil, err
	}

	lessons, err := uc.lessons.FindByModule(ctx, moduleID)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("list lessons", err)
	}
	if lessons == nil {
		lessons = []*entity.Lesson{}
	}
	return lessons, nil
}

func (uc *LessonUseCase) GetLesson(ctx context.Context, id string) (*entity.Lesson, error) {
	lesson, err := uc.lessons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrLessonNotFound) {
			return nil, domainerr.NotFound("Lesson", id)
		}
		return nil, domainerr.ErrDatabaseError("find lesson", err)
	}
	return lesson, nil
}

// SubmitCode grades the submission and records it as an attempt, right or wrong.
func (uc *LessonUseCase) SubmitCode(ctx context.Context, principal *entity.User, lessonID string, req inbound.SubmitCodeRequest) (*inbound.SubmissionResponse, error) {
	if principal == nil {
		return nil, domainerr.ErrPrincipalNotFound
	}
	if strings.TrimSpace(req.CodeSubmitted) == "" {
		return nil, domainerr.ErrMissingField("code_submitted")
	}

	lesson, err := uc.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	attempt := &entity.ExerciseAttempt{
		ID:            uuid.NewString(),
		UserID:        principal.ID,
		LessonID:      lesson.ID,
		CodeSubmitted: req.CodeSubmitted,
		IsCorrect:     lesson.Accepts(req.CodeSubmitted),
		AttemptDate:   uc.clock.Now(),
	}
	if err := uc.attempts.Create(ctx, attempt); err != nil {
		return nil, domainerr.ErrDatabaseError("save attempt", err)
	}

	uc.logger.Info(ctx, "Exercise attempt recorded", map[string]interface{}{
		"user_id":    principal.ID,
		"lesson_id":  lesson.ID,
		"attempt_id": attempt.ID,
		"correct":    attempt.IsCorrect,
	})

	resp := &inbound.SubmissionResponse{
		IsCorrect:     attempt.IsCorrect,
		Message:       msgCorrectCode,
		AttemptID:     attempt.ID,
		SubmittedCode: strings.TrimSpace(req.CodeSubmitted),
	}
	if !attempt.IsCorrect {
		expected := strings.TrimSpace(lesson.PracticeSolution)
		resp.Message = msgIncorrectCode
		resp.ExpectedCode = &expected
	}
	return resp, nil
}

func (uc *LessonUseCase) LatestAttempt(ctx context.Context, principal *entity.User, lessonID string) (*entity.ExerciseAttempt, error) {
	if principal == nil {
		return nil, domainerr.ErrPrincipalNotFound
	}

	attempt, err := uc.attempts.FindLatest(ctx, principal.ID, lessonID)
	if err != nil {
		if errors.Is(err, outbound.ErrAttemptNotFound) {
			return nil, domainerr.NotFound("Attempt", lessonID)
		}
		return nil, domainerr.ErrDatabaseError("find attempt", err)
	}
	return attempt, nil
}

// ListAttempts returns the principal's attempts newest first. A limit outside
// 1..MaxAttemptsLimit falls back to the default.
func (uc *LessonUseCase) ListAttempts(ctx context.Context, principal *entity.User, limit int) ([]*entity.ExerciseAttempt, error) {
	if principal == nil {
		return nil, domainerr.ErrPrincipalNotFound
	}
	if limit <= 0 || limit > inbound.MaxAttemptsLimit {
		limit = inbound.DefaultAttemptsLimit
	}

	attempts, err := uc.attempts.FindByUser(ctx, principal.ID, limit)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("list attempts", err)
	}
	if attempts == nil {
		attempts = []*entity.ExerciseAttempt{}
	}
	return attempts, nil
}

func (uc *LessonUseCase) DeleteAttempt(ctx context.Context, principal *entity.User, attemptID string) error {
	if principal == nil {
		return domainerr.ErrPrincipalNotFound
	}

	attempt, err := uc.attempts.FindByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, outbound.ErrAttemptNotFound) {
			return domainerr.NotFound("Attempt", attemptID)
		}
		return domainerr.ErrDatabaseError("find attempt", err)
	}
	if attempt.UserID != principal.ID {
		logger.LogSecurityEvent(ctx, uc.logger, "attempt_delete_denied", "LOW", map[string]interface{}{
			"user_id":    principal.ID,
			"attempt_id": attemptID,
		})
		return domainerr.Forbidden("Not authorized to delete this attempt")
	}

	if err := uc.attempts.Delete(ctx, attemptID); err != nil {
		if errors.Is(err, outbound.ErrAttemptNotFound) {
			return domainerr.NotFound("Attempt", attemptID)
		}
		return domainerr.ErrDatabaseError("delete attempt", err)
	}
	return nil
}
