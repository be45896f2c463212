package inbound

import (
	"context"

	"github.com/codemastery/codemastery-api/domain/entity"
)

const (
	DefaultAttemptsLimit = 50
	MaxAttemptsLimit     = 200
)

type SubmitCodeRequest struct {
	CodeSubmitted string `json:"code_submitted"`
}

// SubmissionResponse reveals the expected code only after a wrong answer.
type SubmissionResponse struct {
	IsCorrect     bool    `json:"is_correct"`
	Message       string  `json:"message"`
	AttemptID     string  `json:"attempt_id"`
	SubmittedCode string  `json:"submitted_code"`
	ExpectedCode  *string `json:"expected_code"`
}

type LessonUseCase interface {
	GetModule(ctx context.Context, id string) (*entity.Module, error)
	ListLessons(ctx context.Context, moduleID string) ([]*entity.Lesson, error)
	GetLesson(ctx context.Context, id string) (*entity.Lesson, error)
	SubmitCode(ctx context.Context, principal *entity.User, lessonID string, req SubmitCodeRequest) (*SubmissionResponse, error)
	LatestAttempt(ctx context.Context, principal *entity.User, lessonID string) (*entity.ExerciseAttempt, error)
	ListAttempts(ctx context.Context, principal *entity.User, limit int) ([]*entity.ExerciseAttempt, error)
	DeleteAttempt(ctx context.Context, principal *entity.User, attemptID string) error
}
