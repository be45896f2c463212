package entity

import (
	"strings"
	"time"
)

// Lesson is one theory page plus a practice exercise inside a module.
// The reference solution is never serialized.
type Lesson struct {
	ID                   string    `json:"id"`
	ModuleID             string    `json:"module_id"`
	Title                string    `json:"title"`
	Theory               string    `json:"theory"`
	PracticeInstructions string    `json:"practice_instructions"`
	PracticeInitialCode  string    `json:"practice_initial_code"`
	PracticeSolution     string    `json:"-"`
	Position             int       `json:"position"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Accepts compares a submission with the solution, ignoring case and
// collapsing all runs of whitespace.
func (l *Lesson) Accepts(code string) bool {
	return NormalizeCode(code) == NormalizeCode(l.PracticeSolution)
}

func NormalizeCode(code string) string {
	return strings.ToLower(strings.Join(strings.Fields(code), " "))
}

type ExerciseAttempt struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	LessonID      string    `json:"lesson_id"`
	CodeSubmitted string    `json:"code_submitted"`
	IsCorrect     bool      `json:"is_correct"`
	AttemptDate   time.Time `json:"attempt_date"`
}
