package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/codemastery/codemastery-api/application/port/inbound"
	"github.com/codemastery/codemastery-api/infrastructure/http/middleware"
	"github.com/codemastery/codemastery-api/infrastructure/http/response"
	"github.com/codemastery/codemastery-api/infrastructure/http/validator"
)

// LessonHandler serves module lessons and code submissions.
type LessonHandler struct {
	lessonUseCase inbound.LessonUseCase
}

func NewLessonHandler(lessonUseCase inbound.LessonUseCase) *LessonHandler {
	return &LessonHandler{
		lessonUseCase: lessonUseCase,
	}
}

func (h *LessonHandler) RegisterRoutes(router *mux.Router, guard *middleware.AuthGuard) {
	protect := func(fn http.HandlerFunc) http.Handler {
		return guard.RequireAccess(fn)
	}

	router.Handle("/modules/{id}", protect(h.GetModule)).Methods(http.MethodGet)
	router.Handle("/modules/{id}/lessons", protect(h.ListLessons)).Methods(http.MethodGet)

	// static segments first so "intentos" is never read as a lesson id
	router.Handle("/lessons/intentos", protect(h.ListAttempts)).Methods(http.MethodGet)
	router.Handle("/lessons/intentos/{id}", protect(h.DeleteAttempt)).Methods(http.MethodDelete)
	router.Handle("/lessons/{id}", protect(h.GetLesson)).Methods(http.MethodGet)
	router.Handle("/lessons/{id}/enviar", protect(h.SubmitCode)).Methods(http.MethodPost)
	router.Handle("/lessons/{id}/ultimo-intento", protect(h.LatestAttempt)).Methods(http.MethodGet)
}

func (h *LessonHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	module, err := h.lessonUseCase.GetModule(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, module)
}

func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.lessonUseCase.ListLessons(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, lessons)
}

func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessonUseCase.GetLesson(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, lesson)
}

// SubmitCode grades the caller's code against the lesson solution and records the attempt.
func (h *LessonHandler) SubmitCode(w http.ResponseWriter, r *http.Request) {
	var req inbound.SubmitCodeRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.lessonUseCase.SubmitCode(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *LessonHandler) LatestAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.lessonUseCase.LatestAttempt(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, attempt)
}

func (h *LessonHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	limit := inbound.DefaultAttemptsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "invalid limit parameter")
			return
		}
		limit = n
	}

	attempts, err := h.lessonUseCase.ListAttempts(r.Context(), middleware.GetPrincipal(r.Context()), limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, attempts)
}

func (h *LessonHandler) DeleteAttempt(w http.ResponseWriter, r *http.Request) {
	if err := h.lessonUseCase.DeleteAttempt(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Attempt deleted successfully", nil)
}
