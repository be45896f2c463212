package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codemastery/codemastery-api/application/port/inbound"
	"github.com/codemastery/codemastery-api/infrastructure/http/middleware"
	"github.com/codemastery/codemastery-api/infrastructure/http/response"
	"github.com/codemastery/codemastery-api/infrastructure/http/validator"
)

// CourseHandler serves the catalogue and the caller's progress. Every route
// sits behind the access-token guard.
type CourseHandler struct {
	courseUseCase inbound.CourseUseCase
}

func NewCourseHandler(courseUseCase inbound.CourseUseCase) *CourseHandler {
	return &CourseHandler{
		courseUseCase: courseUseCase,
	}
}

func (h *CourseHandler) RegisterRoutes(router *mux.Router, guard *middleware.AuthGuard) {
	protect := func(fn http.HandlerFunc) http.Handler {
		return guard.RequireAccess(fn)
	}

	router.Handle("/courses", protect(h.ListCourses)).Methods(http.MethodGet)
	router.Handle("/courses/{id}", protect(h.GetCourse)).Methods(http.MethodGet)
	router.Handle("/courses/{id}/modules", protect(h.ListModules)).Methods(http.MethodGet)
	router.Handle("/progress", protect(h.ListProgress)).Methods(http.MethodGet)
	router.Handle("/progress/summary", protect(h.ProgressSummary)).Methods(http.MethodGet)
	router.Handle("/progress/modules/{id}/complete", protect(h.CompleteModule)).Methods(http.MethodPost)
}

func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := validator.Pagination(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	courses, err := h.courseUseCase.ListCourses(r.Context(), inbound.ListCoursesRequest{Skip: skip, Limit: limit})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseUseCase.GetCourse(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, course)
}

func (h *CourseHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.courseUseCase.ListModules(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, modules)
}

func (h *CourseHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.courseUseCase.ListProgress(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, progress)
}

func (h *CourseHandler) ProgressSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.courseUseCase.ProgressSummary(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

func (h *CourseHandler) CompleteModule(w http.ResponseWriter, r *http.Request) {
	progress, err := h.courseUseCase.CompleteModule(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, progress)
}
