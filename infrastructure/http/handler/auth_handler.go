package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codemastery/codemastery-api/application/port/inbound"
	"github.com/codemastery/codemastery-api/infrastructure/http/middleware"
	"github.com/codemastery/codemastery-api/infrastructure/http/response"
	"github.com/codemastery/codemastery-api/infrastructure/http/validator"
)

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
}

func NewAuthHandler(authUseCase inbound.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// RegisterRoutes mounts the /auth routes. Login and register are public;
// refresh requires a refresh token and me requires an access token.
func (h *AuthHandler) RegisterRoutes(router *mux.Router, guard *middleware.AuthGuard, limiter *middleware.RateLimitMiddleware) {
	router.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	router.Handle("/auth/refresh", limiter.Limit(middleware.RefreshRateLimit)(guard.RequireRefresh(http.HandlerFunc(h.Refresh)))).Methods(http.MethodPost)
	router.Handle("/auth/me", guard.RequireAccess(http.HandlerFunc(h.Me))).Methods(http.MethodGet)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	me, err := h.authUseCase.Register(r.Context(), inbound.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, me)
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	pair, err := h.authUseCase.Login(r.Context(), inbound.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: middleware.ClientIP(r),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, pair)
}

// Refresh runs behind RequireRefresh, so the principal is already resolved.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		response.Unauthorized(w, response.MsgCouldNotValidate)
		return
	}

	pair, err := h.authUseCase.Refresh(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		response.Unauthorized(w, response.MsgCouldNotValidate)
		return
	}

	me, err := h.authUseCase.Me(r.Context(), principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, me)
}
