package inbound

import (
	"context"
	"time"

	"github.com/codemastery/codemastery-api/domain/entity"
	"github.com/codemastery/codemastery-api/domain/valueobject"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClientIP string `json:"-"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewMeResponse(user *entity.User) *MeResponse {
	return &MeResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type AuthUseCase interface {
	Register(ctx context.Context, req RegisterRequest) (*MeResponse, error)
	Login(ctx context.Context, req LoginRequest) (*valueobject.TokenPair, error)
	// Refresh takes the principal already resolved from a verified refresh token.
	Refresh(ctx context.Context, principal *entity.User) (*valueobject.TokenPair, error)
	Me(ctx context.Context, principal *entity.User) (*MeResponse, error)
}
