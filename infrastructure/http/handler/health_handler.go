package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/infrastructure/http/response"
)

const Version = "1.0.0"

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	clock outbound.Clock
}

func NewHealthHandler(db Pinger, clock outbound.Clock) *HealthHandler {
	return &HealthHandler{db: db, clock: clock}
}

type healthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// Health answers 200 while the database is reachable and 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := healthResponse{
		Status:    "healthy",
		Version:   Version,
		Database:  "connected",
		Timestamp: h.clock.Now(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			res.Status = "unhealthy"
			res.Database = "unreachable"
			response.JSON(w, http.StatusServiceUnavailable, res)
			return
		}
	}

	response.JSON(w, http.StatusOK, res)
}
