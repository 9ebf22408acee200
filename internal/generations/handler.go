package generations

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/shared/server/middleware"
	"cameo-backend/internal/shared/server/paging"
	"cameo-backend/internal/shared/server/respond"
	"cameo-backend/internal/usage"
)

// Handler wires HTTP handlers to the generations service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generations", h.create)
	rg.GET("/generations", h.list)
	rg.GET("/generations/:id", h.get)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	g, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.GenerationIDKey, g.ID)
	respond.Accepted(c, g)
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := paging.FromQuery(c)
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) get(c *gin.Context) {
	c.Set(middleware.GenerationIDKey, c.Param("id"))
	g, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, g)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.NotFound(c, "generation not found")
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, usage.ErrLimitReached):
		respond.Error(c, http.StatusPaymentRequired, "limit_reached", "You've used all of your generation credits for this period.", []map[string]string{
			{"field": "usage", "issue": "limit_reached"},
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Internal(c)
	}
}
