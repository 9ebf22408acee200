package performance

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/shared/server/middleware"
	"cameo-backend/internal/shared/server/paging"
	"cameo-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches performance routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/performance", h.record)
	rg.GET("/performance", h.list)
	rg.GET("/performance/summary", h.summary)
}

func (h *Handler) record(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	m, err := h.Svc.Record(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Internal(c)
		return
	}
	respond.Created(c, gin.H{"metric": m, "engagementRate": m.EngagementRate()})
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := paging.FromQuery(c)
	metrics, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), filterFromQuery(c), limit, offset)
	if err != nil {
		respond.Internal(c)
		return
	}
	respond.OK(c, gin.H{"items": metrics, "limit": limit, "offset": offset})
}

func (h *Handler) summary(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Request.Context(), middleware.UserIDFromContext(c), filterFromQuery(c))
	if err != nil {
		respond.Internal(c)
		return
	}
	respond.OK(c, summary)
}

func filterFromQuery(c *gin.Context) Filter {
	return Filter{
		CampaignID:   c.Query("campaignId"),
		GenerationID: c.Query("generationId"),
	}
}
