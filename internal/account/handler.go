package account

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cameo-backend/internal/shared/server/middleware"
	"cameo-backend/internal/shared/server/respond"
	"cameo-backend/internal/shared/telemetry"
)

const guestPrefix = "guest:"

// Handler serves the guest claim route.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/account/claim-guest", h.claimGuest)
}

type claimRequest struct {
	GuestID string `json:"guestId"`
}

// guestIDFrom reads the guest id from the JSON body, falling back to the
// X-Guest-Id header. The body is optional.
func guestIDFrom(c *gin.Context) (string, string, error) {
	var body claimRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		return "", "body", err
	}
	if id := strings.TrimSpace(body.GuestID); id != "" {
		return id, "guestId", nil
	}
	return strings.TrimSpace(c.GetHeader("X-Guest-Id")), "X-Guest-Id", nil
}

func (h *Handler) claimGuest(c *gin.Context) {
	if h.Svc == nil {
		respond.Internal(c)
		return
	}
	userID := strings.TrimSpace(middleware.UserIDFromContext(c))
	if middleware.IsGuest(c) || userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	guestID, field, err := guestIDFrom(c)
	switch {
	case err != nil:
		respond.BadRequest(c, "invalid request body", nil)
		return
	case guestID == "":
		respond.BadRequest(c, "guest id required", []map[string]string{{"field": field, "issue": "required"}})
		return
	}
	if _, err := uuid.Parse(guestID); err != nil {
		respond.BadRequest(c, "invalid guest id", []map[string]string{{"field": field, "issue": "invalid"}})
		return
	}

	result, err := h.Svc.ClaimGuest(c.Request.Context(), guestPrefix+guestID, userID)
	if err != nil {
		telemetry.Error("account.claim_guest_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to claim guest data", nil)
		return
	}
	telemetry.Info("account.guest_claimed", map[string]any{
		"request_id":  middleware.RequestIDFromContext(c),
		"user_id":     userID,
		"generations": result.MigratedGenerations,
		"campaigns":   result.MigratedCampaigns,
	})
	respond.OK(c, result)
}
