package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/shared/server/middleware"
	"cameo-backend/internal/shared/server/respond"
)

// Handler serves the signed-in creator's profile.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PATCH("/me/preferences", h.updatePreferences)
}

type profile struct {
	ID               string `json:"id"`
	Email            string `json:"email,omitempty"`
	FullName         string `json:"fullName,omitempty"`
	PictureURL       string `json:"pictureUrl,omitempty"`
	DisplayName      string `json:"displayName,omitempty"`
	DefaultPlatform  string `json:"defaultPlatform,omitempty"`
	DefaultCharacter string `json:"defaultCharacter,omitempty"`
	IsGuest          bool   `json:"isGuest"`
}

func profileOf(u User) profile {
	return profile{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		PictureURL:       u.PictureURL,
		DisplayName:      u.DisplayName(),
		DefaultPlatform:  string(u.DefaultPlatform),
		DefaultCharacter: u.DefaultCharacter,
	}
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	if middleware.IsGuest(c) {
		respond.OK(c, profile{ID: userID, IsGuest: true})
		return
	}
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	switch {
	case errors.Is(err, ErrNotFound):
		// Valid token without a stored row; answer from the claims.
		name := middleware.UserNameFromContext(c)
		respond.OK(c, profile{
			ID:          userID,
			Email:       middleware.UserEmailFromContext(c),
			FullName:    name,
			PictureURL:  middleware.UserPictureFromContext(c),
			DisplayName: name,
		})
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
	default:
		respond.OK(c, profileOf(user))
	}
}

func (h *Handler) updatePreferences(c *gin.Context) {
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusForbidden, "forbidden", "sign in to save preferences", nil)
		return
	}
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	var prefs Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	user, err := h.Svc.UpdatePreferences(c.Request.Context(), middleware.UserIDFromContext(c), prefs)
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save preferences", nil)
	default:
		respond.OK(c, profileOf(user))
	}
}
