package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/jobnest/internal/api/middleware"
	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/repository"
	"gorm.io/gorm"
)

// PreferenceStore reads and updates user preferences.
type PreferenceStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePreferences(ctx context.Context, id string, upd repository.PreferencesUpdate) (*domain.User, error)
}

// PreferencesHandler serves the current user's sync preferences.
type PreferencesHandler struct {
	users PreferenceStore
}

func NewPreferencesHandler(users PreferenceStore) *PreferencesHandler {
	return &PreferencesHandler{users: users}
}

type preferencesResponse struct {
	Keywords        []string `json:"keywords"`
	Location        string   `json:"location"`
	JobType         string   `json:"job_type"`
	AutoSyncEnabled bool     `json:"auto_sync_enabled"`
}

type preferencesRequest struct {
	Keywords        *[]string `json:"keywords"`
	Location        *string   `json:"location"`
	JobType         *string   `json:"job_type"`
	AutoSyncEnabled *bool     `json:"auto_sync_enabled"`
}

func toPreferencesResponse(u *domain.User) preferencesResponse {
	kws := []string(u.PreferredKeywords)
	if kws == nil {
		kws = []string{}
	}
	return preferencesResponse{
		Keywords:        kws,
		Location:        u.PreferredLocation,
		JobType:         u.PreferredJobType,
		AutoSyncEnabled: u.AutoSyncEnabled,
	}
}

// Get handles GET /api/v1/preferences.
func (h *PreferencesHandler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPreferencesResponse(user))
}

// Update handles PUT /api/v1/preferences. Omitted fields are left unchanged.
func (h *PreferencesHandler) Update(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.users.UpdatePreferences(c.Request.Context(), middleware.UserID(c), repository.PreferencesUpdate{
		Keywords:        req.Keywords,
		Location:        req.Location,
		JobType:         req.JobType,
		AutoSyncEnabled: req.AutoSyncEnabled,
	})
	if err != nil {
		writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPreferencesResponse(user))
}

func writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, domain.ErrInvalidJobType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		serverError(c, http.StatusInternalServerError, "failed to load preferences", err)
	}
}
