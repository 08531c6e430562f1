package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/jobnest/internal/api/middleware"
	"github.com/timmy/jobnest/internal/domain"
)

// SyncRunner runs a sync inline.
type SyncRunner interface {
	RunSync(ctx context.Context, userID string) error
}

// SyncEnqueuer hands a sync to the background worker.
type SyncEnqueuer interface {
	Enqueue(ctx context.Context, userID string) error
}

// SyncLogLister lists a user's sync history.
type SyncLogLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.SyncLog, error)
}

// SyncHandler triggers syncs and exposes sync logs.
type SyncHandler struct {
	runner SyncRunner
	queue  SyncEnqueuer
	logs   SyncLogLister
}

// NewSyncHandler creates a SyncHandler. With a nil queue, syncs run inline.
func NewSyncHandler(runner SyncRunner, queue SyncEnqueuer, logs SyncLogLister) *SyncHandler {
	return &SyncHandler{runner: runner, queue: queue, logs: logs}
}

// Trigger handles POST /api/v1/sync.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SyncHandler) Trigger(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	if h.queue != nil {
		if err := h.queue.Enqueue(ctx, userID); err != nil {
			serverError(c, http.StatusServiceUnavailable, "sync queue unavailable", err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		return
	}

	if err := h.runner.RunSync(ctx, userID); err != nil {
		serverError(c, http.StatusInternalServerError, "sync failed", err)
		return
	}

	logs, err := h.logs.ListByUser(ctx, userID, 10)
	if err != nil {
		serverError(c, http.StatusInternalServerError, "failed to load sync logs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed", "logs": logs})
}

// ListLogs handles GET /api/v1/sync/logs.
func (h *SyncHandler) ListLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	logs, err := h.logs.ListByUser(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		serverError(c, http.StatusInternalServerError, "failed to load sync logs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
