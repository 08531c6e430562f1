package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/repository"
	"gorm.io/gorm"
)

// JobCatalog is the read side of the catalog plus the status workflow.
type JobCatalog interface {
	List(ctx context.Context, q repository.JobQuery) ([]domain.JobPosting, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.JobStatus) (*domain.JobPosting, error)
	JobCounter
}

// JobHandler serves catalog browsing and status changes.
type JobHandler struct {
	jobs JobCatalog
}

func NewJobHandler(jobs JobCatalog) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// List handles GET /api/v1/jobs.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *JobHandler) List(c *gin.Context) {
	q := repository.JobQuery{
		SourceID: c.Query("source"),
		Search:   c.Query("q"),
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseJobStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidStatus.Error()})
			return
		}
		q.Status = status
	}
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	q.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if q.Offset < 0 {
		q.Offset = 0
	}

	jobs, total, err := h.jobs.List(c.Request.Context(), q)
	if err != nil {
		serverError(c, http.StatusInternalServerError, "failed to list jobs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": total})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/v1/jobs/:id/status.
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	status, ok := domain.ParseJobStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidStatus.Error()})
		return
	}

	job, err := h.jobs.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	case err != nil:
		serverError(c, http.StatusInternalServerError, "failed to update job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}
