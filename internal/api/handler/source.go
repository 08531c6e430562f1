package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/jobnest/internal/domain"
)

// SourceLister lists known providers.
type SourceLister interface {
	List(ctx context.Context) ([]domain.JobSource, error)
}

// JobCounter counts catalog entries per provider.
type JobCounter interface {
	CountBySource(ctx context.Context, sourceID string) (int64, error)
}

// SourceHandler exposes the provider registry.
type SourceHandler struct {
	sources SourceLister
	jobs    JobCounter
}

func NewSourceHandler(sources SourceLister, jobs JobCounter) *SourceHandler {
	return &SourceHandler{sources: sources, jobs: jobs}
}

type sourceView struct {
	domain.JobSource
	JobCount int64 `json:"job_count"`
}

// List handles GET /api/v1/sources. Each provider carries its catalog size.
func (h *SourceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	sources, err := h.sources.List(ctx)
	if err != nil {
		serverError(c, http.StatusInternalServerError, "failed to list sources", err)
		return
	}

	views := make([]sourceView, 0, len(sources))
	for _, src := range sources {
		count, err := h.jobs.CountBySource(ctx, src.ID)
		if err != nil {
			serverError(c, http.StatusInternalServerError, "failed to count jobs", err)
			return
		}
		views = append(views, sourceView{JobSource: src, JobCount: count})
	}
	c.JSON(http.StatusOK, gin.H{"sources": views})
}
