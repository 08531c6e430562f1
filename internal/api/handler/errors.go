package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/jobnest/internal/logger"
)

// serverError logs err and answers with msg plus the request ID, so a
// client report can be matched to the log line.
func serverError(c *gin.Context, status int, msg string, err error) {
	ctx := c.Request.Context()
	logger.CtxError(ctx, "%s: %v", msg, err)
	c.JSON(status, gin.H{
		"error":      msg,
		"request_id": logger.GetRequestID(ctx),
	})
}
