package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"graphdesk/internal/app"
)

// ProcessHandler exposes the raw processing entry point. Unlike the rest of
// the API it answers with a bare JSON object, not the response envelope,
// because external callers poll document status instead of reading an
// envelope code.
type ProcessHandler struct {
	pipeline *app.PipelineService
}

type ProcessRequest struct {
	DocumentID uint `json:"document_id" binding:"required"`
}

func NewProcessHandler(pipeline *app.PipelineService) *ProcessHandler {
	return &ProcessHandler{pipeline: pipeline}
}

func (h *ProcessHandler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document_id is required"})
		return
	}

	if err := h.pipeline.Process(c.Request.Context(), req.DocumentID); err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Document processed successfully",
	})
}
