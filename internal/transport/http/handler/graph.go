package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"graphdesk/internal/app"
	"graphdesk/internal/transport/http/response"
)

type GraphHandler struct {
	graphService *app.GraphService
}

func NewGraphHandler(graphService *app.GraphService) *GraphHandler {
	return &GraphHandler{graphService: graphService}
}

func (h *GraphHandler) Snapshot(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	snapshot, err := h.graphService.Snapshot(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load graph failed")
		return
	}
	response.OK(c, snapshot)
}

func (h *GraphHandler) Stats(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	stats, err := h.graphService.Stats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load graph stats failed")
		return
	}
	response.OK(c, stats)
}
