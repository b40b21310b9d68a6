package api

import (
	"net/http"

	"github.com/casebridge/casebridge/internal/logging"
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
)

// audit appends an audit record. The append is fire-and-forget: a failure
// must never fail the primary action, but it is surfaced to the operator.
func (h *Handler) audit(entry models.LogEntry) {
	if h.Logs == nil {
		return
	}
	ctx, cancel := requestContext()
	defer cancel()
	if _, err := h.Logs.AppendLog(ctx, entry); err != nil {
		logging.LogKV("error", "audit append failed", map[string]interface{}{
			"title": entry.Title,
			"error": err.Error(),
		})
	}
}

// GetLogs handles GET /logs — logs scoped to the authenticated principal
func (h *Handler) GetLogs(c *gin.Context) {
	principal, _ := principalFromContext(c)

	ctx, cancel := requestContext()
	defer cancel()

	logs, err := h.Logs.GetLogsForPrincipal(ctx, principal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve logs",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.JSON(http.StatusOK, logs)
}
