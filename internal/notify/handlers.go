package notify

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phongtro-app/notify-service/internal/errors"
	"github.com/phongtro-app/notify-service/internal/logger"
)

// Handler exposes the manual notification entry point, used for operational
// verification. It bypasses recipient resolution: the caller names the
// recipient and content explicitly.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, logger *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type testNotificationRequest struct {
	UserID string            `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Type   string            `json:"type"`
	Data   map[string]string `json:"data"`
}

// SendTestNotification handles POST /api/v1/notifications/test. Two identical
// requests produce two independent records; deduplication is deliberately not
// provided here.
func (h *Handler) SendTestNotification(c *gin.Context) {
	var req testNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "invalid request body", map[string]interface{}{
			"reason": err.Error(),
		})
		return
	}

	if req.UserID == "" || req.Title == "" || req.Body == "" {
		errors.AbortWithBadRequest(c, "Missing required fields: userId, title, body", nil)
		return
	}

	typ := TypeTest
	if req.Type != "" {
		typ = Type(req.Type)
	}

	data := req.Data
	if data == nil {
		data = map[string]string{"type": string(typ)}
	}

	err := h.service.Notify(c.Request.Context(), req.UserID, Notification{
		Type:  typ,
		Title: req.Title,
		Body:  req.Body,
		Data:  data,
	})
	if err != nil {
		h.logger.LogError(c.Request.Context(), err, "test notification failed")
		errors.AbortWithInternal(c, "Failed to send notification", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification sent"})
}
