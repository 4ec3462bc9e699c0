package triggers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phongtro-app/notify-service/internal/errors"
	"github.com/phongtro-app/notify-service/internal/logger"
)

// Handler receives Firestore change events over HTTP and feeds them to the
// router. The trigger transport redelivers on non-2xx, so once an event
// parses it is always acknowledged; composer failures only log.
type Handler struct {
	router *Router
	logger *logger.Logger
}

func NewHandler(router *Router, logger *logger.Logger) *Handler {
	return &Handler{
		router: router,
		logger: logger,
	}
}

// HandleChangeEvent handles POST /triggers/firestore.
func (h *Handler) HandleChangeEvent(c *gin.Context) {
	var ev ChangeEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		errors.AbortWithBadRequest(c, "invalid change event", map[string]interface{}{
			"reason": err.Error(),
		})
		return
	}

	if ev.Document == "" || ev.Kind == "" {
		errors.AbortWithBadRequest(c, "Missing required fields: document, type", nil)
		return
	}

	h.router.Dispatch(c.Request.Context(), ev)

	c.JSON(http.StatusOK, gin.H{"status": true})
}
