package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phongtro-app/notify-service/internal/errors"
	"github.com/phongtro-app/notify-service/internal/logger"
)

// Handler exposes the capability-grant endpoint. Routing must wrap it in the
// admin-only middleware; the handler itself assumes the caller is privileged.
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

type grantRoleRequest struct {
	UserID string `json:"userId"`
	Enable *bool  `json:"enable"`
}

// GrantRole handles POST /api/v1/admin/role.
func (h *Handler) GrantRole(c *gin.Context) {
	var req grantRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "invalid request body", map[string]interface{}{
			"reason": err.Error(),
		})
		return
	}

	if req.UserID == "" {
		errors.AbortWithBadRequest(c, "Missing required field: userId", nil)
		return
	}

	if req.Enable == nil {
		errors.AbortWithBadRequest(c, "Missing required field: enable", nil)
		return
	}

	if err := h.service.SetAdmin(c.Request.Context(), req.UserID, *req.Enable); err != nil {
		h.logger.LogError(c.Request.Context(), err, "failed to update admin capability")
		errors.AbortWithInternal(c, "Failed to update role", nil)
		return
	}

	role := RoleUser
	if *req.Enable {
		role = RoleAdmin
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  req.UserID,
		"role":    role,
	})
}
