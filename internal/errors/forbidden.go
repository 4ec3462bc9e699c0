package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ForbiddenReason represents machine-readable reason codes for 403 errors.
type ForbiddenReason string

const (
	// Access Control
	ReasonAdminRequired ForbiddenReason = "admin_required"
	ReasonClaimMissing  ForbiddenReason = "claim_missing"
)

// ForbiddenError represents a standardized 403 Forbidden response.
type ForbiddenError struct {
	Error   string                 `json:"error"`             // Technical error message (for logs)
	Reason  ForbiddenReason        `json:"reason"`            // Machine-readable reason code
	Details map[string]interface{} `json:"details,omitempty"` // Optional context data
}

// NewForbiddenError creates a new ForbiddenError with the given parameters.
func NewForbiddenError(reason ForbiddenReason, errorMsg string, details map[string]interface{}) *ForbiddenError {
	return &ForbiddenError{
		Error:   errorMsg,
		Reason:  reason,
		Details: details,
	}
}

// AbortWithForbidden sends a 403 response with the ForbiddenError and aborts the request.
func AbortWithForbidden(c *gin.Context, err *ForbiddenError) {
	c.AbortWithStatusJSON(http.StatusForbidden, err)
}

// AdminRequired creates a ForbiddenError for callers without the admin capability.
func AdminRequired() *ForbiddenError {
	return NewForbiddenError(
		ReasonAdminRequired,
		"caller does not have the admin capability",
		nil,
	)
}
