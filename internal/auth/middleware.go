package auth

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/phongtro-app/notify-service/internal/errors"
	"github.com/phongtro-app/notify-service/internal/logger"
)

// Define a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for the Firebase UID of the caller.
	UserIDKey contextKey = "user_id"
	// ClaimsKey is the context key for the caller's custom claims.
	ClaimsKey contextKey = "claims"
	// AdminClaim is the custom claim carrying the admin capability.
	AdminClaim = "admin"
)

// TokenVerifier validates a Firebase ID token and returns the decoded token.
// Satisfied by *auth.Client from the Firebase Admin SDK.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

type FirebaseAuthMiddleware struct {
	verifier TokenVerifier
}

func NewFirebaseAuthMiddleware(verifier TokenVerifier) *FirebaseAuthMiddleware {
	return &FirebaseAuthMiddleware{
		verifier: verifier,
	}
}

// RequireAuth validates the Bearer token and attaches the caller's UID and
// claims to the request context.
func (f *FirebaseAuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token is empty"})
			c.Abort()
			return
		}

		decoded, err := f.verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Attach caller identity to both Gin context and request context.
		ctx := logger.WithUserID(c.Request.Context(), decoded.UID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(UserIDKey), decoded.UID)
		c.Set(string(ClaimsKey), decoded.Claims)

		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin claim.
// Must run after RequireAuth.
func (f *FirebaseAuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			errors.AbortWithForbidden(c, errors.NewForbiddenError(
				errors.ReasonClaimMissing, "no claims attached to request", nil))
			return
		}

		if isAdmin, _ := claims[AdminClaim].(bool); !isAdmin {
			errors.AbortWithForbidden(c, errors.AdminRequired())
			return
		}

		c.Next()
	}
}

// GetUserID extracts the Firebase UID of the caller from the Gin context.
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(string(UserIDKey))
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	return id, ok
}

// GetClaims extracts the caller's custom claims from the Gin context.
func GetClaims(c *gin.Context) (map[string]interface{}, bool) {
	claims, exists := c.Get(string(ClaimsKey))
	if !exists {
		return nil, false
	}

	m, ok := claims.(map[string]interface{})
	return m, ok
}
