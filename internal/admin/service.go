package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phongtro-app/notify-service/internal/logger"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ClaimsManager sets custom claims on an identity. Satisfied by *auth.Client
// from the Firebase Admin SDK.
type ClaimsManager interface {
	SetCustomUserClaims(ctx context.Context, uid string, claims map[string]interface{}) error
}

// ProfileStore mirrors the human-readable role into the user's profile
// document so the UI can render it without decoding tokens.
type ProfileStore interface {
	SetRole(ctx context.Context, userID, role string) error
}

// Service grants or revokes the admin capability on a target identity.
type Service struct {
	claims   ClaimsManager
	profiles ProfileStore
	logger   *logger.Logger
}

func NewService(claims ClaimsManager, profiles ProfileStore, logger *logger.Logger) *Service {
	return &Service{
		claims:   claims,
		profiles: profiles,
		logger:   logger,
	}
}

// SetAdmin sets the admin capability claim and mirrors the role string into
// the target's profile. The target must sign in again before their tokens
// carry the new claims.
func (s *Service) SetAdmin(ctx context.Context, targetUserID string, enable bool) error {
	log := s.logger.WithContext(ctx).WithComponent("admin")

	role := RoleUser
	if enable {
		role = RoleAdmin
	}

	claims := map[string]interface{}{
		"admin": enable,
		"role":  role,
	}

	if err := s.claims.SetCustomUserClaims(ctx, targetUserID, claims); err != nil {
		return fmt.Errorf("failed to set custom claims for user %s: %w", targetUserID, err)
	}

	if err := s.profiles.SetRole(ctx, targetUserID, role); err != nil {
		return fmt.Errorf("failed to mirror role to profile of user %s: %w", targetUserID, err)
	}

	log.Info("admin capability updated",
		slog.String("target_user_id", targetUserID),
		slog.String("role", role))

	return nil
}
