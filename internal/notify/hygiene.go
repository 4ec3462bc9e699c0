package notify

import (
	"context"
	"log/slog"

	"github.com/phongtro-app/notify-service/internal/logger"
	"github.com/phongtro-app/notify-service/internal/metrics"
)

// Hygiene removes endpoints the transport reported as permanently invalid.
// Pruning is best-effort: its failures are logged and swallowed so it can
// never fail the notification pipeline.
type Hygiene struct {
	directory Directory
	logger    *logger.Logger
}

func NewHygiene(directory Directory, logger *logger.Logger) *Hygiene {
	return &Hygiene{
		directory: directory,
		logger:    logger,
	}
}

// PruneInvalid deletes every endpoint in the result that failed with a
// permanent-invalid classification. Runs after dispatch, outside the critical
// path.
func (h *Hygiene) PruneInvalid(ctx context.Context, userID string, result DispatchResult) {
	log := h.logger.WithContext(ctx).WithComponent("token-hygiene")

	for _, entry := range result.PerEndpoint {
		if entry.Success || entry.Kind != ErrorKindPermanentInvalid {
			continue
		}

		if err := h.directory.RemoveEndpoint(ctx, userID, entry.Token); err != nil {
			log.Warn("failed to remove invalid token",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			continue
		}

		metrics.TokensPruned.Inc()
		log.Info("removed invalid token",
			slog.String("user_id", userID))
	}
}
