package notifications

import (
	"context"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	"github.com/goliatone/go-realtime-notifications/pkg/realtime"
)

// DeliveryLog records every realtime outcome whose payload is a notification.
// Other payloads are ignored.
func DeliveryLog(repo store.DeliveryRepository, lgr logger.Logger) realtime.Observer {
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	return realtime.ObserverFunc(func(ctx context.Context, outcome realtime.Outcome, payload any) {
		if repo == nil {
			return
		}
		var n domain.Notification
		switch v := payload.(type) {
		case domain.Notification:
			n = v
		case *domain.Notification:
			if v == nil {
				return
			}
			n = *v
		default:
			return
		}
		record := &domain.DeliveryRecord{
			NotificationID: n.ID,
			UserID:         outcome.UserID,
			ConnectionID:   outcome.ConnectionID,
			Event:          outcome.Event,
			Status:         outcome.Status,
		}
		if outcome.Err != nil {
			record.Error = outcome.Err.Error()
		}
		if err := repo.Create(context.WithoutCancel(ctx), record); err != nil {
			lgr.Warn("delivery log write failed",
				logger.Int64("notification_id", n.ID),
				logger.Err(err),
			)
		}
	})
}
