package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/service"
)

// StartNotificationWorker subscribes resolution mail delivery to ticket status changes.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) {
	if dispatcher == nil || notifications == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketStatusChanged, notifications.HandleStatusChanged)
	if logger != nil {
		logger.Debug("notification worker subscribed", zap.String("event_type", string(events.EventTicketStatusChanged)))
	}
}
