package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/deskops/helpdesk/internal/config"
	"github.com/deskops/helpdesk/internal/events"
)

// Notice is a transient message for whoever is driving the desk.
type Notice struct {
	Level   string
	Message string
}

// NotificationService turns domain events into user-facing notices.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	sink       func(Notice)
}

// NewNotificationService creates the service. Notices are logged; sink, when
// set, receives them as well.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, sink func(Notice)) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		sink:       sink,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventPersistenceFailed, n.handlePersistenceFailed)
	n.dispatcher.Subscribe(events.EventSignInRejected, n.handleSignInRejected)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.notify("success", "Ticket created successfully", event)
	n.logEmailNotice(event)
	n.logWebhookNotice(event)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	msg := "Ticket updated"
	if payload, ok := event.Payload.(events.TicketStatusChangedPayload); ok {
		msg = "Ticket status changed to " + string(payload.NewStatus)
	}
	n.notify("success", msg, event)
	n.logWebhookNotice(event)
	return nil
}

func (n *NotificationService) handlePersistenceFailed(_ context.Context, event events.Event) error {
	n.notify("error", "Changes could not be saved and will be lost on restart", event)
	return nil
}

func (n *NotificationService) handleSignInRejected(_ context.Context, event events.Event) error {
	n.notify("error", "Invalid email or password", event)
	return nil
}

func (n *NotificationService) notify(level, message string, event events.Event) {
	n.logger.Info("notice",
		zap.String("level", level),
		zap.String("message", message),
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID))
	if n.sink != nil {
		n.sink(Notice{Level: level, Message: message})
	}
}

// logEmailNotice and logWebhookNotice record where a notice would be delivered.
// Nothing is sent.
func (n *NotificationService) logEmailNotice(event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Info("email notice (log only)",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) logWebhookNotice(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Info("webhook notice (log only)",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
