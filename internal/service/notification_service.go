package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/idea-portal/internal/config"
	"github.com/spec-kit/idea-portal/internal/events"
)

// NotificationService handles emitting notifications for idea events.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger, cfg: cfg}
}

// Handle delivers the notifications for a single event.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventIdeaSubmitted:
		return n.handleIdeaSubmitted(ctx, event)
	case events.EventIdeaReviewed:
		return n.handleIdeaReviewed(ctx, event)
	}
	return fmt.Errorf("no notification for event type %q", event.Type)
}

// Staff learn about new submissions through the webhook; students get an email once
// their idea has been reviewed.
func (n *NotificationService) handleIdeaSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("IdeaSubmitted", zap.String("idea_id", event.IdeaID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleIdeaReviewed(ctx context.Context, event events.Event) error {
	n.logger.Info("IdeaReviewed", zap.String("idea_id", event.IdeaID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("idea_id", event.IdeaID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("idea_id", event.IdeaID),
		zap.String("event_type", string(event.Type)))
}
