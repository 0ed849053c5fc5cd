package notifications

import (
	"context"

	"github.com/goliatone/go-realtime-notifications/pkg/adapters/email"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/templates"
)

// deliver pushes a persisted notification. Failures never reach the caller:
// the row is already stored and the user sees it on the next fetch.
func (s *Service) deliver(ctx context.Context, n *domain.Notification) {
	if s.realtime == nil {
		return
	}
	if s.policy != nil && !s.policy.ShouldPush(ctx, n.UserID, n.Type) {
		s.logger.Debug("realtime push muted",
			logger.Int64("user_id", n.UserID),
			logger.String("type", string(n.Type)),
		)
		return
	}
	online := s.realtime.Online(n.UserID)
	s.realtime.NotifyUser(ctx, n.UserID, *n)
	if !online && s.emailEnabled {
		s.sendEmail(ctx, n)
	}
}

func (s *Service) sendEmail(ctx context.Context, n *domain.Notification) {
	user, err := s.user(ctx, n.UserID)
	if err != nil {
		s.logger.Warn("email fallback skipped", logger.Int64("user_id", n.UserID), logger.Err(err))
		return
	}
	if user.Email == "" {
		return
	}
	data := map[string]any{
		"title":    n.Title,
		"message":  n.Message,
		"username": user.Username,
		"type":     string(n.Type),
	}
	subject, err := s.composer.Render(ctx, templates.RenderRequest{Key: templates.KeyEmailSubject, Locale: s.locale, Data: data, Plain: true})
	if err != nil {
		s.logger.Warn("email subject render failed", logger.Int64("notification_id", n.ID), logger.Err(err))
		return
	}
	body, err := s.composer.Render(ctx, templates.RenderRequest{Key: templates.KeyEmailBody, Locale: s.locale, Data: data})
	if err != nil {
		s.logger.Warn("email body render failed", logger.Int64("notification_id", n.ID), logger.Err(err))
		return
	}
	msg := email.Message{
		To:      user.Email,
		Subject: subject.Text,
		HTML:    body.Text,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Warn("email fallback failed",
			logger.Int64("notification_id", n.ID),
			logger.String("to", email.MaskAddress(user.Email)),
			logger.Err(err),
		)
	}
}
