package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
)

// NotifyEditorPromotion tells userID they were promoted to editor.
func (s *Service) NotifyEditorPromotion(ctx context.Context, userID int64, promotedBy string) (*domain.Notification, error) {
	return s.produce(ctx, userID, domain.EditorPromotion{PromotedBy: promotedBy})
}

// NotifyGroupInvitation tells userID they were invited into a group.
func (s *Service) NotifyGroupInvitation(ctx context.Context, userID, groupID int64, groupName, invitedBy string) (*domain.Notification, error) {
	if strings.TrimSpace(groupName) == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	return s.produce(ctx, userID, domain.GroupInvitation{
		GroupID:   groupID,
		GroupName: groupName,
		InvitedBy: invitedBy,
	})
}

// NotifyFileShare tells userID that sharedBy shared fileName with them.
func (s *Service) NotifyFileShare(ctx context.Context, userID int64, fileName, sharedBy string) (*domain.Notification, error) {
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(sharedBy) == "" {
		return nil, fmt.Errorf("%w: file name and sharer are required", ErrInvalidInput)
	}
	return s.produce(ctx, userID, domain.FileShare{FileName: fileName, SharedBy: sharedBy})
}

// NotifyContentUpdate stores one notification per recipient and pushes each.
// An empty recipient list targets every editor.
func (s *Service) NotifyContentUpdate(ctx context.Context, userIDs []int64, title, message string, data map[string]any) ([]domain.Notification, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" || message == "" {
		return nil, fmt.Errorf("%w: title and message are required", ErrInvalidInput)
	}
	recipients, err := s.recipients(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	payload := domain.ContentUpdate{Fields: data}
	created := make([]domain.Notification, 0, len(recipients))
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, userID := range recipients {
			n, err := domain.NewNotification(userID, title, message, payload)
			if err != nil {
				return err
			}
			if err := s.repo.Create(ctx, n); err != nil {
				return fmt.Errorf("notifications: create for user %d: %w", userID, err)
			}
			created = append(created, *n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range created {
		s.created(ctx, 0, &created[i])
		s.deliver(ctx, &created[i])
	}
	return created, nil
}

func (s *Service) produce(ctx context.Context, userID int64, payload domain.Payload) (*domain.Notification, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	data, err := domain.EncodePayload(payload)
	if err != nil {
		return nil, err
	}
	content, err := s.composer.Compose(ctx, payload.Type(), s.locale, data)
	if err != nil {
		return nil, err
	}
	n, err := domain.NewNotification(userID, content.Title, content.Message, payload)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.created(ctx, 0, n)
	s.deliver(ctx, n)
	return n, nil
}

// recipients returns the given ids deduplicated in order, or every editor
// when none are given.
func (s *Service) recipients(ctx context.Context, userIDs []int64) ([]int64, error) {
	if len(userIDs) == 0 {
		editors, err := s.users.ListEditors(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(editors))
		for _, editor := range editors {
			ids = append(ids, editor.ID)
		}
		return ids, nil
	}
	seen := make(map[int64]struct{}, len(userIDs))
	ids := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: invalid user id %d", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
