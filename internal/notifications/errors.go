package notifications

import (
	"errors"

	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
)

var (
	// ErrNotFound is returned for missing or foreign notifications.
	ErrNotFound = store.ErrNotFound
	// ErrUserNotFound is returned when the recipient does not exist.
	ErrUserNotFound = errors.New("notifications: user not found")
	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("notifications: invalid input")
	// ErrNoRecipients is returned when a bulk producer resolves nobody.
	ErrNoRecipients = errors.New("notifications: no recipients")

	errRepositoryRequired = errors.New("notifications: notification repository is required")
	errUsersRequired      = errors.New("notifications: user repository is required")
	errComposerRequired   = errors.New("notifications: composer is required")
)
