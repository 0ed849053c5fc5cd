package options

import (
	"context"
	"errors"
	"strconv"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
)

// PreferenceSnapshotStore adapts the push preference repository to the user
// scope layer.
type PreferenceSnapshotStore struct {
	Repository store.PushPreferenceRepository
}

var errPreferenceRepositoryRequired = errors.New("options: push preference repository is required")

// Load returns the user's overrides as a snapshot. ok is false when the user
// has none.
func (s PreferenceSnapshotStore) Load(ctx context.Context, userID int64) (Snapshot, bool, error) {
	if s.Repository == nil {
		return Snapshot{}, false, errPreferenceRepositoryRequired
	}
	prefs, err := s.Repository.ListByUser(ctx, userID)
	if err != nil {
		return Snapshot{}, false, err
	}
	if len(prefs) == 0 {
		return Snapshot{}, false, nil
	}
	data := make(map[string]any, len(prefs))
	for _, pref := range prefs {
		data[string(pref.Type)] = pref.Enabled
	}
	return Snapshot{
		Scope:      UserScope,
		Data:       data,
		SnapshotID: "user:" + strconv.FormatInt(userID, 10),
	}, true, nil
}

// Save upserts the override of one notification type.
func (s PreferenceSnapshotStore) Save(ctx context.Context, userID int64, notificationType domain.NotificationType, enabled bool) (*domain.PushPreference, error) {
	if s.Repository == nil {
		return nil, errPreferenceRepositoryRequired
	}
	pref, err := s.Repository.GetByUserType(ctx, userID, notificationType)
	switch {
	case err == nil:
		pref.Enabled = enabled
		if err := s.Repository.Update(ctx, pref); err != nil {
			return nil, err
		}
		return pref, nil
	case errors.Is(err, store.ErrNotFound):
		record := &domain.PushPreference{
			UserID:  userID,
			Type:    notificationType,
			Enabled: enabled,
		}
		if err := s.Repository.Create(ctx, record); err != nil {
			return nil, err
		}
		return record, nil
	default:
		return nil, err
	}
}

// Reset drops the override so the system default applies again.
func (s PreferenceSnapshotStore) Reset(ctx context.Context, userID int64, notificationType domain.NotificationType) error {
	if s.Repository == nil {
		return errPreferenceRepositoryRequired
	}
	err := s.Repository.Delete(ctx, userID, notificationType)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}
