package templates

import (
	"strings"
	"sync"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
)

// Copy names the catalog keys used for one notification type and the data
// placeholders its templates need.
type Copy struct {
	Type       domain.NotificationType
	TitleKey   string
	MessageKey string
	Required   []string
}

// Catalog keys shared by every notification type.
const (
	KeyEmailSubject = "email.subject"
	KeyEmailBody    = "email.body"
)

// DefaultCopies covers the producers that compose their own text. Content
// updates carry caller supplied title and message.
func DefaultCopies() []Copy {
	return []Copy{
		{
			Type:       domain.TypeEditorPromotion,
			TitleKey:   "editor_promotion.title",
			MessageKey: "editor_promotion.message",
		},
		{
			Type:       domain.TypeGroupInvitation,
			TitleKey:   "group_invitation.title",
			MessageKey: "group_invitation.message",
			Required:   []string{"group_name"},
		},
		{
			Type:       domain.TypeFileShare,
			TitleKey:   "file_share.title",
			MessageKey: "file_share.message",
			Required:   []string{"file_name", "shared_by"},
		},
	}
}

type registry struct {
	mu     sync.RWMutex
	copies map[domain.NotificationType]Copy
}

func newRegistry() *registry {
	return &registry{copies: make(map[domain.NotificationType]Copy)}
}

func (r *registry) Upsert(c Copy) {
	c.Required = uniqueStrings(c.Required)
	r.mu.Lock()
	r.copies[c.Type] = c
	r.mu.Unlock()
}

func (r *registry) Lookup(t domain.NotificationType) (Copy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.copies[t]
	return c, ok
}

func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, val := range values {
		key := strings.TrimSpace(val)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, key)
	}
	return result
}
