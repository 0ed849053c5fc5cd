package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared by UUID keyed entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// JSONMap persists arbitrary key/value data as JSON.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}

// Clone returns a shallow copy.
func (m JSONMap) Clone() JSONMap {
	if m == nil {
		return nil
	}
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Notification is the persisted notification row and, verbatim, the payload
// pushed to connected clients.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        int64            `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64            `bun:"user_id,notnull" json:"user_id"`
	Type      NotificationType `bun:"type,notnull" json:"type"`
	Title     string           `bun:"title,notnull" json:"title"`
	Message   string           `bun:"message,notnull" json:"message"`
	Data      JSONMap          `bun:"data,type:json,nullzero" json:"data"`
	IsRead    bool             `bun:"is_read,notnull,default:false" json:"is_read"`
	CreatedAt time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Payload decodes the typed data carried by the notification.
func (n Notification) Payload() (Payload, error) {
	return DecodePayload(n.Type, n.Data)
}

// Role names recognised by the authorization layer.
const (
	RoleUser   = "user"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// User is the subset of the application's user row that notifications need.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull" json:"username"`
	Email    string `bun:"email" json:"email"`
	IsEditor bool   `bun:"is_editor,notnull,default:false" json:"is_editor"`
	IsAdmin  bool   `bun:"is_admin,notnull,default:false" json:"is_admin"`
}

// Role returns the highest role held by the user.
func (u User) Role() string {
	switch {
	case u.IsAdmin:
		return RoleAdmin
	case u.IsEditor:
		return RoleEditor
	default:
		return RoleUser
	}
}

// CanEdit reports editor privileges; admins are editors too.
func (u User) CanEdit() bool { return u.IsEditor || u.IsAdmin }

// Delivery statuses recorded for realtime attempts.
const (
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusOffline   = "offline"
	DeliveryStatusFailed    = "failed"
)

// DeliveryRecord logs one realtime delivery attempt for a notification.
type DeliveryRecord struct {
	bun.BaseModel `bun:"table:notification_deliveries,alias:nd"`
	RecordMeta

	NotificationID int64  `bun:"notification_id,notnull" json:"notification_id"`
	UserID         int64  `bun:"user_id,notnull" json:"user_id"`
	ConnectionID   string `bun:"connection_id" json:"connection_id,omitempty"`
	Event          string `bun:"event,notnull" json:"event"`
	Status         string `bun:"status,notnull" json:"status"`
	Error          string `bun:"error" json:"error,omitempty"`
}

// PushPreference is a per-user override of the realtime push policy for one
// notification type. Absent rows inherit the system default.
type PushPreference struct {
	bun.BaseModel `bun:"table:notification_push_preferences,alias:npp"`
	RecordMeta

	UserID  int64            `bun:"user_id,notnull" json:"user_id"`
	Type    NotificationType `bun:"type,notnull" json:"type"`
	Enabled bool             `bun:"enabled,notnull" json:"enabled"`
}
