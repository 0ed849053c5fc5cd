package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// NotificationType enumerates the kinds of notification the system produces.
type NotificationType string

const (
	TypeEditorPromotion NotificationType = "editor_promotion"
	TypeContentUpdate   NotificationType = "content_update"
	TypeGroupInvitation NotificationType = "group_invitation"
	TypeFileShare       NotificationType = "file_share"
)

// ErrInvalidType is returned for values outside the notification type enum.
var ErrInvalidType = errors.New("domain: invalid notification type")

// ErrInvalidPayload is returned when data does not match its type's shape.
var ErrInvalidPayload = errors.New("domain: invalid notification payload")

// NotificationTypes lists every supported type in declaration order.
func NotificationTypes() []NotificationType {
	return []NotificationType{TypeEditorPromotion, TypeContentUpdate, TypeGroupInvitation, TypeFileShare}
}

// ParseNotificationType validates raw against the enum.
func ParseNotificationType(raw string) (NotificationType, error) {
	candidate := NotificationType(strings.TrimSpace(raw))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, raw)
}

// Valid reports whether t is a known type.
func (t NotificationType) Valid() bool {
	switch t {
	case TypeEditorPromotion, TypeContentUpdate, TypeGroupInvitation, TypeFileShare:
		return true
	}
	return false
}

func (t NotificationType) String() string { return string(t) }

// Payload is the tagged union of per-type notification data.
type Payload interface {
	Type() NotificationType
	isPayload()
}

// EditorPromotion is sent when a user is promoted to editor.
type EditorPromotion struct {
	PromotedBy string `json:"promoted_by"`
}

// ContentUpdate carries free-form data about changed catalogue content.
type ContentUpdate struct {
	Fields map[string]any `json:"-"`
}

// GroupInvitation is sent when a user is invited into a group.
type GroupInvitation struct {
	GroupID   int64  `json:"group_id"`
	GroupName string `json:"group_name"`
	InvitedBy string `json:"invited_by"`
}

// FileShare is sent when another user shares a file.
type FileShare struct {
	FileName string `json:"file_name"`
	SharedBy string `json:"shared_by"`
}

func (EditorPromotion) Type() NotificationType { return TypeEditorPromotion }
func (ContentUpdate) Type() NotificationType   { return TypeContentUpdate }
func (GroupInvitation) Type() NotificationType { return TypeGroupInvitation }
func (FileShare) Type() NotificationType       { return TypeFileShare }

func (EditorPromotion) isPayload() {}
func (ContentUpdate) isPayload()   {}
func (GroupInvitation) isPayload() {}
func (FileShare) isPayload()       {}

// EncodePayload flattens a payload into the persisted data map. A nil payload
// or an empty content update encodes to nil, which is stored as SQL NULL.
func EncodePayload(p Payload) (JSONMap, error) {
	switch v := p.(type) {
	case nil:
		return nil, nil
	case ContentUpdate:
		if len(v.Fields) == 0 {
			return nil, nil
		}
		return JSONMap(v.Fields).Clone(), nil
	case *ContentUpdate:
		if v == nil {
			return nil, nil
		}
		return EncodePayload(*v)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return out, nil
}

// DecodePayload rebuilds the typed payload for t from persisted data.
// Missing data decodes to the zero payload of the type.
func DecodePayload(t NotificationType, data JSONMap) (Payload, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	if t == TypeContentUpdate {
		return ContentUpdate{Fields: data.Clone()}, nil
	}
	var target Payload
	switch t {
	case TypeEditorPromotion:
		target = &EditorPromotion{}
	case TypeGroupInvitation:
		target = &GroupInvitation{}
	case TypeFileShare:
		target = &FileShare{}
	}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, t, err)
		}
	}
	switch v := target.(type) {
	case *EditorPromotion:
		return *v, nil
	case *GroupInvitation:
		return *v, nil
	case *FileShare:
		return *v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidType, t)
}

// NewNotification builds an unsaved notification whose type is taken from the
// payload, so type and data cannot disagree.
func NewNotification(userID int64, title, message string, payload Payload) (*Notification, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is required", ErrInvalidPayload)
	}
	data, err := EncodePayload(payload)
	if err != nil {
		return nil, err
	}
	return &Notification{
		UserID:  userID,
		Type:    payload.Type(),
		Title:   title,
		Message: message,
		Data:    data,
	}, nil
}
