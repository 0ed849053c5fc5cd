package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/notifications"
)

const msgNotFound = "Notificação não encontrada"

type createRequest struct {
	UserID  int64          `json:"user_id"`
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	online := 0
	if h.presence != nil {
		online = h.presence.OnlineCount()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "online": online})
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit inválido")
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "offset inválido")
		return
	}
	result, err := h.svc.List(r.Context(), user.ID, notifications.Query{
		Limit:      limit,
		Offset:     offset,
		UnreadOnly: q.Get("unread_only") == "true",
	})
	if err != nil {
		h.fail(w, "list notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	n, err := h.svc.Get(r.Context(), user.ID, id)
	if err != nil {
		h.fail(w, "get notification", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	admin, _ := UserFromContext(r.Context())
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo do pedido inválido")
		return
	}
	n, err := h.svc.Create(r.Context(), notifications.CreateInput{
		ActorID: admin.ID,
		UserID:  req.UserID,
		Type:    domain.NotificationType(req.Type),
		Title:   req.Title,
		Message: req.Message,
		Data:    domain.JSONMap(req.Data),
	})
	if err != nil {
		h.fail(w, "create notification", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Notificação criada com sucesso",
		"notification": n,
	})
}

func (h *handlers) markRead(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err := h.svc.MarkRead(r.Context(), user.ID, id); err != nil {
		h.fail(w, "mark notification read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Notificação marcada como lida"})
}

func (h *handlers) markAllRead(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	updated, err := h.svc.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		h.fail(w, "mark all notifications read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Todas as notificações foram marcadas como lidas",
		"updated_count": updated,
	})
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err := h.svc.Delete(r.Context(), user.ID, id); err != nil {
		h.fail(w, "delete notification", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Notificação eliminada com sucesso"})
}

func (h *handlers) clearRead(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	deleted, err := h.svc.ClearRead(r.Context(), user.ID)
	if err != nil {
		h.fail(w, "clear read notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Notificações lidas eliminadas com sucesso",
		"deleted_count": deleted,
	})
}

func (h *handlers) pushSettings(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	settings, err := h.push.Effective(r.Context(), user.ID)
	if err != nil {
		h.fail(w, "load push settings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"push": settings})
}

func (h *handlers) mute(w http.ResponseWriter, r *http.Request) {
	h.setMuted(w, r, true)
}

func (h *handlers) unmute(w http.ResponseWriter, r *http.Request) {
	h.setMuted(w, r, false)
}

func (h *handlers) setMuted(w http.ResponseWriter, r *http.Request, muted bool) {
	user, _ := UserFromContext(r.Context())
	nt, err := domain.ParseNotificationType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Tipo de notificação inválido")
		return
	}
	if muted {
		err = h.push.Mute(r.Context(), user.ID, nt)
	} else {
		err = h.push.Unmute(r.Context(), user.ID, nt)
	}
	if err != nil {
		h.fail(w, "update push settings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"type": nt, "muted": muted})
}

// fail maps service errors onto status codes.
func (h *handlers) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, notifications.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, notifications.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "Utilizador não encontrado")
	case errors.Is(err, notifications.ErrInvalidInput), errors.Is(err, domain.ErrInvalidType), errors.Is(err, domain.ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op+" failed", logger.Err(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
