package notify

import (
	"net/http"

	"dealdesk/api-service/internal/api"
)

// Handler serves the notification routes:
//
//	GET  /api/notifications[?unread=true]
//	POST /api/notifications
//	POST /api/notifications/{id}/read
type Handler struct {
	store    Store
	creator  *Creator
	tenantID string
}

// NewHandler returns a configured Handler. tenantID is the default tenant.
func NewHandler(store Store, creator *Creator, tenantID string) *Handler {
	return &Handler{store: store, creator: creator, tenantID: tenantID}
}

// RegisterRoutes mounts the notification routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/notifications", h.handleNotifications)
	mux.HandleFunc("/api/notifications/", h.handleNotificationAction)
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	tenantID, err := api.Tenant(r, h.tenantID)
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		unread := r.URL.Query().Get("unread") == "true"
		list, err := h.store.List(r.Context(), tenantID, unread)
		if err != nil {
			api.WriteErr(w, err)
			return
		}
		api.OK(w, list)
	case http.MethodPost:
		var in NewNotification
		if err := api.Decode(r, &in); err != nil {
			api.WriteErr(w, err)
			return
		}
		in.TenantID = tenantID
		n := h.creator.Create(r.Context(), in)
		if n == nil {
			api.Error(w, "failed to create notification", http.StatusInternalServerError)
			return
		}
		api.Created(w, n)
	default:
		api.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// handleNotificationAction handles POST /api/notifications/{id}/read
func (h *Handler) handleNotificationAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.MethodNotAllowed(w, http.MethodPost)
		return
	}
	parts := api.PathParts(r)
	if len(parts) != 4 || parts[3] != "read" {
		api.Error(w, "invalid path", http.StatusNotFound)
		return
	}
	id, err := api.PathID(parts[2])
	if err != nil {
		api.WriteErr(w, err)
		return
	}
	tenantID, err := api.Tenant(r, h.tenantID)
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	n, err := h.store.MarkRead(r.Context(), tenantID, id)
	if err != nil {
		api.WriteErr(w, err)
		return
	}
	api.OK(w, n)
}
