package contact

import (
	"net/http"
	"net/mail"
	"strings"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/model"
	"dealdesk/api-service/internal/notify"
)

// Handler serves:
//
//	GET/POST /api/leads[?status=X]
//	GET/POST /api/vendors[?category=X]
type Handler struct {
	repo     Repository
	notifier *notify.Creator
	tenantID string
}

// NewHandler returns a configured Handler. tenantID is the default tenant.
func NewHandler(repo Repository, notifier *notify.Creator, tenantID string) *Handler {
	return &Handler{repo: repo, notifier: notifier, tenantID: tenantID}
}

// RegisterRoutes mounts the lead and vendor routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/leads", h.handleLeads)
	mux.HandleFunc("/api/vendors", h.handleVendors)
}

func (h *Handler) handleLeads(w http.ResponseWriter, r *http.Request) {
	tenantID, err := api.Tenant(r, h.tenantID)
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		leads, err := h.repo.ListLeads(r.Context(), tenantID, r.URL.Query().Get("status"))
		if err != nil {
			api.WriteErr(w, err)
			return
		}
		api.OK(w, leads)
	case http.MethodPost:
		var l model.Lead
		if err := api.Decode(r, &l); err != nil {
			api.WriteErr(w, err)
			return
		}
		l.ID = ""
		l.TenantID = tenantID
		l.Name = strings.TrimSpace(l.Name)
		if l.Name == "" {
			api.WriteErr(w, api.Invalid("name is required"))
			return
		}
		if err := checkEmail(l.Email); err != nil {
			api.WriteErr(w, err)
			return
		}
		if l.Status = strings.TrimSpace(l.Status); l.Status == "" {
			l.Status = "new"
		}
		if err := h.repo.CreateLead(r.Context(), &l); err != nil {
			api.WriteErr(w, err)
			return
		}

		link := "/leads"
		h.notifier.Create(r.Context(), notify.NewNotification{
			TenantID: tenantID,
			Type:     model.NotificationLead,
			Title:    "New lead: " + l.Name,
			Message:  l.Source,
			Link:     &link,
		})
		api.Created(w, l)
	default:
		api.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) handleVendors(w http.ResponseWriter, r *http.Request) {
	tenantID, err := api.Tenant(r, h.tenantID)
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		vendors, err := h.repo.ListVendors(r.Context(), tenantID, r.URL.Query().Get("category"))
		if err != nil {
			api.WriteErr(w, err)
			return
		}
		api.OK(w, vendors)
	case http.MethodPost:
		var v model.Vendor
		if err := api.Decode(r, &v); err != nil {
			api.WriteErr(w, err)
			return
		}
		v.ID = ""
		v.TenantID = tenantID
		v.Name = strings.TrimSpace(v.Name)
		if v.Name == "" {
			api.WriteErr(w, api.Invalid("name is required"))
			return
		}
		if err := checkEmail(v.Email); err != nil {
			api.WriteErr(w, err)
			return
		}
		if err := h.repo.CreateVendor(r.Context(), &v); err != nil {
			api.WriteErr(w, err)
			return
		}
		api.Created(w, v)
	default:
		api.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func checkEmail(email *string) error {
	if email == nil || *email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(*email); err != nil {
		return api.Invalid("invalid email %q", *email)
	}
	return nil
}
