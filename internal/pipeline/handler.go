package pipeline

import (
	"fmt"
	"net/http"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/model"
)

// Handler serves the deal board.
//
// Routes:
//
//	GET  /api/deals[?stage=X]     → tenant's deals, most recently touched first
//	POST /api/deals               → create a deal at LEAD
//	GET  /api/deals/{id}          → single deal
//	POST /api/deals/{id}/move     → move card to a new stage
type Handler struct {
	svc      *Service
	repo     Repository
	tenantID string
}

// NewHandler returns a configured Handler. tenantID is the default tenant.
func NewHandler(svc *Service, repo Repository, tenantID string) *Handler {
	return &Handler{svc: svc, repo: repo, tenantID: tenantID}
}

// RegisterRoutes mounts the deal routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/deals", h.handleDeals)
	mux.HandleFunc("/api/deals/", h.handleDealAction)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

func (h *Handler) handleDeals(w http.ResponseWriter, r *http.Request) {
	tenantID, err := api.Tenant(r, h.tenantID)
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		deals, err := h.svc.ListDeals(r.Context(), tenantID, r.URL.Query().Get("stage"))
		if err != nil {
			api.WriteErr(w, err)
			return
		}
		api.OK(w, deals)
	case http.MethodPost:
		var d model.Deal
		if err := api.Decode(r, &d); err != nil {
			api.WriteErr(w, err)
			return
		}
		d.ID = ""
		d.TenantID = tenantID
		if err := h.svc.CreateDeal(r.Context(), &d); err != nil {
			api.WriteErr(w, err)
			return
		}
		api.Created(w, d)
	default:
		api.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// handleDealAction handles GET /api/deals/{id} and POST /api/deals/{id}/move
func (h *Handler) handleDealAction(w http.ResponseWriter, r *http.Request) {
	parts := api.PathParts(r)
	if len(parts) < 3 || len(parts) > 4 {
		api.Error(w, "invalid path", http.StatusNotFound)
		return
	}
	dealID, err := api.PathID(parts[2])
	if err != nil {
		api.WriteErr(w, err)
		return
	}
	tenantID, err := api.Tenant(r, h.tenantID)
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	if len(parts) == 3 {
		if r.Method != http.MethodGet {
			api.MethodNotAllowed(w, http.MethodGet)
			return
		}
		d, err := h.repo.Get(r.Context(), tenantID, dealID)
		if err != nil {
			api.WriteErr(w, err)
			return
		}
		api.OK(w, d)
		return
	}

	switch action := parts[3]; action {
	case "move":
		if r.Method != http.MethodPost {
			api.MethodNotAllowed(w, http.MethodPost)
			return
		}
		h.moveDeal(w, r, tenantID, dealID)
	default:
		api.Error(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) moveDeal(w http.ResponseWriter, r *http.Request, tenantID, dealID string) {
	var body struct {
		NewStage string `json:"newStage"`
	}
	if err := api.Decode(r, &body); err != nil || body.NewStage == "" {
		api.Error(w, "body must contain newStage", http.StatusBadRequest)
		return
	}

	deal, err := h.svc.MoveDeal(r.Context(), tenantID, dealID, body.NewStage)
	if err != nil {
		api.WriteErr(w, err)
		return
	}
	api.OK(w, deal)
}
