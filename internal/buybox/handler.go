package buybox

import (
	"net/http"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/model"
)

// Handler serves the buy-box routes:
//
//	GET    /api/buy-boxes
//	POST   /api/buy-boxes
//	GET    /api/buy-boxes/match-counts → [{buy_box_id, count}] for scores ≥ 50
//	GET    /api/buy-boxes/{id}
//	DELETE /api/buy-boxes/{id}
type Handler struct {
	repo     Repository
	tenantID string
}

// NewHandler returns a configured Handler. tenantID is the default tenant.
func NewHandler(repo Repository, tenantID string) *Handler {
	return &Handler{repo: repo, tenantID: tenantID}
}

// RegisterRoutes mounts the buy-box routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/buy-boxes", h.handleBuyBoxes)
	mux.HandleFunc("/api/buy-boxes/", h.handleBuyBox)
}

func (h *Handler) handleBuyBoxes(w http.ResponseWriter, r *http.Request) {
	tenantID, err := api.Tenant(r, h.tenantID)
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		list, err := h.repo.List(r.Context(), tenantID)
		if err != nil {
			api.WriteErr(w, err)
			return
		}
		api.OK(w, list)
	case http.MethodPost:
		b := model.BuyBox{IsActive: true}
		if err := api.Decode(r, &b); err != nil {
			api.WriteErr(w, err)
			return
		}
		b.ID = ""
		b.TenantID = tenantID
		if err := Normalize(&b); err != nil {
			api.WriteErr(w, err)
			return
		}
		if err := h.repo.Create(r.Context(), &b); err != nil {
			api.WriteErr(w, err)
			return
		}
		api.Created(w, b)
	default:
		api.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// handleBuyBox handles /api/buy-boxes/match-counts and /api/buy-boxes/{id}
func (h *Handler) handleBuyBox(w http.ResponseWriter, r *http.Request) {
	parts := api.PathParts(r)
	if len(parts) != 3 {
		api.Error(w, "invalid path", http.StatusNotFound)
		return
	}
	tenantID, err := api.Tenant(r, h.tenantID)
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	if parts[2] == "match-counts" {
		if r.Method != http.MethodGet {
			api.MethodNotAllowed(w, http.MethodGet)
			return
		}
		h.matchCounts(w, r, tenantID)
		return
	}

	id, err := api.PathID(parts[2])
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := h.repo.Get(r.Context(), tenantID, id)
		if err != nil {
			api.WriteErr(w, err)
			return
		}
		api.OK(w, b)
	case http.MethodDelete:
		if err := h.repo.Delete(r.Context(), tenantID, id); err != nil {
			api.WriteErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		api.MethodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func (h *Handler) matchCounts(w http.ResponseWriter, r *http.Request, tenantID string) {
	matches, err := h.repo.QualifyingMatches(r.Context(), tenantID, model.MatchThreshold)
	if err != nil {
		api.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	api.OK(w, CountMatches(matches, model.MatchThreshold))
}
