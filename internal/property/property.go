// Package property serves the properties collection.
//
// Routes:
//
//	GET  /api/properties[?status=X]  → tenant's properties, newest first
//	POST /api/properties             → insert a property for the tenant
package property

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/model"
)

// DefaultStatus is assigned when a new property omits status.
const DefaultStatus = "new"

// Repository reads and writes properties.
type Repository interface {
	List(ctx context.Context, tenantID, status string) ([]model.Property, error)
	Create(ctx context.Context, p *model.Property) error
}

// ─── Postgres ────────────────────────────────────────────────────────────────

// PostgresRepository is the pgx-backed Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const columns = `id, tenant_id, status, address, city, state, zip, property_type,
	bedrooms, bathrooms, sqft, purchase_price, current_value, attributes,
	created_at, updated_at`

// List returns properties for tenantID ordered by created_at DESC. An empty
// status matches every row.
func (r *PostgresRepository) List(ctx context.Context, tenantID, status string) ([]model.Property, error) {
	query := `SELECT ` + columns + ` FROM properties WHERE tenant_id = $1`
	args := []any{tenantID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := make([]model.Property, 0)
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.Status, &p.Address, &p.City, &p.State, &p.Zip, &p.PropertyType,
			&p.Bedrooms, &p.Bathrooms, &p.Sqft, &p.PurchasePrice, &p.CurrentValue, &p.Attributes,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// Create inserts p and fills in the generated columns.
func (r *PostgresRepository) Create(ctx context.Context, p *model.Property) error {
	var attrs any
	if a := normalizeAttributes(p.Attributes); a != nil {
		attrs = a
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO properties (tenant_id, status, address, city, state, zip, property_type,
		                         bedrooms, bathrooms, sqft, purchase_price, current_value, attributes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13::jsonb, '{}'::jsonb))
		 RETURNING `+columns,
		p.TenantID, p.Status, p.Address, p.City, p.State, p.Zip, p.PropertyType,
		p.Bedrooms, p.Bathrooms, p.Sqft, p.PurchasePrice, p.CurrentValue, attrs,
	).Scan(
		&p.ID, &p.TenantID, &p.Status, &p.Address, &p.City, &p.State, &p.Zip, &p.PropertyType,
		&p.Bedrooms, &p.Bathrooms, &p.Sqft, &p.PurchasePrice, &p.CurrentValue, &p.Attributes,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

// normalizeAttributes treats an absent value and a JSON null alike, so the
// column default of {} applies to both.
func normalizeAttributes(raw json.RawMessage) json.RawMessage {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return raw
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler serves /api/properties.
type Handler struct {
	repo     Repository
	tenantID string
}

// NewHandler returns a configured Handler. tenantID is the default tenant.
func NewHandler(repo Repository, tenantID string) *Handler {
	return &Handler{repo: repo, tenantID: tenantID}
}

// RegisterRoutes mounts the property routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/properties", h.handleProperties)
}

func (h *Handler) handleProperties(w http.ResponseWriter, r *http.Request) {
	tenantID, err := api.Tenant(r, h.tenantID)
	if err != nil {
		api.WriteErr(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.list(w, r, tenantID)
	case http.MethodPost:
		h.create(w, r, tenantID)
	default:
		api.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, tenantID string) {
	props, err := h.repo.List(r.Context(), tenantID, r.URL.Query().Get("status"))
	if err != nil {
		api.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	api.OK(w, props)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, tenantID string) {
	var p model.Property
	if err := api.Decode(r, &p); err != nil {
		api.WriteErr(w, err)
		return
	}

	p.ID = ""
	p.TenantID = tenantID
	p.Attributes = normalizeAttributes(p.Attributes)
	p.Status = strings.TrimSpace(p.Status)
	if p.Status == "" {
		p.Status = DefaultStatus
	}
	if p.Bedrooms != nil && *p.Bedrooms < 0 {
		api.WriteErr(w, api.Invalid("bedrooms must not be negative"))
		return
	}
	if p.Sqft != nil && *p.Sqft < 0 {
		api.WriteErr(w, api.Invalid("sqft must not be negative"))
		return
	}

	if err := h.repo.Create(r.Context(), &p); err != nil {
		api.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	api.Created(w, p)
}
