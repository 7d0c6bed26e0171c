// Package contact serves the lead and vendor address books.
package contact

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"dealdesk/api-service/internal/model"
)

// Repository reads and writes leads and vendors.
type Repository interface {
	ListLeads(ctx context.Context, tenantID, status string) ([]model.Lead, error)
	CreateLead(ctx context.Context, l *model.Lead) error
	ListVendors(ctx context.Context, tenantID, category string) ([]model.Vendor, error)
	CreateVendor(ctx context.Context, v *model.Vendor) error
}

// PostgresRepository is the pgx-backed Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const (
	leadColumns   = `id, tenant_id, name, email, phone, source, status, notes, created_at`
	vendorColumns = `id, tenant_id, name, category, email, phone, notes, created_at`
)

// ListLeads returns the tenant's leads, newest first, optionally by status.
func (r *PostgresRepository) ListLeads(ctx context.Context, tenantID, status string) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE tenant_id = $1`
	args := []any{tenantID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	out := make([]model.Lead, 0)
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.TenantID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.Status, &l.Notes, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateLead inserts l.
func (r *PostgresRepository) CreateLead(ctx context.Context, l *model.Lead) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO leads (tenant_id, name, email, phone, source, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+leadColumns,
		l.TenantID, l.Name, l.Email, l.Phone, l.Source, l.Status, l.Notes,
	).Scan(&l.ID, &l.TenantID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.Status, &l.Notes, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// ListVendors returns the tenant's vendors, newest first, optionally by category.
func (r *PostgresRepository) ListVendors(ctx context.Context, tenantID, category string) ([]model.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE tenant_id = $1`
	args := []any{tenantID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	out := make([]model.Vendor, 0)
	for rows.Next() {
		var v model.Vendor
		if err := rows.Scan(&v.ID, &v.TenantID, &v.Name, &v.Category, &v.Email, &v.Phone, &v.Notes, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CreateVendor inserts v.
func (r *PostgresRepository) CreateVendor(ctx context.Context, v *model.Vendor) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO vendors (tenant_id, name, category, email, phone, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+vendorColumns,
		v.TenantID, v.Name, v.Category, v.Email, v.Phone, v.Notes,
	).Scan(&v.ID, &v.TenantID, &v.Name, &v.Category, &v.Email, &v.Phone, &v.Notes, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}
