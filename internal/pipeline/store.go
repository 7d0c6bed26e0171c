package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/model"
)

// Repository reads and writes deals.
type Repository interface {
	List(ctx context.Context, tenantID, stage string) ([]model.Deal, error)
	Get(ctx context.Context, tenantID, id string) (*model.Deal, error)
	Create(ctx context.Context, d *model.Deal) error
	// Move sets the stage and appends entry to history_log in one statement,
	// provided the deal is still at from. Otherwise it returns ErrStageChanged.
	Move(ctx context.Context, tenantID, id string, from, to Stage, entry json.RawMessage) (*model.Deal, error)
}

// PostgresRepository is the pgx-backed Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const columns = `id, tenant_id, property_id, title, address, city, asking_price,
	bedrooms, bathrooms, sqft, strategy, stage::text, history_log, created_at, updated_at`

func scan(row pgx.Row, d *model.Deal) error {
	return row.Scan(
		&d.ID, &d.TenantID, &d.PropertyID, &d.Title, &d.Address, &d.City, &d.AskingPrice,
		&d.Bedrooms, &d.Bathrooms, &d.Sqft, &d.Strategy, &d.Stage, &d.HistoryLog,
		&d.CreatedAt, &d.UpdatedAt,
	)
}

// List returns the tenant's deals, most recently touched first.
// If stage is non-empty, only deals in that stage are returned.
func (r *PostgresRepository) List(ctx context.Context, tenantID, stage string) ([]model.Deal, error) {
	var (
		rows pgx.Rows
		err  error
	)
	base := `SELECT ` + columns + ` FROM deals WHERE tenant_id = $1`
	if stage != "" {
		rows, err = r.pool.Query(ctx, base+` AND stage = $2::deal_stage ORDER BY updated_at DESC`, tenantID, stage)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY updated_at DESC`, tenantID)
	}
	if err != nil {
		return nil, fmt.Errorf("listDeals query: %w", err)
	}
	defer rows.Close()

	deals := make([]model.Deal, 0)
	for rows.Next() {
		var d model.Deal
		if err := scan(rows, &d); err != nil {
			return nil, fmt.Errorf("listDeals scan: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// Get returns a single deal, validating tenant ownership.
func (r *PostgresRepository) Get(ctx context.Context, tenantID, id string) (*model.Deal, error) {
	var d model.Deal
	err := scan(r.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM deals WHERE id = $1 AND tenant_id = $2`, id, tenantID), &d)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getDeal: %w", err)
	}
	return &d, nil
}

// Create inserts d at the LEAD stage.
func (r *PostgresRepository) Create(ctx context.Context, d *model.Deal) error {
	err := scan(r.pool.QueryRow(ctx,
		`INSERT INTO deals (tenant_id, property_id, title, address, city, asking_price,
		                    bedrooms, bathrooms, sqft, strategy, stage)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'LEAD')
		 RETURNING `+columns,
		d.TenantID, d.PropertyID, d.Title, d.Address, d.City, d.AskingPrice,
		d.Bedrooms, d.Bathrooms, d.Sqft, d.Strategy,
	), d)
	if err != nil {
		return fmt.Errorf("createDeal: %w", err)
	}
	return nil
}

// Move implements Repository.
func (r *PostgresRepository) Move(ctx context.Context, tenantID, id string, from, to Stage, entry json.RawMessage) (*model.Deal, error) {
	var d model.Deal
	err := scan(r.pool.QueryRow(ctx,
		`UPDATE deals
		 SET stage       = $1::deal_stage,
		     history_log = history_log || $2::jsonb,
		     updated_at  = NOW()
		 WHERE id = $3 AND tenant_id = $4 AND stage = $5::deal_stage
		 RETURNING `+columns,
		string(to), fmt.Sprintf("[%s]", entry), id, tenantID, string(from),
	), &d)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStageChanged
	}
	if err != nil {
		return nil, fmt.Errorf("moveDeal update: %w", err)
	}
	return &d, nil
}

// ErrNotFound is returned when a deal is missing or belongs to another tenant.
var ErrNotFound = fmt.Errorf("deal %w", api.ErrNotFound)

// ErrStageChanged is returned by Move when another request moved the deal
// after it was read.
var ErrStageChanged = fmt.Errorf("deal stage changed concurrently: %w", api.ErrConflict)
