package buybox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/model"
)

// Repository reads and writes buy boxes and their deal matches.
type Repository interface {
	List(ctx context.Context, tenantID string) ([]model.BuyBox, error)
	Get(ctx context.Context, tenantID, id string) (*model.BuyBox, error)
	Create(ctx context.Context, b *model.BuyBox) error
	Delete(ctx context.Context, tenantID, id string) error
	// QualifyingMatches returns the tenant's deal matches scoring at least
	// threshold.
	QualifyingMatches(ctx context.Context, tenantID string, threshold float64) ([]model.DealMatch, error)
}

// PostgresRepository is the pgx-backed Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a Repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const columns = `id, tenant_id, user_id, name, min_price, max_price, min_beds, max_beds,
	min_baths, max_baths, min_sqft, max_sqft, strategy, locations, alert_frequency,
	is_active, created_at, updated_at`

func scan(row pgx.Row, b *model.BuyBox) error {
	return row.Scan(
		&b.ID, &b.TenantID, &b.UserID, &b.Name, &b.MinPrice, &b.MaxPrice, &b.MinBeds, &b.MaxBeds,
		&b.MinBaths, &b.MaxBaths, &b.MinSqft, &b.MaxSqft, &b.Strategy, &b.Locations, &b.AlertFrequency,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]model.BuyBox, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query buy boxes: %w", err)
	}
	defer rows.Close()

	out := make([]model.BuyBox, 0)
	for rows.Next() {
		var b model.BuyBox
		if err := scan(rows, &b); err != nil {
			return nil, fmt.Errorf("scan buy box: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// List returns the tenant's buy boxes, newest first.
func (r *PostgresRepository) List(ctx context.Context, tenantID string) ([]model.BuyBox, error) {
	return r.query(ctx, `SELECT `+columns+` FROM buy_boxes WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
}

// ListActive returns the tenant's active buy boxes.
func (r *PostgresRepository) ListActive(ctx context.Context, tenantID string) ([]model.BuyBox, error) {
	return r.query(ctx, `SELECT `+columns+` FROM buy_boxes WHERE tenant_id = $1 AND is_active ORDER BY created_at`, tenantID)
}

// ListByFrequency returns active buy boxes across all tenants with the
// given alert frequency.
func (r *PostgresRepository) ListByFrequency(ctx context.Context, frequency string) ([]model.BuyBox, error) {
	return r.query(ctx, `SELECT `+columns+` FROM buy_boxes WHERE is_active AND alert_frequency = $1 ORDER BY tenant_id, created_at`, frequency)
}

// Get returns a single buy box.
func (r *PostgresRepository) Get(ctx context.Context, tenantID, id string) (*model.BuyBox, error) {
	var b model.BuyBox
	err := scan(r.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM buy_boxes WHERE id = $1 AND tenant_id = $2`, id, tenantID), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("buy box %s: %w", id, api.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get buy box: %w", err)
	}
	return &b, nil
}

// Create inserts b and fills in the generated columns.
func (r *PostgresRepository) Create(ctx context.Context, b *model.BuyBox) error {
	err := scan(r.pool.QueryRow(ctx,
		`INSERT INTO buy_boxes (tenant_id, user_id, name, min_price, max_price, min_beds, max_beds,
		                        min_baths, max_baths, min_sqft, max_sqft, strategy, locations,
		                        alert_frequency, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING `+columns,
		b.TenantID, b.UserID, b.Name, b.MinPrice, b.MaxPrice, b.MinBeds, b.MaxBeds,
		b.MinBaths, b.MaxBaths, b.MinSqft, b.MaxSqft, b.Strategy, b.Locations,
		b.AlertFrequency, b.IsActive,
	), b)
	if err != nil {
		return fmt.Errorf("insert buy box: %w", err)
	}
	return nil
}

// Delete removes a buy box and, through the foreign key, its matches.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM buy_boxes WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete buy box: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("buy box %s: %w", id, api.ErrNotFound)
	}
	return nil
}

// QualifyingMatches implements Repository.
func (r *PostgresRepository) QualifyingMatches(ctx context.Context, tenantID string, threshold float64) ([]model.DealMatch, error) {
	return r.matches(ctx,
		`SELECT dm.id, dm.buy_box_id, dm.deal_id, dm.match_score::float8, dm.created_at
		 FROM deal_matches dm
		 JOIN buy_boxes bb ON bb.id = dm.buy_box_id
		 WHERE bb.tenant_id = $1 AND dm.match_score >= $2
		 ORDER BY dm.created_at`,
		tenantID, threshold)
}

// MatchesSince returns matches for one buy box created at or after since
// and scoring at least threshold.
func (r *PostgresRepository) MatchesSince(ctx context.Context, buyBoxID string, since time.Time, threshold float64) ([]model.DealMatch, error) {
	return r.matches(ctx,
		`SELECT id, buy_box_id, deal_id, match_score::float8, created_at
		 FROM deal_matches
		 WHERE buy_box_id = $1 AND created_at >= $2 AND match_score >= $3
		 ORDER BY created_at`,
		buyBoxID, since, threshold)
}

// UpsertMatch records the score for (buy box, deal), replacing any prior score.
func (r *PostgresRepository) UpsertMatch(ctx context.Context, m *model.DealMatch) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO deal_matches (buy_box_id, deal_id, match_score)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (buy_box_id, deal_id) DO UPDATE SET match_score = EXCLUDED.match_score
		 RETURNING id, created_at`,
		m.BuyBoxID, m.DealID, m.MatchScore,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert deal match: %w", err)
	}
	return nil
}

func (r *PostgresRepository) matches(ctx context.Context, sql string, args ...any) ([]model.DealMatch, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query deal matches: %w", err)
	}
	defer rows.Close()

	out := make([]model.DealMatch, 0)
	for rows.Next() {
		var m model.DealMatch
		if err := rows.Scan(&m.ID, &m.BuyBoxID, &m.DealID, &m.MatchScore, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deal match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
