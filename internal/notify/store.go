package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/model"
)

// Store persists notifications.
type Store interface {
	Insert(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, tenantID string, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, tenantID, id string) (*model.Notification, error)
}

// PostgresStore is the pgx-backed Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const notificationColumns = `id, tenant_id, user_id, type::text, title, message, link, is_read, created_at`

func scanNotification(row pgx.Row, n *model.Notification) error {
	return row.Scan(
		&n.ID, &n.TenantID, &n.UserID, &n.Type, &n.Title,
		&n.Message, &n.Link, &n.IsRead, &n.CreatedAt,
	)
}

// Insert writes n and fills in the generated columns.
func (s *PostgresStore) Insert(ctx context.Context, n *model.Notification) error {
	err := scanNotification(s.pool.QueryRow(ctx,
		`INSERT INTO notifications (tenant_id, user_id, type, title, message, link)
		 VALUES ($1, $2, $3::notification_type, $4, $5, $6)
		 RETURNING `+notificationColumns,
		n.TenantID, n.UserID, string(n.Type), n.Title, n.Message, n.Link,
	), n)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns the tenant's notifications, newest first.
func (s *PostgresStore) List(ctx context.Context, tenantID string, unreadOnly bool) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE tenant_id = $1`
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags a single notification as read.
func (s *PostgresStore) MarkRead(ctx context.Context, tenantID, id string) (*model.Notification, error) {
	var n model.Notification
	err := scanNotification(s.pool.QueryRow(ctx,
		`UPDATE notifications SET is_read = TRUE
		 WHERE id = $1 AND tenant_id = $2
		 RETURNING `+notificationColumns,
		id, tenantID,
	), &n)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("notification %s: %w", id, api.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return &n, nil
}
