// Package notify creates and serves dashboard notifications.
//
// Creator.Create never returns an error: a failed insert is logged and
// reported as a nil notification, so callers on the request path can treat
// notifications as best-effort.
package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"dealdesk/api-service/internal/events"
	"dealdesk/api-service/internal/model"
)

// NewNotification is the input to Creator.Create.
type NewNotification struct {
	TenantID string                 `json:"-"`
	UserID   *string                `json:"user_id"`
	Type     model.NotificationType `json:"type"`
	Title    string                 `json:"title"`
	Message  *string                `json:"message"`
	Link     *string                `json:"link"`
}

// Creator inserts notifications and announces them on the event bus.
type Creator struct {
	store  Store
	pub    events.Publisher
	logger *zap.Logger
}

// NewCreator returns a configured Creator.
func NewCreator(store Store, pub events.Publisher, logger *zap.Logger) *Creator {
	return &Creator{store: store, pub: pub, logger: logger}
}

// Create inserts one notification row. It returns nil when the input is
// invalid or the insert fails.
func (c *Creator) Create(ctx context.Context, in NewNotification) *model.Notification {
	log := c.logger.With(zap.String("tenant_id", in.TenantID), zap.String("type", string(in.Type)))

	if !in.Type.Valid() {
		log.Error("create notification: unknown type")
		return nil
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		log.Error("create notification: empty title")
		return nil
	}

	n := &model.Notification{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Type:     in.Type,
		Title:    title,
		Message:  in.Message,
		Link:     in.Link,
	}
	if err := c.store.Insert(ctx, n); err != nil {
		log.Error("create notification failed", zap.Error(err))
		return nil
	}

	if err := c.pub.Publish(ctx, events.NotificationCreated, n); err != nil {
		log.Warn("publish notification event failed", zap.Error(err))
	}
	return n
}
