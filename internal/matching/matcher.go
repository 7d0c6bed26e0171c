package matching

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"dealdesk/api-service/internal/model"
	"dealdesk/api-service/internal/notify"
)

// BuyBoxes supplies the active buy boxes of a tenant.
type BuyBoxes interface {
	ListActive(ctx context.Context, tenantID string) ([]model.BuyBox, error)
}

// MatchWriter persists deal matches.
type MatchWriter interface {
	UpsertMatch(ctx context.Context, m *model.DealMatch) error
}

// Matcher scores new deals against every active buy box of their tenant.
type Matcher struct {
	boxes    BuyBoxes
	writer   MatchWriter
	notifier *notify.Creator
	logger   *zap.Logger
}

// NewMatcher returns a configured Matcher.
func NewMatcher(boxes BuyBoxes, writer MatchWriter, notifier *notify.Creator, logger *zap.Logger) *Matcher {
	return &Matcher{boxes: boxes, writer: writer, notifier: notifier, logger: logger}
}

// MatchDeal records a score for every active buy box of d's tenant and
// returns the stored matches. Buy boxes on instant alerts get a notification
// for each qualifying score. A failed write does not stop the remaining buy
// boxes; every failure is returned joined.
func (m *Matcher) MatchDeal(ctx context.Context, d model.Deal) ([]model.DealMatch, error) {
	boxes, err := m.boxes.ListActive(ctx, d.TenantID)
	if err != nil {
		return nil, fmt.Errorf("load buy boxes: %w", err)
	}

	out := make([]model.DealMatch, 0, len(boxes))
	var errs []error
	for _, b := range boxes {
		dm := model.DealMatch{BuyBoxID: b.ID, DealID: d.ID, MatchScore: Score(b, d)}
		if err := m.writer.UpsertMatch(ctx, &dm); err != nil {
			m.logger.Warn("upsert deal match failed",
				zap.String("deal_id", d.ID),
				zap.String("buy_box_id", b.ID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("buy box %s: %w", b.ID, err))
			continue
		}
		out = append(out, dm)

		if dm.MatchScore >= model.MatchThreshold && b.AlertFrequency == "instant" {
			msg := fmt.Sprintf("%q scored %.0f against %q", d.Title, dm.MatchScore, b.Name)
			link := "/deals/" + d.ID
			m.notifier.Create(ctx, notify.NewNotification{
				TenantID: d.TenantID,
				UserID:   b.UserID,
				Type:     model.NotificationInfo,
				Title:    "New deal matches " + b.Name,
				Message:  &msg,
				Link:     &link,
			})
		}
	}

	m.logger.Debug("deal matched",
		zap.String("deal_id", d.ID),
		zap.Int("buy_boxes", len(boxes)),
		zap.Int("failed", len(errs)),
	)
	return out, errors.Join(errs...)
}
