package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"dealdesk/api-service/internal/api"
	"dealdesk/api-service/internal/events"
	"dealdesk/api-service/internal/model"
	"dealdesk/api-service/internal/notify"
)

// DealMatcher scores a freshly created deal against the tenant's buy boxes.
type DealMatcher interface {
	MatchDeal(ctx context.Context, d model.Deal) ([]model.DealMatch, error)
}

// Service encapsulates the pipeline business logic.
// It has no dependency on net/http.
type Service struct {
	repo     Repository
	matcher  DealMatcher
	notifier *notify.Creator
	pub      events.Publisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewService returns a configured Service.
func NewService(repo Repository, matcher DealMatcher, notifier *notify.Creator, pub events.Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		matcher:  matcher,
		notifier: notifier,
		pub:      pub,
		logger:   logger,
		now:      time.Now,
	}
}

// ListDeals returns the tenant's deals. stage, when set, must be a valid Stage.
func (s *Service) ListDeals(ctx context.Context, tenantID, stage string) ([]model.Deal, error) {
	if stage != "" {
		if _, err := ParseStage(stage); err != nil {
			return nil, &api.ValidationError{Msg: err.Error()}
		}
	}
	return s.repo.List(ctx, tenantID, stage)
}

// CreateDeal inserts a deal at LEAD and scores it against the tenant's buy
// boxes. Scoring failures are logged, not returned.
func (s *Service) CreateDeal(ctx context.Context, d *model.Deal) error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return api.Invalid("title is required")
	}
	if d.AskingPrice != nil && *d.AskingPrice < 0 {
		return api.Invalid("asking_price must not be negative")
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return err
	}

	if _, err := s.matcher.MatchDeal(ctx, *d); err != nil {
		s.logger.Warn("matchDeal failed", zap.String("deal_id", d.ID), zap.Error(err))
	}
	return nil
}

// MoveDeal transitions a deal to a new stage.
// Returns ErrNotFound if the deal does not exist for tenantID, a
// *api.ValidationError if the state machine rejects the transition and
// ErrStageChanged if a concurrent move won the race.
func (s *Service) MoveDeal(ctx context.Context, tenantID, dealID, newStageStr string) (*model.Deal, error) {
	newStage, err := ParseStage(newStageStr)
	if err != nil {
		return nil, &api.ValidationError{Msg: err.Error()}
	}

	current, err := s.repo.Get(ctx, tenantID, dealID)
	if err != nil {
		return nil, err
	}

	from := Stage(current.Stage)
	if !IsTransitionAllowed(from, newStage) {
		return nil, api.Invalid("transition %s → %s is not allowed", from, newStage)
	}

	entry, _ := json.Marshal(map[string]string{
		"from": string(from),
		"to":   string(newStage),
		"at":   s.now().UTC().Format(time.RFC3339),
	})
	deal, err := s.repo.Move(ctx, tenantID, dealID, from, newStage, entry)
	if err != nil {
		return nil, err
	}

	// Publish board event (non-fatal)
	event := map[string]string{
		"type":     events.DealMoved,
		"dealId":   dealID,
		"tenantId": tenantID,
		"from":     string(from),
		"to":       string(newStage),
	}
	if err := s.pub.Publish(ctx, events.DealMoved, event); err != nil {
		s.logger.Warn("publish EVENT_DEAL_MOVED failed", zap.Error(err))
	}

	link := "/deals/" + deal.ID
	msg := fmt.Sprintf("%s moved from %s to %s", deal.Title, from, newStage)
	s.notifier.Create(ctx, notify.NewNotification{
		TenantID: tenantID,
		Type:     notificationFor(newStage),
		Title:    stageTitle(deal.Title, newStage),
		Message:  &msg,
		Link:     &link,
	})

	return deal, nil
}

func notificationFor(s Stage) model.NotificationType {
	switch s {
	case StageClosed:
		return model.NotificationSuccess
	case StageDead:
		return model.NotificationWarning
	}
	return model.NotificationInfo
}

func stageTitle(title string, s Stage) string {
	switch s {
	case StageClosed:
		return "Deal closed: " + title
	case StageDead:
		return "Deal dropped: " + title
	}
	return "Deal updated: " + title
}
