// Package scheduler wires up the cron jobs that send daily and weekly
// buy-box alert digests.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"dealdesk/api-service/internal/model"
	"dealdesk/api-service/internal/notify"
)

// BuyBoxSource is the slice of the buy-box repository the digests need.
type BuyBoxSource interface {
	ListByFrequency(ctx context.Context, frequency string) ([]model.BuyBox, error)
	MatchesSince(ctx context.Context, buyBoxID string, since time.Time, threshold float64) ([]model.DealMatch, error)
}

// digest is one alert frequency with its cron spec and look-back window.
type digest struct {
	frequency string
	spec      string
	window    time.Duration
}

var digests = []digest{
	{frequency: "daily", spec: "@daily", window: 24 * time.Hour},
	{frequency: "weekly", spec: "@weekly", window: 7 * 24 * time.Hour},
}

// Scheduler wraps robfig/cron and manages the digest jobs.
type Scheduler struct {
	cron     *cron.Cron
	boxes    BuyBoxSource
	notifier *notify.Creator
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Scheduler. Jobs are registered by Start.
func New(boxes BuyBoxSource, notifier *notify.Creator, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		boxes:    boxes,
		notifier: notifier,
		logger:   logger.Named("scheduler"),
		now:      time.Now,
	}
}

// Start registers one job per digest frequency and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, d := range digests {
		if _, err := s.cron.AddFunc(d.spec, func() {
			s.runDigest(ctx, d)
		}); err != nil {
			return fmt.Errorf("cron.AddFunc %s: %w", d.spec, err)
		}
	}

	s.cron.Start()
	s.logger.Info("cron started", zap.Int("jobs", len(s.cron.Entries())))
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron stopped")
}

// runDigest notifies every active buy box of the given frequency that gained
// qualifying matches during the window. It returns the number of
// notifications created.
func (s *Scheduler) runDigest(ctx context.Context, d digest) int {
	log := s.logger.With(zap.String("frequency", d.frequency))

	boxes, err := s.boxes.ListByFrequency(ctx, d.frequency)
	if err != nil {
		log.Error("list buy boxes failed", zap.Error(err))
		return 0
	}
	if len(boxes) == 0 {
		log.Debug("no buy boxes to digest")
		return 0
	}

	since := s.now().Add(-d.window)
	sent := 0
	for _, b := range boxes {
		matches, err := s.boxes.MatchesSince(ctx, b.ID, since, model.MatchThreshold)
		if err != nil {
			log.Error("load matches failed", zap.String("buy_box_id", b.ID), zap.Error(err))
			continue
		}
		if len(matches) == 0 {
			continue
		}

		noun := "deals"
		if len(matches) == 1 {
			noun = "deal"
		}
		link := "/buy-boxes/" + b.ID
		n := s.notifier.Create(ctx, notify.NewNotification{
			TenantID: b.TenantID,
			UserID:   b.UserID,
			Type:     model.NotificationInfo,
			Title:    fmt.Sprintf("%d new %s match %s", len(matches), noun, b.Name),
			Link:     &link,
		})
		if n != nil {
			sent++
		}
	}

	log.Info("digest complete", zap.Int("buy_boxes", len(boxes)), zap.Int("notifications", sent))
	return sent
}
