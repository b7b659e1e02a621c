package services

import (
	"errors"
	"fmt"

	"propwatch/internal/domain"
	applog "propwatch/internal/log"
	"propwatch/internal/notify"
	"propwatch/internal/repos"
)

// NotifyService batches all pending listings of a cycle into one mail and
// marks them notified only after the transport confirms delivery. A failed
// send leaves every listing pending, so the next cycle retries the same set:
// at-least-once delivery, exactly-once-effective marking.
type NotifyService struct {
	Listings *repos.ListingRepo
	Settings *repos.SettingsRepo
	Sender   notify.Sender
}

func NewNotifyService(listings *repos.ListingRepo, settings *repos.SettingsRepo, sender notify.Sender) *NotifyService {
	return &NotifyService{Listings: listings, Settings: settings, Sender: sender}
}

// Dispatch sends one digest covering the given pending listings and returns
// how many were marked notified. An empty set is a no-op. Disabled or
// incomplete mail settings are not an error: listings simply accumulate
// until the operator finishes configuration.
func (s *NotifyService) Dispatch(pending []domain.Listing) (int, error) {
	if len(pending) == 0 {
		return 0, nil
	}

	cfg, err := s.Settings.Mail()
	if err != nil {
		return 0, fmt.Errorf("read mail settings: %w", err)
	}
	if !cfg.Enabled {
		applog.Info(nil, "notify.disabled", map[string]any{"pending": len(pending)})
		return 0, nil
	}

	msg := notify.BuildDigest(pending)
	if err := s.Sender.Send(cfg, msg); err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			applog.Warn(nil, "notify.incomplete_config", map[string]any{"pending": len(pending)})
			return 0, nil
		}
		return 0, fmt.Errorf("dispatch digest: %w", err)
	}

	ids := make([]string, len(pending))
	for i, l := range pending {
		ids[i] = l.ID
	}
	if err := s.Listings.MarkNotified(ids); err != nil {
		// The mail went out but the flags did not stick. The next cycle
		// re-sends these listings; preferable to silently dropping them.
		return 0, fmt.Errorf("mark notified: %w", err)
	}

	applog.Info(nil, "notify.sent", map[string]any{"count": len(ids)})
	return len(ids), nil
}
