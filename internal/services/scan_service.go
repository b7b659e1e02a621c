package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propwatch/internal/domain"
	"propwatch/internal/fingerprint"
	applog "propwatch/internal/log"
	"propwatch/internal/repos"
	"propwatch/internal/source"
)

// ScanService executes one scan cycle end-to-end: snapshot active profiles,
// pull candidates per profile, dedup against the listing store, persist the
// first sightings and hand everything still pending to the notifier.
type ScanService struct {
	Listings *repos.ListingRepo
	Profiles *repos.ProfileRepo
	Settings *repos.SettingsRepo
	Source   source.Adapter
	Notifier *NotifyService

	ScanTimeout time.Duration // per-profile adapter budget
	ScanDelay   time.Duration // polite pause between profiles
}

// RunCycle runs one cycle. A failing adapter invocation is isolated to its
// profile; only a store failure aborts the cycle. The cycle completion
// timestamp advances whenever the scan phase finishes, regardless of the
// notification outcome, so the dashboard's "last check" reflects scanning
// rather than delivery.
func (s *ScanService) RunCycle(ctx context.Context) (domain.ScanStats, error) {
	var stats domain.ScanStats
	start := time.Now()

	profiles, err := s.Profiles.ListActive()
	if err != nil {
		return stats, fmt.Errorf("load active profiles: %w", err)
	}
	stats.Profiles = len(profiles)
	applog.Info(nil, "scan.start", map[string]any{"profiles": len(profiles)})

	for i, p := range profiles {
		if i > 0 && s.ScanDelay > 0 {
			time.Sleep(s.ScanDelay)
		}
		if err := s.scanProfile(ctx, p, &stats); err != nil {
			if isStoreFailure(err) {
				return stats, err
			}
			stats.ProfilesFailed++
			applog.Error(nil, "scan.profile.fail", err, map[string]any{"profile": p.Name})
		}
	}

	pending, err := s.Listings.PendingNotification()
	if err != nil {
		return stats, fmt.Errorf("load pending listings: %w", err)
	}
	stats.Pending = len(pending)

	notified, err := s.Notifier.Dispatch(pending)
	if err != nil {
		// Non-fatal: listings stay pending and ride along next cycle.
		applog.Error(nil, "scan.notify.fail", err, map[string]any{"pending": len(pending)})
	}
	stats.Notified = notified

	if err := s.Settings.SetLastCheck(time.Now()); err != nil {
		applog.Error(nil, "scan.lastcheck.fail", err, nil)
	}

	applog.Info(nil, "scan.done", map[string]any{
		"profiles": stats.Profiles, "failed": stats.ProfilesFailed,
		"candidates": stats.Candidates, "new": stats.New,
		"pending": stats.Pending, "notified": stats.Notified,
		"elapsed": time.Since(start).String(),
	})
	return stats, nil
}

// storeErr marks persistence failures, which are fatal to the cycle.
type storeErr struct{ err error }

func (e storeErr) Error() string { return e.err.Error() }
func (e storeErr) Unwrap() error { return e.err }

func isStoreFailure(err error) bool {
	var se storeErr
	return errors.As(err, &se)
}

func (s *ScanService) scanProfile(ctx context.Context, p domain.SearchProfile, stats *domain.ScanStats) error {
	scanCtx, cancel := context.WithTimeout(ctx, s.ScanTimeout)
	defer cancel()

	cands, err := s.Source.Scan(scanCtx, p)
	if err != nil {
		return fmt.Errorf("adapter: %w", err)
	}
	stats.Candidates += len(cands)

	now := time.Now().UTC().Format(time.RFC3339)
	for _, c := range cands {
		id, canonical, err := fingerprint.Compute(c.URL, s.Source.Base())
		if err != nil {
			// No identity means no dedup: skip, never store.
			stats.Skipped++
			applog.Warn(nil, "scan.candidate.skip", map[string]any{"profile": p.Name, "title": c.Title})
			continue
		}

		known, err := s.Listings.Exists(id)
		if err != nil {
			return storeErr{fmt.Errorf("exists %s: %w", id, err)}
		}
		if known {
			continue
		}

		sellerType := domain.DetectSeller(c.SellerHint)
		if p.SellerType == domain.FilterPrivateOnly && sellerType != domain.SellerPrivate {
			stats.Filtered++
			continue
		}

		inserted, err := s.Listings.InsertIfAbsent(domain.Listing{
			ID:         id,
			URL:        canonical,
			Title:      c.Title,
			PriceText:  c.PriceText,
			Location:   p.Province,
			SellerType: sellerType,
			FirstSeen:  now,
		})
		if err != nil {
			return storeErr{fmt.Errorf("insert %s: %w", id, err)}
		}
		if inserted {
			stats.New++
			applog.Info(nil, "scan.listing.new", map[string]any{"profile": p.Name, "title": c.Title, "url": canonical})
		}
	}
	return nil
}
