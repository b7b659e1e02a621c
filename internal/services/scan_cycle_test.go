package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"propwatch/internal/domain"
	"propwatch/internal/notify"
	"propwatch/internal/repos"
	"propwatch/internal/services"
)

// fakeAdapter serves canned candidates per profile name.
type fakeAdapter struct {
	candidates map[string][]domain.RawCandidate
	errs       map[string]error
	calls      map[string]int
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		candidates: map[string][]domain.RawCandidate{},
		errs:       map[string]error{},
		calls:      map[string]int{},
	}
}

func (f *fakeAdapter) Base() string { return "https://www.immoweb.be" }

func (f *fakeAdapter) Scan(_ context.Context, p domain.SearchProfile) ([]domain.RawCandidate, error) {
	f.calls[p.Name]++
	if err := f.errs[p.Name]; err != nil {
		return nil, err
	}
	return f.candidates[p.Name], nil
}

// fakeSender records digests and can be told to fail.
type fakeSender struct {
	fail bool
	sent []notify.Message
}

func (f *fakeSender) Send(_ domain.MailSettings, m notify.Message) error {
	if f.fail {
		return errors.New("smtp: connection refused")
	}
	f.sent = append(f.sent, m)
	return nil
}

type fixture struct {
	db       *sqlx.DB
	listings *repos.ListingRepo
	profiles *repos.ProfileRepo
	settings *repos.SettingsRepo
	adapter  *fakeAdapter
	sender   *fakeSender
	scan     *services.ScanService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		db:       db,
		listings: repos.NewListingRepo(db),
		profiles: repos.NewProfileRepo(db),
		settings: repos.NewSettingsRepo(db, "smtp.gmail.com", 465),
		adapter:  newFakeAdapter(),
		sender:   &fakeSender{},
	}

	// Mail fully configured and enabled unless a test says otherwise.
	for k, v := range map[string]string{
		"email_enabled":  "1",
		"email_from":     "me@gmail.com",
		"email_password": "app-password",
		"email_to":       "alerts@example.com",
	} {
		if err := f.settings.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}

	f.scan = &services.ScanService{
		Listings:    f.listings,
		Profiles:    f.profiles,
		Settings:    f.settings,
		Source:      f.adapter,
		Notifier:    services.NewNotifyService(f.listings, f.settings, f.sender),
		ScanTimeout: time.Second,
	}
	return f
}

func (f *fixture) addProfile(t *testing.T, name, sellerFilter string) domain.SearchProfile {
	t.Helper()
	p := domain.SearchProfile{
		ID:           name + "-id",
		Name:         name,
		Province:     "antwerp",
		PropertyType: "house",
		MinPrice:     0,
		MaxPrice:     999999999,
		SellerType:   sellerFilter,
		Active:       true,
	}
	if err := f.profiles.Create(p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCycleStoresFiltersAndNotifies(t *testing.T) {
	f := newFixture(t)
	f.addProfile(t, "P", domain.FilterPrivateOnly)
	f.adapter.candidates["P"] = []domain.RawCandidate{
		{Title: "Huis A", PriceText: "€ 200.000", URL: "/a", SellerHint: "verkocht door particulier"},
		{Title: "Huis B", PriceText: "€ 300.000", URL: "/b", SellerHint: "aangeboden door makelaar"},
	}

	stats, err := f.scan.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.New != 1 || stats.Filtered != 1 {
		t.Fatalf("want 1 new / 1 filtered, got %+v", stats)
	}
	if stats.Notified != 1 || len(f.sender.sent) != 1 {
		t.Fatalf("want one dispatched digest for one listing, got %+v sent=%d", stats, len(f.sender.sent))
	}

	total, _ := f.listings.CountAll()
	if total != 1 {
		t.Fatalf("agency candidate must not be stored, total=%d", total)
	}
	unnotified, _ := f.listings.CountUnnotified()
	if unnotified != 0 {
		t.Fatalf("stored listing should be marked notified, unnotified=%d", unnotified)
	}

	lc, _ := f.settings.LastCheck()
	if lc == "" {
		t.Fatal("last_check should advance after the cycle")
	}

	// Second cycle, unchanged candidate set: nothing new, nothing sent.
	stats, err = f.scan.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.New != 0 || stats.Pending != 0 || len(f.sender.sent) != 1 {
		t.Fatalf("repeat cycle must be a no-op: %+v sent=%d", stats, len(f.sender.sent))
	}
}

func TestCycleIsolatesAdapterFailure(t *testing.T) {
	f := newFixture(t)
	f.addProfile(t, "first", domain.FilterAny)
	f.addProfile(t, "second", domain.FilterAny)
	f.addProfile(t, "third", domain.FilterAny)

	f.adapter.candidates["first"] = []domain.RawCandidate{{Title: "A", URL: "/a"}}
	f.adapter.errs["second"] = errors.New("read tcp: connection reset")
	f.adapter.candidates["third"] = []domain.RawCandidate{{Title: "C", URL: "/c"}}

	stats, err := f.scan.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.ProfilesFailed != 1 {
		t.Fatalf("want 1 failed profile, got %+v", stats)
	}
	if stats.New != 2 || stats.Notified != 2 {
		t.Fatalf("surviving profiles must still store and notify: %+v", stats)
	}
	if f.adapter.calls["third"] != 1 {
		t.Fatal("third profile was never scanned")
	}
}

func TestFailedNotificationRetriesNextCycle(t *testing.T) {
	f := newFixture(t)
	f.addProfile(t, "P", domain.FilterAny)
	f.adapter.candidates["P"] = []domain.RawCandidate{
		{Title: "A", URL: "/a"},
		{Title: "B", URL: "/b"},
	}

	// Cycle N: transport down. Listings stay pending, cycle still succeeds.
	f.sender.fail = true
	stats, err := f.scan.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.New != 2 || stats.Notified != 0 {
		t.Fatalf("cycle N: want 2 new / 0 notified, got %+v", stats)
	}
	if n, _ := f.listings.CountUnnotified(); n != 2 {
		t.Fatalf("cycle N: want 2 pending, got %d", n)
	}

	// Cycle N+1: no new candidates, transport back. The carried-over pending
	// set is delivered verbatim and marked.
	f.sender.fail = false
	f.adapter.candidates["P"] = nil
	stats, err = f.scan.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Pending != 2 || stats.Notified != 2 {
		t.Fatalf("cycle N+1: want 2 pending / 2 notified, got %+v", stats)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("cycle N+1: want one digest, got %d", len(f.sender.sent))
	}

	// Cycle N+2: nothing pending, no digest.
	stats, err = f.scan.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Pending != 0 || len(f.sender.sent) != 1 {
		t.Fatalf("cycle N+2: already-notified listings must not be re-sent: %+v sent=%d", stats, len(f.sender.sent))
	}
}

func TestNotificationsDisabledAccumulate(t *testing.T) {
	f := newFixture(t)
	if err := f.settings.Set("email_enabled", "0"); err != nil {
		t.Fatal(err)
	}
	f.addProfile(t, "P", domain.FilterAny)
	f.adapter.candidates["P"] = []domain.RawCandidate{{Title: "A", URL: "/a"}}

	stats, err := f.scan.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.New != 1 || stats.Notified != 0 || len(f.sender.sent) != 0 {
		t.Fatalf("disabled mail must not dispatch: %+v", stats)
	}
	if n, _ := f.listings.CountUnnotified(); n != 1 {
		t.Fatalf("listing should accumulate unnotified, got %d", n)
	}
}

func TestCandidateWithoutURLSkipped(t *testing.T) {
	f := newFixture(t)
	f.addProfile(t, "P", domain.FilterAny)
	f.adapter.candidates["P"] = []domain.RawCandidate{
		{Title: "geen link"},
		{Title: "A", URL: "/a"},
	}

	stats, err := f.scan.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Skipped != 1 || stats.New != 1 {
		t.Fatalf("want 1 skipped / 1 new, got %+v", stats)
	}
	total, _ := f.listings.CountAll()
	if total != 1 {
		t.Fatalf("unidentifiable candidate must not be stored, total=%d", total)
	}
}

func TestInactiveProfilesNotScanned(t *testing.T) {
	f := newFixture(t)
	p := f.addProfile(t, "P", domain.FilterAny)
	if err := f.profiles.SetActive(p.ID, false); err != nil {
		t.Fatal(err)
	}

	stats, err := f.scan.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Profiles != 0 || f.adapter.calls["P"] != 0 {
		t.Fatalf("inactive profile must not be scanned: %+v calls=%d", stats, f.adapter.calls["P"])
	}
}
