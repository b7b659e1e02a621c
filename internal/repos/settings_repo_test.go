package repos_test

import (
	"testing"
	"time"

	"propwatch/internal/domain"
	"propwatch/internal/repos"

	"github.com/google/uuid"
)

func TestDefaultSettingsSeeded(t *testing.T) {
	db := memdb(t)
	r := repos.NewSettingsRepo(db, "smtp.gmail.com", 465)

	v, err := r.Get("email_enabled")
	if err != nil {
		t.Fatal(err)
	}
	if v != "0" {
		t.Fatalf("email_enabled default should be 0, got %q", v)
	}

	n, err := r.CheckIntervalMinutes()
	if err != nil {
		t.Fatal(err)
	}
	if n != 60 {
		t.Fatalf("default interval should be 60, got %d", n)
	}

	// Missing key reads as empty, not an error.
	if v, err := r.Get("nonexistent"); err != nil || v != "" {
		t.Fatalf("missing key: want empty, got %q err=%v", v, err)
	}
}

func TestSettingsRoundTripAndMail(t *testing.T) {
	db := memdb(t)
	r := repos.NewSettingsRepo(db, "smtp.gmail.com", 465)

	for k, v := range map[string]string{
		"email_enabled":  "1",
		"email_from":     "me@gmail.com",
		"email_password": "app-password",
		"email_to":       "alerts@example.com",
	} {
		if err := r.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}

	ms, err := r.Mail()
	if err != nil {
		t.Fatal(err)
	}
	if !ms.Enabled || !ms.Complete() {
		t.Fatalf("mail settings should be enabled and complete: %+v", ms)
	}
	if ms.Host != "smtp.gmail.com" || ms.Port != 465 {
		t.Fatalf("transport endpoint should come from process config: %+v", ms)
	}

	if err := r.SetLastCheck(time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	lc, err := r.LastCheck()
	if err != nil {
		t.Fatal(err)
	}
	if lc != "2026-02-01 09:30:00" {
		t.Fatalf("unexpected last_check %q", lc)
	}
}

func TestIntervalClamped(t *testing.T) {
	db := memdb(t)
	r := repos.NewSettingsRepo(db, "smtp.gmail.com", 465)

	if err := r.Set("check_interval", "2"); err != nil {
		t.Fatal(err)
	}
	if n, _ := r.CheckIntervalMinutes(); n != 60 {
		t.Fatalf("sub-minimum interval should fall back to 60, got %d", n)
	}

	if err := r.Set("check_interval", "99999"); err != nil {
		t.Fatal(err)
	}
	if n, _ := r.CheckIntervalMinutes(); n != 1440 {
		t.Fatalf("oversized interval should clamp to 1440, got %d", n)
	}
}

func TestProfileCRUD(t *testing.T) {
	db := memdb(t)
	r := repos.NewProfileRepo(db)

	p := domain.SearchProfile{
		ID:           uuid.NewString(),
		Name:         "Appartementen Antwerpen",
		Province:     "antwerp",
		PropertyType: "apartment",
		MinPrice:     0,
		MaxPrice:     350000,
		SellerType:   domain.FilterPrivateOnly,
		Active:       true,
	}
	if err := r.Create(p); err != nil {
		t.Fatal(err)
	}

	active, err := r.ListActive()
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Name != p.Name {
		t.Fatalf("want created profile in active snapshot, got %+v", active)
	}

	if err := r.SetActive(p.ID, false); err != nil {
		t.Fatal(err)
	}
	if n, _ := r.CountActive(); n != 0 {
		t.Fatalf("deactivated profile still counted active")
	}
	all, err := r.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("profile should still exist, got %d", len(all))
	}

	if err := r.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	all, _ = r.ListAll()
	if len(all) != 0 {
		t.Fatalf("profile should be deleted, got %d", len(all))
	}
}
