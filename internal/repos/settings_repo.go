package repos

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"propwatch/internal/domain"
	"propwatch/internal/validate"

	"github.com/jmoiron/sqlx"
)

// SettingsRepo wraps the key/value settings registry. The scan pipeline
// re-reads mail settings at dispatch time so operator changes take effect
// on the next cycle without a restart.
type SettingsRepo struct {
	db *sqlx.DB

	// Transport endpoint comes from process config, not the registry.
	SMTPHost string
	SMTPPort int
}

func NewSettingsRepo(db *sqlx.DB, smtpHost string, smtpPort int) *SettingsRepo {
	return &SettingsRepo{db: db, SMTPHost: smtpHost, SMTPPort: smtpPort}
}

func (r *SettingsRepo) Get(key string) (string, error) {
	var v string
	err := r.db.Get(&v, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

func (r *SettingsRepo) Set(key, value string) error {
	_, err := r.db.Exec(`INSERT INTO settings(key,value) VALUES(?,?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Mail assembles the notification transport settings.
func (r *SettingsRepo) Mail() (domain.MailSettings, error) {
	ms := domain.MailSettings{Host: r.SMTPHost, Port: r.SMTPPort}
	var err error
	var enabled string
	if enabled, err = r.Get("email_enabled"); err != nil {
		return ms, err
	}
	ms.Enabled = enabled == "1"
	if ms.From, err = r.Get("email_from"); err != nil {
		return ms, err
	}
	if ms.Password, err = r.Get("email_password"); err != nil {
		return ms, err
	}
	if ms.To, err = r.Get("email_to"); err != nil {
		return ms, err
	}
	return ms, nil
}

// CheckIntervalMinutes returns the configured interval, clamped into the
// valid window so a hand-edited registry cannot produce a hot loop.
func (r *SettingsRepo) CheckIntervalMinutes() (int, error) {
	v, err := r.Get("check_interval")
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil || n < validate.MinIntervalMinutes {
		n = 60
	}
	if n > validate.MaxIntervalMinutes {
		n = validate.MaxIntervalMinutes
	}
	return n, nil
}

func (r *SettingsRepo) SetLastCheck(t time.Time) error {
	return r.Set("last_check", t.UTC().Format("2006-01-02 15:04:05"))
}

func (r *SettingsRepo) LastCheck() (string, error) {
	return r.Get("last_check")
}
