package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Default settings rows (idempotent; safe to run every start)
	if err := seedDefaultSettings(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Listings discovered by scans. id is the URL fingerprint; rows are written
-- once and only the notified flag ever changes (false -> true).
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  url TEXT NOT NULL,
  title TEXT NOT NULL,
  price_text TEXT,
  location TEXT,
  seller_type TEXT NOT NULL CHECK (seller_type IN ('private','agency')),
  first_seen TEXT NOT NULL,
  notified INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_listings_notified   ON listings(notified);
CREATE INDEX IF NOT EXISTS idx_listings_first_seen ON listings(first_seen);

-- Operator-defined search profiles.
CREATE TABLE IF NOT EXISTS search_profiles(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  province TEXT NOT NULL,
  property_type TEXT NOT NULL CHECK (property_type IN ('house','apartment','land','office')),
  min_price INTEGER NOT NULL DEFAULT 0 CHECK (min_price >= 0),
  max_price INTEGER NOT NULL CHECK (max_price >= 0),
  seller_type TEXT NOT NULL CHECK (seller_type IN ('private','all')),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Key/value registry for operator settings.
CREATE TABLE IF NOT EXISTS settings(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func seedDefaultSettings(db *sqlx.DB) error {
	defaults := [][2]string{
		{"email_enabled", "0"},
		{"email_from", ""},
		{"email_password", ""},
		{"email_to", ""},
		{"check_interval", "60"},
		{"last_check", ""},
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, kv := range defaults {
		if _, err := tx.Exec(`INSERT INTO settings(key,value) VALUES(?,?)
			ON CONFLICT(key) DO NOTHING`, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}
