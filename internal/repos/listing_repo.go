package repos

import (
	"propwatch/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ListingRepo owns the listings table. It is written only by the scan
// pipeline; dashboard reads may run concurrently with an in-progress cycle
// and observe either the pre- or post-cycle snapshot.
type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

func (r *ListingRepo) Exists(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM listings WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertIfAbsent stores a listing unless a row with the same fingerprint
// already exists. Returns true when the row was inserted.
func (r *ListingRepo) InsertIfAbsent(l domain.Listing) (bool, error) {
	res, err := r.db.Exec(`
		INSERT INTO listings(id, url, title, price_text, location, seller_type, first_seen, notified)
		VALUES(?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(id) DO NOTHING
	`, l.ID, l.URL, l.Title, l.PriceText, l.Location, l.SellerType, l.FirstSeen)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PendingNotification returns every unnotified listing, oldest sighting
// first. The id tiebreak keeps the order deterministic for listings stored
// within the same timestamp.
func (r *ListingRepo) PendingNotification() ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
		SELECT id, url, title, COALESCE(price_text,'') AS price_text,
		       COALESCE(location,'') AS location, seller_type, first_seen, notified
		FROM listings
		WHERE notified = 0
		ORDER BY first_seen ASC, id ASC
	`)
	return out, err
}

// MarkNotified flips the notified flag for exactly the given ids in one
// transaction. All-or-nothing; a no-op for an empty set.
func (r *ListingRepo) MarkNotified(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE listings SET notified = 1 WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(r.db.Rebind(query), args...); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *ListingRepo) CountAll() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM listings`)
	return n, err
}

func (r *ListingRepo) CountUnnotified() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM listings WHERE notified = 0`)
	return n, err
}

// Recent returns the latest sightings for the dashboard.
func (r *ListingRepo) Recent(limit int) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
		SELECT id, url, title, COALESCE(price_text,'') AS price_text,
		       COALESCE(location,'') AS location, seller_type, first_seen, notified
		FROM listings
		ORDER BY first_seen DESC, id ASC
		LIMIT ?
	`, limit)
	return out, err
}
