package repos

import (
	"propwatch/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ProfileRepo manages search profiles. Profiles are owned by the admin
// layer; the scan pipeline only ever reads the active snapshot.
type ProfileRepo struct{ db *sqlx.DB }

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Create(p domain.SearchProfile) error {
	_, err := r.db.Exec(`
		INSERT INTO search_profiles(id, name, province, property_type, min_price, max_price, seller_type, active)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Province, p.PropertyType, p.MinPrice, p.MaxPrice, p.SellerType, p.Active)
	return err
}

func (r *ProfileRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM search_profiles WHERE id = ?`, id)
	return err
}

func (r *ProfileRepo) SetActive(id string, active bool) error {
	_, err := r.db.Exec(`UPDATE search_profiles SET active = ? WHERE id = ?`, active, id)
	return err
}

func (r *ProfileRepo) ListAll() ([]domain.SearchProfile, error) {
	var out []domain.SearchProfile
	err := r.db.Select(&out, `
		SELECT id, name, province, property_type, min_price, max_price, seller_type, active,
		       COALESCE(created_at,'') AS created_at
		FROM search_profiles
		ORDER BY created_at DESC, id
	`)
	return out, err
}

// ListActive returns the point-in-time snapshot a scan cycle runs against.
func (r *ProfileRepo) ListActive() ([]domain.SearchProfile, error) {
	var out []domain.SearchProfile
	err := r.db.Select(&out, `
		SELECT id, name, province, property_type, min_price, max_price, seller_type, active,
		       COALESCE(created_at,'') AS created_at
		FROM search_profiles
		WHERE active = 1
		ORDER BY created_at ASC, id
	`)
	return out, err
}

func (r *ProfileRepo) CountActive() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM search_profiles WHERE active = 1`)
	return n, err
}
