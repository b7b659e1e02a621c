package domain

import "strings"

// Seller categories as stored on a listing.
const (
	SellerPrivate = "private"
	SellerAgency  = "agency"
)

// Seller filters as configured on a search profile.
const (
	FilterPrivateOnly = "private"
	FilterAny         = "all"
)

// Listing is a uniquely identified property discovered by a scan. The
// descriptive fields are a snapshot taken at first sighting and are never
// updated afterwards.
type Listing struct {
	ID         string `db:"id"` // fingerprint of the canonical URL
	URL        string `db:"url"`
	Title      string `db:"title"`
	PriceText  string `db:"price_text"`
	Location   string `db:"location"`
	SellerType string `db:"seller_type"` // private | agency
	FirstSeen  string `db:"first_seen"`  // RFC3339 UTC
	Notified   bool   `db:"notified"`
}

// SearchProfile is an operator-defined filter driving one source query.
type SearchProfile struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Province     string `db:"province"`
	PropertyType string `db:"property_type"` // house | apartment | land | office
	MinPrice     int    `db:"min_price"`
	MaxPrice     int    `db:"max_price"`
	SellerType   string `db:"seller_type"` // private | all
	Active       bool   `db:"active"`
	CreatedAt    string `db:"created_at"`
}

// RawCandidate is an unvalidated record produced by a source adapter before
// deduplication. URL may be relative to the source origin. SellerHint carries
// the card's free text so the executor can classify the seller.
type RawCandidate struct {
	Title      string
	PriceText  string
	URL        string
	SellerHint string
}

// MailSettings is the operator-configured notification transport, read from
// the settings registry at dispatch time.
type MailSettings struct {
	Enabled  bool
	From     string
	Password string
	To       string
	Host     string
	Port     int
}

// Complete reports whether enough is configured to attempt a send.
func (m MailSettings) Complete() bool {
	return m.From != "" && m.Password != "" && m.To != "" && m.Host != ""
}

// ScanStats summarizes one scan cycle.
type ScanStats struct {
	Profiles       int
	ProfilesFailed int
	Candidates     int
	Skipped        int // candidates without a usable URL
	Filtered       int // rejected by the profile's seller filter
	New            int
	Pending        int
	Notified       int
}

// DetectSeller classifies a candidate's seller from its free-text blob.
// Immoweb cards mention "particulier" for private sellers; everything else
// is treated as an agency listing.
func DetectSeller(hint string) string {
	if strings.Contains(strings.ToLower(hint), "particulier") {
		return SellerPrivate
	}
	return SellerAgency
}
