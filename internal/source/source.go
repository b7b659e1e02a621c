// Package source contains listing source adapters. Adapters are the brittle
// edge of the system: they may break whenever a site changes markup, so the
// scan pipeline assumes nothing about them beyond this contract.
package source

import (
	"context"

	"propwatch/internal/domain"
)

// Adapter pulls raw candidate records for one search profile. An empty slice
// is a valid, non-error outcome; transport and parse problems are returned
// as errors. Implementations must honor ctx so one slow source cannot starve
// the profiles scanned after it.
type Adapter interface {
	// Base returns the origin used to resolve relative candidate links.
	Base() string
	Scan(ctx context.Context, p domain.SearchProfile) ([]domain.RawCandidate, error)
}
