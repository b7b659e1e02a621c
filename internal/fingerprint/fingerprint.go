// Package fingerprint assigns stable identities to listing candidates.
//
// The identity is a SHA-256 digest of the candidate's canonical absolute URL.
// The URL is the only field a source reliably repeats between scrapes of the
// same listing; titles and price text shift wording and would create
// spurious duplicates if hashed.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

// ErrNoURL marks a candidate without an extractable URL. Such candidates
// cannot be deduplicated and must be skipped, not stored.
var ErrNoURL = errors.New("candidate has no usable url")

// Compute canonicalizes rawURL against the source's base origin and returns
// the fingerprint plus the canonical absolute URL. A listing reached via a
// relative link and via its absolute URL yields the same fingerprint.
func Compute(rawURL, baseOrigin string) (id, canonical string, err error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", "", ErrNoURL
	}

	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", "", ErrNoURL
	}

	if !ref.IsAbs() {
		base, err := url.Parse(baseOrigin)
		if err != nil || base.Host == "" {
			return "", "", ErrNoURL
		}
		ref = base.ResolveReference(ref)
	}

	if (ref.Scheme != "http" && ref.Scheme != "https") || ref.Host == "" {
		return "", "", ErrNoURL
	}

	// Fragments never change the target listing.
	ref.Fragment = ""
	ref.Host = strings.ToLower(ref.Host)

	canonical = ref.String()
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:]), canonical, nil
}
