package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

var provinces = map[string]bool{
	"antwerp": true, "flemish-brabant": true, "walloon-brabant": true,
	"west-flanders": true, "east-flanders": true, "hainaut": true,
	"liege": true, "limburg": true, "luxembourg": true, "namur": true,
}

var propertyTypes = map[string]bool{
	"house": true, "apartment": true, "land": true, "office": true,
}

// Interval bounds for the scan scheduler, in minutes.
const (
	MinIntervalMinutes = 5
	MaxIntervalMinutes = 1440
)

func Province(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	return s, provinces[s]
}

func PropertyType(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	return s, propertyTypes[s]
}

// SellerFilter validates the profile's seller-category filter.
func SellerFilter(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	return s, s == "private" || s == "all"
}

// Price parses a non-negative price field, falling back when empty or invalid.
func Price(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// PriceRange enforces min_price <= max_price with both non-negative.
func PriceRange(min, max int) bool {
	return min >= 0 && max >= 0 && min <= max
}

// IntervalMinutes parses and bounds the scan interval.
func IntervalMinutes(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < MinIntervalMinutes || n > MaxIntervalMinutes {
		return 0, false
	}
	return n, true
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Name validates a displayable profile name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// ID validates a simple resource identifier (profile ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}
